package config

import (
	"bookmark-highlighter/internal/domain"
	"bookmark-highlighter/internal/repository"
	"bookmark-highlighter/internal/service"
	"bookmark-highlighter/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config              domain.Config
	Logger              domain.Logger
	SupabaseClient      domain.SupabaseClient
	HighlightRepository domain.HighlightRepository
	HighlightService    domain.HighlightService
}

// NewContainer creates a new dependency injection container. Without a
// configured Supabase backend it falls back to the in-memory repository, so
// the server stays usable for local development.
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	var supabaseClient domain.SupabaseClient
	var highlightRepo domain.HighlightRepository

	if config.GetSupabaseURL() != "" && config.GetSupabaseKey() != "" {
		supabaseClient = repository.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Failed to initialize Supabase client", err)
		}
		highlightRepo = repository.NewSupabaseHighlightRepository(supabaseClient, appLogger)
	} else {
		appLogger.Warn("Supabase not configured, using in-memory highlight store")
		highlightRepo = repository.NewMemoryHighlightRepository(appLogger)
	}

	highlightService := service.NewHighlightService(highlightRepo, appLogger)

	return &Container{
		Config:              config,
		Logger:              appLogger,
		SupabaseClient:      supabaseClient,
		HighlightRepository: highlightRepo,
		HighlightService:    highlightService,
	}
}
