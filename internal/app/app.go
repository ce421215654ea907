package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/document"
	"github.com/ternarybob/hansard/internal/handlers"
	"github.com/ternarybob/hansard/internal/interfaces"
	"github.com/ternarybob/hansard/internal/jobs"
	"github.com/ternarybob/hansard/internal/services/llm"
	"github.com/ternarybob/hansard/internal/services/summarizer"
	"github.com/ternarybob/hansard/internal/services/transform"
	"github.com/ternarybob/hansard/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	ctx            context.Context
	cancelCtx      context.CancelFunc
	StorageManager interfaces.StorageManager

	// Core services
	LLMService       interfaces.LLMService
	SummaryService   *summarizer.Service
	TransformService *transform.Service
	Structurer       *document.Structurer

	// Job registry and its retention sweeper
	JobRegistry *jobs.Registry
	JobSweeper  *jobs.Sweeper

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	DocumentHandler *handlers.DocumentHandler
	SummaryHandler  *handlers.SummaryHandler
}

// New creates and wires all application components
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Config:    config,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	llmService, err := llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)
	if err != nil {
		storageManager.Close()
		cancel()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	app.LLMService = llmService

	app.SummaryService = summarizer.NewService(llmService, &config.Summarizer, logger)
	app.TransformService = transform.NewService(logger)
	app.Structurer = document.NewStructurer(logger)

	app.JobRegistry = jobs.NewRegistry(config.JobRetention(), logger)
	sweeper, err := jobs.NewSweeper(app.JobRegistry, config.Jobs.SweepSchedule, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize job sweeper: %w", err)
	}
	app.JobSweeper = sweeper
	sweeper.Start()

	documentStorage := storageManager.DocumentStorage()
	app.APIHandler = handlers.NewAPIHandler()
	app.DocumentHandler = handlers.NewDocumentHandler(
		documentStorage,
		app.Structurer,
		app.TransformService,
		&config.Structurer,
		logger,
	)
	app.SummaryHandler = handlers.NewSummaryHandler(
		app.SummaryService,
		app.JobRegistry,
		documentStorage,
		logger,
	)

	logger.Info().
		Str("provider", string(config.LLM.DefaultProvider)).
		Str("storage_path", config.Storage.Badger.Path).
		Msg("Application initialized")

	return app, nil
}

// Context returns the application's root context
func (a *App) Context() context.Context {
	return a.ctx
}

// Close releases all application resources
func (a *App) Close() error {
	a.cancelCtx()

	if a.JobSweeper != nil {
		a.JobSweeper.Stop()
	}
	if a.JobRegistry != nil {
		a.JobRegistry.Close()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
