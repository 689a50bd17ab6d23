// Package app wires the plan pipeline from configuration.
package app

import (
	"fmt"

	"github.com/elecmate/maintenance-planner/internal/config"
	"github.com/elecmate/maintenance-planner/internal/database"
	"github.com/elecmate/maintenance-planner/internal/knowledge"
	"github.com/elecmate/maintenance-planner/internal/openai"
	"github.com/elecmate/maintenance-planner/internal/planner"
	"github.com/elecmate/maintenance-planner/internal/repository"
	"github.com/elecmate/maintenance-planner/internal/services"
	"github.com/sirupsen/logrus"
)

// App holds the long-lived components of a running planner.
type App struct {
	DB           *database.Manager
	Cache        *database.Cache
	Repositories *repository.RepositoryManager
	OpenAI       *openai.Client
	Planner      *services.MaintenanceService
}

// New connects to storage and builds the pipeline. Callers must Close it.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if err := cfg.ValidateOpenAI(); err != nil {
		return nil, fmt.Errorf("OpenAI configuration invalid: %w", err)
	}
	if err := cfg.ValidateRetrieval(); err != nil {
		return nil, fmt.Errorf("retrieval configuration invalid: %w", err)
	}

	if err := cfg.ValidateGeneration(); err != nil {
		return nil, fmt.Errorf("generation configuration invalid: %w", err)
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    cfg.LogLevel,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	a := &App{
		DB:           dbManager,
		Repositories: repository.NewRepositoryManager(dbManager.DB),
	}
	if dbManager.Redis != nil {
		a.Cache = database.NewCache(dbManager.Redis, logger)
	}

	a.OpenAI = openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, logger)
	retry := openai.DefaultRetryConfig()
	retry.MaxRetries = cfg.OpenAI.MaxRetries
	if cfg.OpenAI.RetryBaseDelay > 0 {
		retry.BaseDelay = cfg.OpenAI.RetryBaseDelay
	}
	a.OpenAI.SetRetryConfig(retry)
	llm := openai.NewService(a.OpenAI, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel, logger)

	var embedCache knowledge.EmbeddingCache
	if a.Cache != nil {
		embedCache = a.Cache
	}
	embedder := knowledge.NewCachedEmbedder(llm, embedCache, llm.EmbeddingModel(), cfg.Retrieval.EmbeddingTTL, logger)

	store := knowledge.NewPostgresStore(dbManager.DB, logger)
	retriever := knowledge.NewRetriever(store, store, store, embedder, knowledge.Options{
		PrimaryLimit:    cfg.Retrieval.PrimaryLimit,
		MinPrimaryDocs:  cfg.Retrieval.MinPrimaryDocs,
		FallbackLimit:   cfg.Retrieval.FallbackLimit,
		RegulationLimit: cfg.Retrieval.RegulationLimit,
	}, logger)

	generator := planner.NewGenerator(llm, planner.GeneratorOptions{
		Timeout:          cfg.Generation.Timeout,
		RepromptAttempts: cfg.Generation.RepromptAttempts,
		MaxTokens:        cfg.Generation.MaxTokens,
		Temperature:      cfg.Generation.Temperature,
	}, logger)

	a.Planner = services.NewMaintenanceService(
		retriever,
		knowledge.NewAssembler(cfg.Retrieval.MaxContextChars),
		generator,
		a.Repositories.Generations,
		llm.Model(),
		logger,
	)

	return a, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
