package bootstrap

import (
	"context"
	"fmt"

	"github.com/vykhand/mydocs2/internal/config"
	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
	"github.com/vykhand/mydocs2/internal/core/usecase"
	"github.com/vykhand/mydocs2/internal/infrastructure/extractor"
	"github.com/vykhand/mydocs2/internal/infrastructure/identity"
	"github.com/vykhand/mydocs2/internal/infrastructure/llm/ollama"
	"github.com/vykhand/mydocs2/internal/infrastructure/queue/nats"
	"github.com/vykhand/mydocs2/internal/infrastructure/rendering"
	"github.com/vykhand/mydocs2/internal/infrastructure/repository/postgres"
	"github.com/vykhand/mydocs2/internal/infrastructure/resilience"
	"github.com/vykhand/mydocs2/internal/infrastructure/storage/localfs"
)

type App struct {
	Config         config.Config
	ClassifierConf domain.ClassifierConfig

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	SplitUC   ports.DocumentSplitter
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	pageRepo := postgres.NewPageRepository(db)
	if err := pageRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure pages schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifierConf, err := config.LoadClassifierConfig(cfg, cfg.PromptConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier config: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.SplitTransportRetries,
		BreakerEnabled:   true,
	})
	ollamaClient := ollama.New(cfg.OllamaURL, executor, cfg.ClassifierRPS)
	classifier := ollama.NewSplitClassifier(ollamaClient)

	pages := extractor.NewDispatcher(storage)
	renderer := rendering.NewMarkdownRenderer()
	ids := identity.NewGenerator()

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	splitUC := usecase.NewSplitClassifyUseCase(repo, pageRepo, classifier, renderer, ids)
	processUC := usecase.NewProcessDocumentUseCase(
		repo, pageRepo, pages, splitUC,
		classifierConf, cfg.CaseType, domain.ContentMode(cfg.ContentMode),
	)

	return &App{
		Config:         cfg,
		ClassifierConf: classifierConf,

		Queue:     queue,
		Repo:      repo,
		IngestUC:  ingestUC,
		SplitUC:   splitUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
