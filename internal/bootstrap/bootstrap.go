package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rafaelbarros/docflow/internal/config"
	"github.com/rafaelbarros/docflow/internal/core/ports"
	"github.com/rafaelbarros/docflow/internal/core/usecase"
	"github.com/rafaelbarros/docflow/internal/infrastructure/catalog/yamlcatalog"
	"github.com/rafaelbarros/docflow/internal/infrastructure/pdfcheck"
	"github.com/rafaelbarros/docflow/internal/infrastructure/queue/nats"
	"github.com/rafaelbarros/docflow/internal/infrastructure/report/excel"
	"github.com/rafaelbarros/docflow/internal/infrastructure/repository/postgres"
	"github.com/rafaelbarros/docflow/internal/infrastructure/resilience"
	"github.com/rafaelbarros/docflow/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Intake   ports.DocumentIntake
	Reviewer ports.DocumentReviewer
	Reader   ports.WorkflowReader
	Roster   ports.RosterService
	Verifier ports.IntakeVerifier

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	memberRepo := postgres.NewMemberRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy(), logger)
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	catalog, err := yamlcatalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load required-document catalog: %w", err)
	}

	verifier := pdfcheck.NewVerifier(storage, cfg.MaxUploadBytes)
	exporter := excel.NewExporter()

	intakeUC := usecase.NewUploadDocumentUseCase(docRepo, memberRepo, storage, queue, cfg.MaxUploadBytes)
	reviewUC := usecase.NewReviewDocumentUseCase(docRepo)
	readUC := usecase.NewWorkflowReadUseCase(docRepo, memberRepo, catalog, exporter)
	rosterUC := usecase.NewRosterUseCase(memberRepo)
	verifyUC := usecase.NewVerifyDocumentUseCase(docRepo, verifier)

	return &App{
		Config: cfg,

		Queue:    queue,
		Intake:   intakeUC,
		Reviewer: reviewUC,
		Reader:   readUC,
		Roster:   rosterUC,
		Verifier: verifyUC,

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
