package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lending/internal/collection"
	"lending/internal/config"
	"lending/internal/models"
	"lending/internal/render"
	"lending/internal/storage"
	"lending/internal/storage/memory"
)

// App represents the application
type App struct {
	config     *config.Config
	logger     *zap.Logger
	collection *collection.Collection
	store      storage.LoanStore
	renderer   render.Renderer
	out        io.Writer
}

// New creates and initializes a new application instance writing reports to stdout
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return NewWithConfig(cfg, logger, os.Stdout)
}

// NewWithConfig builds an application from an explicit configuration
func NewWithConfig(cfg *config.Config, logger *zap.Logger, out io.Writer) (*App, error) {
	renderer, err := render.New(cfg.ReportFormat)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:   cfg,
		logger:   logger,
		store:    memory.NewStore(),
		renderer: renderer,
		out:      out,
	}
	app.initCollection(time.Now)

	logger.Info("Lending application initialized",
		zap.Int("loan_days", cfg.LoanDays),
		zap.Float64("fee_per_day", cfg.FeePerDay),
		zap.String("report_format", cfg.ReportFormat),
	)
	return app, nil
}

// initCollection creates the collection with the configured fee and clock
func (a *App) initCollection(now func() time.Time) {
	a.collection = collection.New(
		collection.WithClock(now),
		collection.WithFeePerDay(a.config.FeePerDay),
		collection.WithLogger(a.logger.Named("collection")),
	)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

// Run plays a short lending session and prints the reports
func (a *App) Run() error {
	ctx := context.Background()
	defer a.Shutdown()

	if err := a.runSession(ctx); err != nil {
		return err
	}
	return a.printReports(ctx)
}

// runSession registers works and patrons, then drives checkouts, a late
// return and a refused checkout through the collection.
func (a *App) runSession(ctx context.Context) error {
	poo := models.NewWorkWithQuantity("POO Essencial", "Ana Silva", 2025, "Livro", 2)
	estruturas := models.NewWork("Estruturas de Dados", "Carlos Lima", 2021, "Livro")

	for _, w := range []*models.Work{poo, poo, estruturas} {
		if err := a.collection.AddCopy(w); err != nil {
			return fmt.Errorf("failed to add copy: %w", err)
		}
	}

	joao := models.NewPatron("João", "joao@example.com")
	maria := models.NewPatron("Maria", "maria@example.com")
	for _, p := range []*models.Patron{joao, maria} {
		if err := a.store.AddPatron(ctx, p); err != nil {
			return err
		}
	}

	loan, err := a.checkout(ctx, poo, joao)
	if err != nil {
		return err
	}
	after3 := a.collection.Now().AddDate(0, 0, 3)
	a.logger.Info("Late fee simulated",
		zap.String("patron", joao.Name),
		zap.String("title", poo.Title),
		zap.Time("reference_date", after3),
		zap.Float64("fee", a.collection.LateFee(loan, after3)),
	)

	loan, err = a.checkout(ctx, estruturas, maria)
	if err != nil {
		return err
	}
	lateReturn := loan.DueDate.AddDate(0, 0, 2)
	if err := a.collection.Return(loan, lateReturn); err != nil {
		return fmt.Errorf("failed to return loan: %w", err)
	}
	days, _ := loan.DaysLate()
	a.logger.Info("Loan returned late", zap.String("patron", maria.Name), zap.Int("days_late", days))

	if _, err := a.checkout(ctx, poo, maria); err != nil {
		return err
	}

	// All copies of poo are out now
	if _, err := a.checkout(ctx, poo, maria); err != nil {
		if !errors.Is(err, collection.ErrUnavailable) {
			return err
		}
		a.logger.Warn("Work unavailable, offering the next available title",
			zap.String("requested", poo.Title),
			zap.String("offered", estruturas.Title),
		)
		if _, err := a.checkout(ctx, estruturas, maria); err != nil {
			return err
		}
	}
	return nil
}

// checkout lends a work and records the loan in the caller-owned history
func (a *App) checkout(ctx context.Context, work *models.Work, patron *models.Patron) (*models.Loan, error) {
	loan, err := a.collection.Checkout(work, patron, a.config.LoanDays)
	if err != nil {
		return nil, err
	}
	if err := a.store.RecordLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to record loan: %w", err)
	}
	return loan, nil
}

// printReports renders inventory, outstanding debts a few days after the
// loan period, and each patron's history
func (a *App) printReports(ctx context.Context) error {
	loans, err := a.store.ListLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list loans: %w", err)
	}

	if err := a.renderer.Render(a.out, a.collection.InventoryReport()); err != nil {
		return err
	}
	fmt.Fprintln(a.out)

	ref := a.collection.Now().AddDate(0, 0, a.config.LoanDays+3)
	if err := a.renderer.Render(a.out, a.collection.OutstandingDebtsReport(loans, ref)); err != nil {
		return err
	}

	patrons, err := a.store.ListPatrons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list patrons: %w", err)
	}
	for _, p := range patrons {
		fmt.Fprintln(a.out)
		if err := a.renderer.Render(a.out, a.collection.PatronHistoryReport(loans, p)); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown releases the store and flushes the logger
func (a *App) Shutdown() error {
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing loan store", zap.Error(err))
		return err
	}

	_ = a.logger.Sync()
	return nil
}
