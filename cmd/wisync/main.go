package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/alexanderramin/wisync/internal/cli"
	"github.com/alexanderramin/wisync/internal/db"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/gateway"
	"github.com/alexanderramin/wisync/internal/importer"
	"github.com/alexanderramin/wisync/internal/intelligence"
	"github.com/alexanderramin/wisync/internal/llm"
	"github.com/alexanderramin/wisync/internal/repository"
	"github.com/alexanderramin/wisync/internal/service"
	"github.com/alexanderramin/wisync/internal/tracker"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	database, err := db.OpenDB(db.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var (
		logger   *slog.Logger
		observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	)
	if on, _ := strconv.ParseBool(os.Getenv("WISYNC_LOG")); on {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		observer = service.NewSlogUseCaseObserver(logger)
	}

	// A PAT from the environment wins; otherwise tokens come from the
	// configured helper and are dropped whenever settings change.
	var (
		tokens tracker.TokenSource
		cache  service.TokenCache
	)
	if pat := os.Getenv("WISYNC_ADO_PAT"); pat != "" {
		tokens = tracker.StaticPAT(pat)
	} else {
		auth := tracker.NewAzureAuth("")
		tokens, cache = auth, auth
	}

	uow := db.NewSQLiteUnitOfWork(database)
	settings := service.NewSettingsService(repository.NewSQLiteSettingsRepo(database), cache, observer)
	history := service.NewHistoryService(repository.NewSQLiteJournalRepo(database), uow, observer)

	opts := tracker.LoadOptions()
	opts.Logger = logger

	remote := gateway.NewRemote(gateway.Deps{
		Parser:   planParser(ctx),
		Settings: settings,
		History:  history,
		Tokens:   tokens,
		Options:  opts,
		Logger:   logger,
	})

	app := &cli.App{
		Gateway:    remote,
		Structured: remote.WithParser(importer.NewParser()),
		History:    history,
		Observer:   observer,
		Prompter:   cli.NewHuhPrompter(),
	}

	// Detect interactive terminal for prompts and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// planParser builds the LLM-backed parser. A provider that cannot be set up
// (usually a missing API key) only fails commands that parse free text.
func planParser(ctx context.Context) gateway.Parser {
	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	client, err := llm.NewClient(ctx, llmCfg, observer)
	if err != nil {
		return unavailableParser{err: err}
	}
	return intelligence.NewPlanParser(client)
}

type unavailableParser struct{ err error }

func (p unavailableParser) Parse(context.Context, string) (*domain.Hierarchy, error) {
	return nil, domain.NewError(domain.KindParse, "parse plan", p.err)
}
