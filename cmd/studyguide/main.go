package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/cli"
	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/diagram"
	"github.com/alexanderramin/studyguide/internal/intelligence"
	"github.com/alexanderramin/studyguide/internal/keyserver"
	"github.com/alexanderramin/studyguide/internal/llm"
	"github.com/alexanderramin/studyguide/internal/logging"
	"github.com/alexanderramin/studyguide/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger, err := logging.New(logging.LoadConfig())
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	llmCfg := llm.LoadConfig()

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewZapObserver(logger.Named("llm"))
	}

	// Direct keys are checked once, before anything is shown. Proxied keys
	// are fetched on first use.
	var configErr error
	var keys llm.KeyResolver
	switch llmCfg.KeyMode {
	case llm.KeyModeProxy:
		keys = llm.NewProxiedKey(llmCfg.KeyURL, nil)
	default:
		static := llm.NewStaticKey(llmCfg.APIKey)
		if llmCfg.NeedsKey() {
			configErr = static.Validate()
		}
		keys = static
	}

	client, err := llm.NewClient(llmCfg, keys, observer)
	if err != nil {
		return fmt.Errorf("creating LLM client: %w", err)
	}

	course := curriculum.Default()
	if path := os.Getenv("STUDYGUIDE_CURRICULUM"); path != "" {
		course, err = curriculum.LoadFile(path)
		if err != nil {
			return err
		}
	}

	definitionStyle := os.Getenv("STUDYGUIDE_GLAMOUR_STYLE")
	if definitionStyle == "" {
		definitionStyle = render.DefaultDefinitionStyle
	}

	app := &cli.App{
		Study:           intelligence.NewStudyService(client, logger.Named("study")),
		Curriculum:      course,
		Renderer:        render.NewRenderer(diagram.NewEngine(), logger.Named("render")),
		Provider:        client.Provider(),
		ConfigErr:       configErr,
		DefinitionStyle: definitionStyle,
		Logger:          logger,
		Clipboard:       clipboard.WriteAll,
		RunKeyServer: func(ctx context.Context, addr, key string) error {
			return keyserver.New(keyserver.Config{Addr: addr, APIKey: key}, logger.Named("keyserver")).Run(ctx)
		},
	}

	// Detect interactive terminal for the full-screen entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	logger.Info("starting",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", llmCfg.Model),
		zap.String("key_mode", string(llmCfg.KeyMode)),
		zap.Int("topics", len(course.Topics())),
	)

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
