package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/intelligence"
	"github.com/alexanderramin/studyguide/internal/llm"
	"github.com/alexanderramin/studyguide/internal/render"
)

// App holds everything the commands and the TUI need.
type App struct {
	Study      intelligence.StudyService
	Curriculum curriculum.Curriculum
	Renderer   *render.Renderer
	Provider   llm.Provider

	// ConfigErr is a startup configuration failure. When set, the TUI shows
	// only the configuration error screen and study commands refuse to run.
	ConfigErr error

	// DefinitionStyle is the glamour style used for definitions.
	DefinitionStyle string

	Logger *zap.Logger

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// Clipboard copies text to the system clipboard.
	Clipboard func(string) error
	// Now is the clock used to detect double clicks.
	Now func() time.Time
	// RunKeyServer serves the credential endpoint until ctx is done.
	RunKeyServer func(ctx context.Context, addr, key string) error
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "studyguide" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyguide",
		Short:         "BNYS modern diagnostics study guide",
		Long:          "Generate study guides for naturopathy and yogic sciences topics and look up terms while you read.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	root.AddCommand(
		newTopicsCmd(app),
		newGuideCmd(app),
		newDefineCmd(app),
		newKeyServerCmd(app),
	)

	return root
}
