package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/studyguide/internal/keyserver"
)

// keyServerFlags holds the keyserver options. They live in their own flag
// set so the same options can be reused by other entry points.
type keyServerFlags struct {
	addr string
	key  string
}

func (f *keyServerFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("keyserver", pflag.ContinueOnError)
	fs.StringVar(&f.addr, "addr", keyserver.DefaultAddr, "Address to listen on")
	fs.StringVar(&f.key, "key", os.Getenv("API_KEY"), "Key to hand out (defaults to $API_KEY)")
	return fs
}

func newKeyServerCmd(app *App) *cobra.Command {
	var flags keyServerFlags

	cmd := &cobra.Command{
		Use:   "keyserver",
		Short: "Serve the backend key to clients in proxy key mode",
		Long: "Run a small HTTP server answering GET " + keyserver.KeyPath + " with the configured key. " +
			"Clients started with STUDYGUIDE_KEY_MODE=proxy fetch their key from it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := app.RunKeyServer
			if run == nil {
				run = func(ctx context.Context, addr, key string) error {
					return keyserver.New(keyserver.Config{Addr: addr, APIKey: key}, app.logger()).Run(ctx)
				}
			}
			return run(ctx, flags.addr, flags.key)
		},
	}

	cmd.Flags().AddFlagSet(flags.flagSet())

	return cmd
}
