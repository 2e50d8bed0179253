package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/render"
)

func newDefineCmd(app *App) *cobra.Command {
	var width int
	var raw bool

	cmd := &cobra.Command{
		Use:   "define <term...>",
		Short: "Look up a short definition of a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ConfigErr != nil {
				return app.ConfigErr
			}

			term, err := domain.CheckSelection(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("term must be %d to %d characters long", domain.MinSelectionLen, domain.MaxSelectionLen)
			}

			stop := func() {}
			if app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Looking up definition…")
			}
			definition, err := app.Study.DefineTerm(cmd.Context(), term)
			stop()
			if err != nil {
				return errors.New(domain.DefinitionFailureMessage)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, strings.TrimSpace(definition))
				return nil
			}
			rendered, err := render.Definition(definition, width, app.DefinitionStyle)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatDefinition(term, rendered))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 76, "Wrap the definition at this many columns")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown without rendering it")

	return cmd
}
