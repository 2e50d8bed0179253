package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/curriculum"
)

func newTopicsCmd(app *App) *cobra.Command {
	var plain bool
	var file string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the course chapters and their topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.Curriculum
			if file != "" {
				loaded, err := curriculum.LoadFile(file)
				if err != nil {
					if errors.Is(err, curriculum.ErrInvalid) {
						fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatValidation(unjoin(err)))
					}
					return err
				}
				c = loaded
			}

			out := cmd.OutOrStdout()
			if plain {
				for _, topic := range c.Topics() {
					fmt.Fprintln(out, topic)
				}
				return nil
			}
			fmt.Fprint(out, formatter.FormatCurriculum(c, ""))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print one topic per line without chapters")
	cmd.Flags().StringVar(&file, "file", "", "Check and list a curriculum YAML file instead")

	return cmd
}

// unjoin flattens errors built with errors.Join, skipping the sentinel
// that wraps them.
func unjoin(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		if e == nil || e == curriculum.ErrInvalid {
			return
		}
		if j, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range j.Unwrap() {
				walk(inner)
			}
			return
		}
		out = append(out, e)
	}
	walk(err)
	return out
}
