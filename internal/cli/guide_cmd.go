package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/render"
)

const defaultPrintWidth = 100

func newGuideCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "guide [topic]",
		Short: "Generate and print the study guide for a topic",
		Long: "Generate the study guide for a topic and print it. Without a topic, " +
			"an interactive terminal offers a picker over the curriculum.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ConfigErr != nil {
				return app.ConfigErr
			}

			interactive := app.IsInteractive != nil && app.IsInteractive()

			var topic string
			if len(args) == 1 {
				topic = strings.TrimSpace(args[0])
			}
			if topic == "" {
				if !interactive {
					return errors.New("a topic is required when not running in a terminal")
				}
				if err := topicPicker(app.Curriculum, &topic).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}
			if !app.Curriculum.Known(topic) {
				app.logger().Debug("guide for topic outside the curriculum", zap.String("topic", topic))
			}

			stop := func() {}
			if interactive {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating your study guide…")
			}
			content, err := app.Study.GenerateGuide(cmd.Context(), topic)
			stop()
			if err != nil {
				return errors.New(domain.GuideFailureMessage)
			}

			page := app.Renderer.Page(render.Parse(content), width)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGuide(topic, page))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", defaultPrintWidth, "Wrap the guide at this many columns")

	return cmd
}
