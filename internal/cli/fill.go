package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

func (a *app) fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill FORM",
		Short: "Fill a form interactively in the terminal",
		Long:  `Fill prompts for every visible field, re-prompting with the errors shown until the values validate, then prints them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			format := tui.OutputFormat(a.v.GetString("format"))
			switch format {
			case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("fill: unknown format %q", format)
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			renderer := tui.New(tui.WithPromptDriver(driver), tui.WithPageSize(a.v.GetInt("page-size")))

			var submitted map[string]any
			ctrl := form.New(cfg, nil,
				form.WithRegistry(renderer.Registry()),
				form.WithLogger(a.logger),
				form.WithSubmit(func(_ context.Context, values map[string]any) error {
					submitted = values
					return nil
				}),
			)
			if err := renderer.Fill(cmd.Context(), ctrl, a.v.GetInt("max-attempts")); err != nil {
				return err
			}

			payload, err := tui.Serialize(submitted, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
	cmd.Flags().String("format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().Int("max-attempts", 3, "give up after this many invalid submissions (0 for no limit)")
	cmd.Flags().Int("page-size", 0, "options shown at once in select prompts")
	return cmd
}
