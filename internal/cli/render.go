package cli

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
)

func (a *app) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FORM",
		Short: "Render a form as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			options := []html.Option{html.WithLogger(a.logger)}
			if dir := a.v.GetString("templates"); dir != "" {
				options = append(options, html.WithTemplatesDir(dir))
			}
			if label := a.v.GetString("submit-label"); label != "" {
				options = append(options, html.WithSubmitLabel(label))
			}
			if name := a.v.GetString("theme"); name != "" {
				cssVars, err := cmd.Flags().GetStringToString("css-var")
				if err != nil {
					return err
				}
				options = append(options, html.WithTheme(&theme.RendererConfig{
					Theme:   name,
					Variant: a.v.GetString("variant"),
					CSSVars: cssVars,
				}))
			}
			renderer, err := html.New(options...)
			if err != nil {
				return err
			}

			pairs, err := cmd.Flags().GetStringToString("hidden")
			if err != nil {
				return err
			}
			hidden := make([]render.HiddenField, 0, len(pairs))
			for name, value := range pairs {
				hidden = append(hidden, render.Hidden(name, value))
			}

			ctrl := form.New(cfg, nil, form.WithRegistry(renderer.Registry()), form.WithLogger(a.logger))
			markup, err := renderer.RenderForm(cmd.Context(), ctrl, html.FormOptions{
				Action: a.v.GetString("action"),
				Hidden: hidden,
			})
			if err != nil {
				return err
			}

			if output := a.v.GetString("output"); output != "" {
				if err := os.WriteFile(output, markup, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(markup)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
	cmd.Flags().String("action", "", "form action URL")
	cmd.Flags().String("submit-label", "", "submit button caption")
	cmd.Flags().String("templates", "", "directory with template overrides")
	cmd.Flags().String("theme", "", "theme name")
	cmd.Flags().String("variant", "", "theme variant")
	cmd.Flags().StringToString("hidden", nil, "hidden inputs, as --hidden _csrf=token")
	cmd.Flags().StringToString("css-var", nil, "CSS variable emitted with the theme, as --css-var --formflow-accent=#123456")
	return cmd
}
