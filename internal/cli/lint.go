package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/lint"
	"github.com/goliatone/go-formflow/pkg/loader"
)

func (a *app) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint FILE...",
		Short: "Report configuration anomalies in form documents",
		Long:  `Lint reports duplicate names, unknown types, dangling conditions and other anomalies. The engine tolerates them at runtime, but they usually point at authoring mistakes.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			red := color.New(color.FgHiRed)
			green := color.New(color.FgHiGreen)

			var total int
			for _, path := range args {
				cfg, err := loader.LoadFile(path)
				if err != nil {
					return err
				}
				issues := lint.Check(cfg)
				if len(issues) == 0 {
					green.Fprintf(out, "  ✓ ")
					fmt.Fprintf(out, "%s\n", path)
					continue
				}
				total += len(issues)
				red.Fprintf(out, "  ✗ ")
				fmt.Fprintf(out, "%s\n", path)
				for _, issue := range issues {
					fmt.Fprintf(out, "    %s -> %s (%s)\n", displayField(issue.Field), issue.Message, issue.Code)
				}
			}
			if total > 0 {
				return fmt.Errorf("lint: %d issue(s) found", total)
			}
			return nil
		},
	}
}

func displayField(name string) string {
	if name == "" {
		return "form"
	}
	return name
}
