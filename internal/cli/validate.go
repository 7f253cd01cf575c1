package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/loader"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FORM VALUES",
		Short: "Validate a values document against a form",
		Long:  `Validate seeds a form with the values document (JSON or YAML), submits it and prints either the field errors or the normalized values as JSON.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(args[1])
			if err != nil {
				return err
			}

			var accepted map[string]any
			ctrl := form.New(cfg, values,
				form.WithLogger(a.logger),
				form.WithSubmit(func(_ context.Context, normalized map[string]any) error {
					accepted = normalized
					return nil
				}),
			)
			outcome, err := ctrl.Submit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome == form.OutcomeInvalid {
				issues := ctrl.Errors().Ordered(cfg.Fields)
				for _, issue := range issues {
					fmt.Fprintf(out, "%s: %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("validate: %d field(s) invalid", len(issues))
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(accepted)
		},
	}
}

// readValues decodes a JSON or YAML object. YAML is a superset of JSON, but
// JSON documents go through encoding/json so numbers keep float64 precision.
func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &values)
	} else {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}
