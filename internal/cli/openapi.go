package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/openapi"
)

func (a *app) importOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-openapi SPEC",
		Short: "Derive a form document from an OpenAPI operation",
		Long:  `Import reads the request body schema of an OpenAPI 3 operation and prints the equivalent form document as YAML. Use --list to see the available operations.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read spec: %w", err)
			}
			importer := openapi.NewImporter(
				openapi.WithLogger(a.logger),
				openapi.WithExternalRefs(a.v.GetBool("external-refs")),
			)
			out := cmd.OutOrStdout()

			if a.v.GetBool("list") {
				operations, err := importer.Operations(cmd.Context(), data)
				if err != nil {
					return err
				}
				for _, op := range operations {
					fmt.Fprintf(out, "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
				}
				return nil
			}

			operation := a.v.GetString("operation")
			if operation == "" {
				return fmt.Errorf("import-openapi: --operation is required (see --list)")
			}
			cfg, err := importer.Import(cmd.Context(), data, operation)
			if err != nil {
				return err
			}
			encoded, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode form: %w", err)
			}

			if output := a.v.GetString("output"); output != "" {
				if err := os.WriteFile(output, encoded, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(out, "Form written to %s\n", output)
				return nil
			}
			_, err = out.Write(encoded)
			return err
		},
	}
	cmd.Flags().String("operation", "", "operation id to import")
	cmd.Flags().Bool("list", false, "list operations with a request body")
	cmd.Flags().Bool("external-refs", false, "allow external $ref resolution")
	cmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
	return cmd
}
