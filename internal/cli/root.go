package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithPromptDriver replaces the terminal driver used by the fill command.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithLogger fixes the logger instead of building one from --verbose.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

type app struct {
	v      *viper.Viper
	logger *zap.Logger
	driver tui.PromptDriver
}

// RootCmd builds the formflow command tree. Every flag can also be set through
// a FORMFLOW_ prefixed environment variable (FORMFLOW_MAX_ATTEMPTS=5).
func RootCmd(options ...Option) *cobra.Command {
	a := &app{v: viper.New()}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	cmd := &cobra.Command{
		Use:           "formflow",
		Short:         "Validate, render and fill declarative forms",
		Long:          `formflow loads form documents (JSON, YAML, TOML or HCL), checks them for configuration anomalies, validates values against them and renders them as HTML or interactive terminal prompts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(a.lintCmd())
	cmd.AddCommand(a.validateCmd())
	cmd.AddCommand(a.renderCmd())
	cmd.AddCommand(a.fillCmd())
	cmd.AddCommand(a.importOpenAPICmd())
	cmd.AddCommand(a.serveCmd())

	a.v.SetEnvPrefix("FORMFLOW")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	return cmd
}

// InitAndExecute runs the command tree against os.Args.
func InitAndExecute() {
	cmd := RootCmd()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func (a *app) initLogger() error {
	if a.logger != nil {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	if !a.v.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
