package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/loader"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forms over HTTP",
		Long:  `Serve renders every form found in --dir (or the bundled samples) at /forms/{id} and records valid submissions in memory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			if store.Empty() {
				return fmt.Errorf("serve: no forms found")
			}
			handler, err := server.New(store, server.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.logger.Info("serve: forms loaded", zap.Strings("forms", store.IDs()))
			return server.ListenAndServe(ctx, a.v.GetString("addr"), handler, a.v.GetDuration("grace"), a.logger)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("dir", "", "directory of form documents (bundled samples if empty)")
	cmd.Flags().Duration("grace", 5*time.Second, "shutdown grace period")
	return cmd
}

func (a *app) store() (*loader.Store, error) {
	if dir := a.v.GetString("dir"); dir != "" {
		return loader.LoadDir(dir)
	}
	return loader.LoadFS(loader.SamplesFS())
}
