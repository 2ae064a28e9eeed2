package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/psds-microservice/search-client/internal/application"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func (a *app) apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the HTTP gateway (default)",
		RunE:  a.runAPI,
	}
}

func (a *app) runAPI(cmd *cobra.Command, args []string) error {
	api, err := application.NewAPI(a.cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = api.Run(ctx)
	klog.Info("api: bye")
	return err
}
