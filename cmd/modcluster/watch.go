package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/events"
	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/management"
	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Serve metrics and health for a subsystem file, reloading on change",
	Long: `Watch a subsystem file and reload it whenever it changes on disk.

Prometheus metrics are served on /metrics and health on /health and
/ready. Readiness fails while the last reload was invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "Metrics listen address (default from settings)")
	watchCmd.Flags().Duration("interval", 15*time.Second, "Gauge collection interval")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("metrics-addr")
	if addr == "" {
		addr = settings.Metrics.Addr
	}
	interval, _ := cmd.Flags().GetDuration("interval")

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)
	go logEvents(sub)

	ctrl := management.NewController(broker)
	w := watch.New(args[0], settings.Debounce(), func(doc *codec.Document) {
		ctrl.Load(doc.Tree)
	}, broker)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	metrics.SetVersion(Version)
	collector := metrics.NewCollector(ctrl, interval)
	collector.Start()
	defer collector.Stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           metrics.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server error: %v", err)
		}
	}()
	log.Logger.Info().Str("addr", addr).Msg("Metrics server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigCh:
		log.Info("Shutting down")
	case runErr = <-errCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Logger.Warn().Err(err).Msg("Metrics server shutdown")
	}
	return runErr
}

func logEvents(sub events.Subscriber) {
	logger := log.WithComponent("events")
	for evt := range sub {
		logger.Debug().
			Str("type", string(evt.Type)).
			Str("id", evt.ID).
			Interface("metadata", evt.Metadata).
			Msg(evt.Message)
	}
}
