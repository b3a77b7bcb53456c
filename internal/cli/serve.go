package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/WizardOfMenlo/turing-machine/pkg/adapters/http"
	mcpAdapter "github.com/WizardOfMenlo/turing-machine/pkg/adapters/mcp"
	"github.com/WizardOfMenlo/turing-machine/pkg/observability"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// newService wires the loader, store and metrics shared by the network surfaces.
func (a *App) newService(ctx context.Context, reg prometheus.Registerer) (*runner.Service, func() error, error) {
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	engineOpts, err := engineOptions(a.Config, a.logger, metrics.Hooks())
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := createStore(ctx, a.Config, a.logger)
	if err != nil {
		return nil, nil, err
	}

	svc := runner.NewService(
		runner.WithEngineOptions(engineOpts...),
		runner.WithLoader(createLoader(a.Config)),
		runner.WithRecordStore(store),
		runner.WithServiceLogger(a.logger),
		runner.WithLoadObserver(metrics.ObserveLoad),
		runner.WithMaxStepLimit(a.Config.StepLimit),
	)
	return svc, closeStore, nil
}

// Serve starts the HTTP API on addr and blocks until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, closeStore, err := a.newService(ctx, reg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpAdapter.NewHandler(svc, httpAdapter.WithGatherer(reg), httpAdapter.WithLogger(a.logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", addr, "machines", a.Config.MachinesDir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown requested")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		a.logger.Info("HTTP server stopped")
		return nil
	}
}

// MCP serves the machine tools over stdio until the client disconnects.
func (a *App) MCP(ctx context.Context) error {
	svc, closeStore, err := a.newService(ctx, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer closeStore()

	a.logger.Info("starting MCP server (stdio)")
	srv := mcpAdapter.NewServer(svc, mcpAdapter.WithLogger(a.logger))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
