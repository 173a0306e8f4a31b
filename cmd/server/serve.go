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

	"github.com/spf13/cobra"

	"tableadmin/internal/api"
	"tableadmin/internal/logger"
)

type cmdServe struct {
	global *cmdGlobal

	flagPort int
	flagWeb  string
}

func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "serve"
	cmd.Short = "Serve the table API and the web UI"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.Run

	cmd.Flags().IntVar(&c.flagPort, "port", 0, "http port (overrides config, default 8080)")
	cmd.Flags().StringVar(&c.flagWeb, "web", "", "web ui directory (overrides config)")
	return cmd
}

func (c *cmdServe) Run(cmd *cobra.Command, args []string) error {
	appCfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	if c.flagPort != 0 {
		appCfg.Server.Port = c.flagPort
	}
	if c.flagWeb != "" {
		appCfg.Server.WebDir = c.flagWeb
	}

	pool, err := open(appCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	catalog, gw, err := components(appCfg, pool)
	if err != nil {
		return err
	}

	opts := api.Options{WebDir: appCfg.Server.WebDir}
	if appCfg.Server.SeedFile != "" {
		opts.SeedFile = appCfg.Server.SeedFile
		opts.Seeder = pool
	}

	// HTTP server
	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(catalog, gw, opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s, serving %q", addr, appCfg.Server.WebDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
