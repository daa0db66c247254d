// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the vehicles
// web service. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database initialization actions.
//
//	./vehicles [-c /path/of/config.yaml]           # start web server
//	./vehicles db init-dev [-c /path/of/config.yaml]
//	./vehicles db init-prod [-c /path/of/config.yaml]
//
// Environment variables may be kept in a .env file in the working
// directory. They override the configuration file settings.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/config"
	"github.com/momeni/vehicles/pkg/adapter/config/cfg1"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/routes"
	"github.com/momeni/vehicles/pkg/core/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "A vehicle inventory web service",
	Long: `A vehicle inventory web service which keeps cars in a
PostgreSQL database and exposes them through a REST API.
Each car which is fetched individually is enriched with its current
price (asked from the pricing service) and the address of its
location (asked from the maps service). Listing cars does not call
those collaborators.
The collaborators are probed periodically and their last known
statuses are reported by the /health endpoint.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func loadConfig() (*cfg1.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	c.InstallLogger(os.Stderr)
	return c, nil
}

func startWebServer(_ *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info(ctx, "configuration is loaded",
		slog.String("path", cfgPath), slog.Any("config", c))
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer func() {
		err = errors.Join(err, p.Close())
	}()
	e := c.Gin.NewEngine(slog.Default())
	stopRoutes, err := routes.Register(ctx, e, p, c)
	if err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	defer func() {
		err = errors.Join(err, stopRoutes())
	}()

	srv := &http.Server{
		Addr:              *c.Gin.Listen,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "web server is listening",
			slog.String("address", srv.Addr))
		errs <- srv.ListenAndServe()
	}()
	select {
	case err = <-errs:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down the web server")
	sctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err = <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath loads the .env file and then ensures that cfgPath is
// set by either the CLI args, the CONFIG_FILE environment variable,
// or its default value.
func fixConfigPath() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "ignoring .env:", err)
	}
	cfgPath = config.Path(cfgPath)
}
