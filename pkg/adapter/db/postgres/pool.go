// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/momeni/vehicles/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool.
// It embeds *gorm.DB, so the underlying database/sql pool settings
// may be adjusted too.
type Pool struct {
	*gorm.DB
}

// NewPool opens a connection pool for the url PostgreSQL connection
// string and tests it by acquiring a connection. GORM logs are written
// to the default slog logger, reporting queries which are slower than
// 200ms or fail.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

// slogWriter adapts the GORM logger.Writer interface to slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	slog.Warn(msg, slog.String("component", "gorm"))
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing. It may be used
// for testing that a connection can be established.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a dedicated connection and passes it to f as a *Conn.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
