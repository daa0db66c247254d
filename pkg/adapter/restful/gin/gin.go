// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic web framework, so the REST API may be
// served by an Engine instance which is created here and whose routes
// are registered by the routes sub-package.
package gin

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine
type Context = gin.Context

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports validation errors by the JSON field names,
// falling back to the form and uri tags.
func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// New creates an Engine which uses the given middlewares.
// The gin.Context instances of the Engine fall back to their request
// contexts, so values (like the request ID) and cancellation of the
// request context are visible to the use cases.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger logs every request with l after it is served.
// The X-Request-ID header is left to the middleware.RequestID.
func Logger(l *slog.Logger) HandlerFunc {
	return logger.New(l, logger.WithoutRequestID())
}

// Recovery converts panics into 500 responses, logging them with l.
func Recovery(l *slog.Logger) HandlerFunc {
	return recovery.New(l)
}

// SetReleaseMode disables the gin debug messages.
func SetReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}
