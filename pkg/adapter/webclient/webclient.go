// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package webclient provides the shared HTTP client of the remote
// collaborators. Each request is bounded by a timeout and is never
// retried. All failures (transport errors, timeouts, non-2xx statuses,
// and undecodable bodies) wrap the model.ErrCollaboratorUnavailable
// error, so the use cases may handle them uniformly.
// The pricing and maps sub-packages realize the carsuc.Pricer and
// carsuc.Locator ports on top of this client.
package webclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/vehicles/pkg/core/model"
)

// DefaultTimeout is used when a non-positive timeout is passed to New.
const DefaultTimeout = 2 * time.Second

// maxBodySize limits the decoded response bodies.
const maxBodySize = 1 << 20

// StatusError reports a response with an unexpected status code.
type StatusError struct {
	StatusCode int
}

func (se *StatusError) Error() string {
	return fmt.Sprintf(
		"unexpected status %d %s",
		se.StatusCode, http.StatusText(se.StatusCode),
	)
}

// Client sends GET requests to one collaborator.
type Client struct {
	name     string
	endpoint *url.URL
	http     *http.Client
}

// New creates a Client for the name collaborator which is served at
// the endpoint base URL.
func New(name, endpoint string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing %s endpoint: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf(
			"%s endpoint %q: scheme must be http or https", name, endpoint,
		)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s endpoint %q: missing host", name, endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		name:     name,
		endpoint: u,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the collaborator name, like "pricing".
func (c *Client) Name() string {
	return c.name
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.endpoint
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) unavailable(err error) error {
	return fmt.Errorf("%s: %w: %w", c.name, model.ErrCollaboratorUnavailable, err)
}

// GetJSON sends a GET request to the path (relative to the endpoint)
// with the query parameters and decodes the JSON response body into
// out. Only 2xx responses are decoded.
func (c *Client) GetJSON(
	ctx context.Context, path string, query url.Values, out any,
) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.resolve(path, query), nil,
	)
	if err != nil {
		return c.unavailable(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.unavailable(&StatusError{StatusCode: resp.StatusCode})
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return c.unavailable(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// Probe checks that the collaborator is reachable by sending a GET
// request to its endpoint. Any response with a status code below 500
// counts as reachable, since the endpoint root may not be routed.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.endpoint.String(), nil,
	)
	if err != nil {
		return c.unavailable(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return c.unavailable(&StatusError{StatusCode: resp.StatusCode})
	}
	return nil
}

// IsStatus reports whether err was caused by a response with the given
// status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
