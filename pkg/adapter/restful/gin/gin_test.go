// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/vehicles/internal/test/fakes"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/vehicles/pkg/adapter/restful/gin/routes"
	"github.com/momeni/vehicles/pkg/adapter/webclient"
	"github.com/momeni/vehicles/pkg/adapter/webclient/maps"
	"github.com/momeni/vehicles/pkg/adapter/webclient/pricing"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
	"github.com/momeni/vehicles/pkg/core/usecase/healthuc"
	"github.com/momeni/vehicles/pkg/core/usecase/schemauc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const impala = `{
  "condition": "USED",
  "details": {
    "body": "sedan",
    "model": "Impala",
    "manufacturer": {"code": 101, "name": "Chevrolet"},
    "numberOfDoors": 4,
    "fuelType": "Gasoline",
    "engine": "3.6L V6",
    "mileage": 32280,
    "modelYear": 2018,
    "productionYear": 2018,
    "externalColor": "white"
  },
  "location": {"lat": 40.730610, "lon": -73.935242}
}`

// collaborator is an httptest server which plays the pricing or maps
// service and may be turned down.
type collaborator struct {
	*httptest.Server
	down  atomic.Bool
	calls atomic.Int32
}

func newCollaborator(body func(r *http.Request) string) *collaborator {
	c := &collaborator{}
	c.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			c.calls.Add(1)
			if c.down.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if r.URL.Path == "/" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body(r))
		},
	))
	return c
}

type memStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (s *memStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

type GinTestSuite struct {
	suite.Suite

	Pricing *collaborator
	Maps    *collaborator
	Cars    *fakes.Cars
	Gin     *gin.Engine
	Lenient *gin.Engine
}

func TestGinTestSuite(t *testing.T) {
	suite.Run(t, &GinTestSuite{})
}

func (gts *GinTestSuite) SetupSuite() {
	gin.SetReleaseMode()
	gts.Pricing = newCollaborator(func(r *http.Request) string {
		return fmt.Sprintf(
			`{"currency":"USD","price":12345.67,"vehicleId":%s}`,
			r.URL.Query().Get("vehicleId"),
		)
	})
	gts.Maps = newCollaborator(func(*http.Request) string {
		return `{"address":"777 Brockton Avenue","city":"Abington",` +
			`"state":"MA","zip":"2351"}`
	})
}

func (gts *GinTestSuite) TearDownSuite() {
	gts.Pricing.Close()
	gts.Maps.Close()
}

func (gts *GinTestSuite) SetupTest() {
	gts.Pricing.down.Store(false)
	gts.Maps.down.Store(false)
	gts.Cars = fakes.NewCars(schemauc.Manufacturers...)
	gts.Gin = gts.newEngine()
	gts.Lenient = gts.newEngine(carsuc.WithLenientEnrichment())
}

func (gts *GinTestSuite) newEngine(opts ...carsuc.Option) *gin.Engine {
	pc, err := webclient.New(pricing.Name, gts.Pricing.URL, time.Second)
	gts.Require().NoError(err)
	mc, err := webclient.New(maps.Name, gts.Maps.URL, time.Second)
	gts.Require().NoError(err)
	pr, mp := pricing.New(pc), maps.New(mc)

	cars, err := carsuc.New(&fakes.Pool{}, gts.Cars, pr, mp, opts...)
	gts.Require().NoError(err)
	health, err := healthuc.New([]healthuc.Prober{pr, mp})
	gts.Require().NoError(err)

	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	e := gin.New(middleware.RequestID(), gin.Logger(l), gin.Recovery(l))
	routes.Mount(e, routes.Services{
		Cars:        cars,
		Health:      health,
		Idempotency: &memStore{keys: map[string]bool{}},
	})
	return e
}

func (gts *GinTestSuite) send(
	e *gin.Engine, method, path, body string, hdr ...string,
) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func (gts *GinTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	gts.Require().NoError(
		json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v),
		"response body: %s", w.Body.String(),
	)
}

func (gts *GinTestSuite) create() *model.Car {
	w := gts.send(gts.Gin, http.MethodPost, "/cars", impala)
	gts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	car := &model.Car{}
	gts.decode(w, car)
	return car
}

func (gts *GinTestSuite) TestCarLifecycle() {
	w := gts.send(gts.Gin, http.MethodPost, "/cars", impala)
	gts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := &model.Car{}
	gts.decode(w, created)
	gts.NotZero(created.ID)
	gts.Equal(fmt.Sprintf("/cars/%d", created.ID), w.Header().Get("Location"))
	gts.Equal("Chevrolet", created.Details.Manufacturer.Name)
	gts.Empty(created.Price)
	gts.NotEmpty(w.Header().Get(middleware.HeaderRequestID))

	path := fmt.Sprintf("/cars/%d", created.ID)
	w = gts.send(gts.Gin, http.MethodGet, path, "")
	gts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	found := &model.Car{}
	gts.decode(w, found)
	gts.Equal("USD 12345.67", found.Price)
	gts.Equal("777 Brockton Avenue", found.Location.Address)
	gts.Equal("Abington", found.Location.City)
	gts.InDelta(40.730610, found.Location.Lat, 1e-9)
	gts.Equal("Impala", found.Details.Model)

	w = gts.send(gts.Gin, http.MethodGet, "/cars", "")
	gts.Require().Equal(http.StatusOK, w.Code)
	var list []model.Car
	gts.decode(w, &list)
	gts.Require().Len(list, 1)
	gts.Empty(list[0].Price, "listing must not enrich")
	gts.Empty(list[0].Location.Address)

	w = gts.send(gts.Gin, http.MethodDelete, path, "")
	gts.Equal(http.StatusNoContent, w.Code, w.Body.String())
	gts.Empty(w.Body.String())

	w = gts.send(gts.Gin, http.MethodGet, path, "")
	gts.Equal(http.StatusNotFound, w.Code)
	res := &struct{ Detail string }{}
	gts.decode(w, res)
	gts.Equal("car not found", res.Detail)

	w = gts.send(gts.Gin, http.MethodDelete, path, "")
	gts.Equal(http.StatusNotFound, w.Code)
}

func (gts *GinTestSuite) TestUpdateCar() {
	car := gts.create()
	body := strings.Replace(impala, `"mileage": 32280`, `"mileage": 40000`, 1)
	body = strings.Replace(body, `"USED"`, `"NEW"`, 1)
	w := gts.send(gts.Gin, http.MethodPut, fmt.Sprintf("/cars/%d", car.ID), body)
	gts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := &model.Car{}
	gts.decode(w, updated)
	gts.Equal(car.ID, updated.ID)
	gts.Equal(40000, updated.Details.Mileage)
	gts.Equal(model.ConditionUsed, updated.Condition,
		"condition is preserved by updates")
	gts.True(car.CreatedAt.Equal(updated.CreatedAt))

	w = gts.send(gts.Gin, http.MethodPut, "/cars/999", impala)
	gts.Equal(http.StatusNotFound, w.Code)
}

func (gts *GinTestSuite) TestBadRequests() {
	for _, tc := range []struct {
		name, method, path, body string
		field, detail            string
	}{
		{
			name: "non-numeric id", method: http.MethodGet,
			path: "/cars/abc", field: "id",
		},
		{
			name: "non-positive id", method: http.MethodDelete,
			path: "/cars/0", field: "id",
		},
		{
			name: "no body", method: http.MethodPost, path: "/cars",
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/cars",
			body: `{"condition":`, detail: "unexpected",
		},
		{
			name: "missing condition", method: http.MethodPost,
			path: "/cars", field: "condition",
			body: strings.Replace(impala, `"condition": "USED",`, "", 1),
		},
		{
			name: "unknown condition", method: http.MethodPost,
			path: "/cars", field: "condition",
			body: strings.Replace(impala, `"USED"`, `"BROKEN"`, 1),
		},
		{
			name: "missing model", method: http.MethodPost,
			path: "/cars", field: "model",
			body: strings.Replace(impala, `"model": "Impala",`, "", 1),
		},
		{
			name: "out of range latitude", method: http.MethodPost,
			path: "/cars", field: "lat",
			body: strings.Replace(impala, "40.730610", "95", 1),
		},
		{
			name: "missing longitude", method: http.MethodPut,
			path: "/cars/1", field: "lon",
			body: strings.Replace(impala, `, "lon": -73.935242`, "", 1),
		},
		{
			name: "unknown manufacturer", method: http.MethodPost,
			path: "/cars", detail: "unknown manufacturer code 999",
			body: strings.Replace(impala, `"code": 101`, `"code": 999`, 1),
		},
	} {
		gts.Run(tc.name, func() {
			w := gts.send(gts.Gin, tc.method, tc.path, tc.body)
			gts.Equal(http.StatusBadRequest, w.Code, w.Body.String())
			res := map[string]any{}
			gts.decode(w, &res)
			if tc.field != "" {
				gts.Contains(res, tc.field)
			}
			if tc.detail != "" {
				gts.Contains(fmt.Sprint(res["detail"]), tc.detail)
			}
		})
	}
}

func (gts *GinTestSuite) TestCollaboratorFailure() {
	car := gts.create()
	path := fmt.Sprintf("/cars/%d", car.ID)
	gts.Maps.down.Store(true)

	w := gts.send(gts.Gin, http.MethodGet, path, "")
	gts.Equal(http.StatusBadGateway, w.Code)
	res := &struct{ Detail string }{}
	gts.decode(w, res)
	gts.Contains(res.Detail, "collaborator unavailable")

	w = gts.send(gts.Gin, http.MethodDelete, path, "")
	gts.Equal(http.StatusBadGateway, w.Code)
	gts.Equal(1, gts.Cars.Len(), "failed lookup must prevent deletion")

	gts.Pricing.down.Store(true)
	w = gts.send(gts.Lenient, http.MethodGet, path, "")
	gts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	found := &model.Car{}
	gts.decode(w, found)
	gts.Equal(carsuc.DefaultFallbackPrice, found.Price)
	gts.Empty(found.Location.Address)
	gts.InDelta(-73.935242, found.Location.Lon, 1e-9)
}

func (gts *GinTestSuite) TestIdempotencyKey() {
	key := []string{middleware.HeaderIdempotencyKey, "create-impala"}
	w := gts.send(gts.Gin, http.MethodPost, "/cars", impala, key...)
	gts.Equal(http.StatusCreated, w.Code)
	w = gts.send(gts.Gin, http.MethodPost, "/cars", impala, key...)
	gts.Equal(http.StatusConflict, w.Code)
	gts.Equal(1, gts.Cars.Len())
}

func (gts *GinTestSuite) TestHealth() {
	w := gts.send(gts.Gin, http.MethodGet, "/health", "")
	gts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	res := &struct {
		Status        string
		Collaborators []model.CollaboratorStatus
	}{}
	gts.decode(w, res)
	gts.Equal("UP", res.Status)
	gts.Require().Len(res.Collaborators, 2)
	gts.Equal("pricing", res.Collaborators[0].Name)
	gts.True(res.Collaborators[1].Up)

	gts.Pricing.down.Store(true)
	e := gts.newEngine()
	w = gts.send(e, http.MethodGet, "/health", "")
	gts.Equal(http.StatusServiceUnavailable, w.Code)
	gts.decode(w, res)
	gts.Equal("DOWN", res.Status)
	gts.False(res.Collaborators[0].Up)
}

func (gts *GinTestSuite) TestRequestIDIsEchoed() {
	w := gts.send(gts.Gin, http.MethodGet, "/cars", "",
		middleware.HeaderRequestID, "req-42")
	gts.Equal("req-42", w.Header().Get(middleware.HeaderRequestID))
}

func TestLoggerKeepsRequestID(t *testing.T) {
	gin.SetReleaseMode()
	var logs bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&logs, nil))
	e := gin.New(middleware.RequestID(), gin.Logger(l))
	e.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"req-42"},
		w.Header().Values(middleware.HeaderRequestID))
	assert.NotEmpty(t, logs.String(), "request must be logged")
}
