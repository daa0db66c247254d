// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package healthrs realizes the health resource which reports the
// reachability of the remote collaborators.
package healthrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/usecase/healthuc"
)

type resource struct {
	health *healthuc.UseCase
}

type healthResp struct {
	Status        string                     `json:"status"`
	Collaborators []model.CollaboratorStatus `json:"collaborators"`
}

// Register adds the GET request to /health which reports the last
// known collaborators statuses with 200 OK, or with 503 Service
// Unavailable if any collaborator is down.
func Register(r gin.IRouter, health *healthuc.UseCase) {
	rs := &resource{health: health}
	r.GET("health", rs.Health)
}

func (rs *resource) Health(c *gin.Context) {
	statuses, healthy := rs.health.Status(c)
	if healthy {
		c.JSON(http.StatusOK, healthResp{"UP", statuses})
		return
	}
	c.JSON(http.StatusServiceUnavailable, healthResp{"DOWN", statuses})
}
