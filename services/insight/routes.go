// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package insight

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the Insight routes on the given router group.
//
// Routes:
//
//	POST /insight/cascade          - Departure impact analysis
//	POST /insight/centrality       - Centrality rankings
//	POST /insight/communities      - Community detection
//	POST /insight/path             - Shortest path between nodes
//	POST /insight/distance         - Hierarchy distance between nodes
//	GET  /insight/flight-risk      - Impact-ranked employee listing
//	GET  /insight/stats            - Snapshot and span-of-control stats
//	POST /insight/snapshot/reload  - Reload the graph snapshot
//	GET  /insight/health           - Service health
//	GET  /insight/ready            - Service readiness
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	insight := rg.Group("/insight")
	{
		// Analysis endpoints
		insight.POST("/cascade", handlers.HandleCascade)
		insight.POST("/centrality", handlers.HandleCentrality)
		insight.POST("/communities", handlers.HandleCommunities)
		insight.POST("/path", handlers.HandlePath)
		insight.POST("/distance", handlers.HandleDistance)
		insight.GET("/flight-risk", handlers.HandleFlightRisk)

		// Snapshot management
		insight.GET("/stats", handlers.HandleStats)
		insight.POST("/snapshot/reload", handlers.HandleReload)

		// Service status
		insight.GET("/health", handlers.HandleHealth)
		insight.GET("/ready", handlers.HandleReady)
	}
}
