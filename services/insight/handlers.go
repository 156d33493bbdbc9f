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
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
	"github.com/AleutianAI/OrgAtlas/services/insight/loader"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServiceVersion is the Insight service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for Insight.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleCascade handles POST /v1/insight/cascade.
//
// Description:
//
//	Analyzes the impact of one node's departure: direct and indirect
//	reports, per-category impact counts, and the weighted score.
//
// Request Body:
//
//	CascadeRequest
//
// Response:
//
//	200 OK: CascadeResponse
//	400 Bad Request: Validation error
//	404 Not Found: Unknown node
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleCascade(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCascade")

	var req CascadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Cascade(c.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "CASCADE_FAILED"

		if errors.Is(err, graph.ErrNodeNotFound) {
			statusCode = http.StatusNotFound
			errCode = "NODE_NOT_FOUND"
		} else if errors.Is(err, ErrSnapshotNotLoaded) {
			statusCode = http.StatusServiceUnavailable
			errCode = "SNAPSHOT_NOT_LOADED"
		}

		logger.Error("Cascade failed", "node_id", req.NodeID, "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Cascade computed",
		"node_id", req.NodeID,
		"impact_score", resp.Report.ImpactScore,
		"elapsed_ms", resp.ElapsedMs)

	c.JSON(http.StatusOK, resp)
}

// HandleCentrality handles POST /v1/insight/centrality.
//
// Description:
//
//	Computes a centrality ranking (degree, betweenness, or pagerank)
//	over the loaded snapshot, optionally restricted by entity and
//	relationship types.
//
// Request Body:
//
//	CentralityRequest
//
// Response:
//
//	200 OK: CentralityResponse
//	400 Bad Request: Validation error or unsupported metric
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleCentrality(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCentrality")

	var req CentralityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Centrality(c.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "CENTRALITY_FAILED"

		if errors.Is(err, graph.ErrUnsupportedMetric) {
			statusCode = http.StatusBadRequest
			errCode = "UNSUPPORTED_METRIC"
		} else if errors.Is(err, ErrUnknownNodeType) || errors.Is(err, ErrUnknownRelType) {
			statusCode = http.StatusBadRequest
			errCode = "UNKNOWN_TYPE"
		} else if errors.Is(err, ErrSnapshotNotLoaded) {
			statusCode = http.StatusServiceUnavailable
			errCode = "SNAPSHOT_NOT_LOADED"
		}

		logger.Error("Centrality failed", "metric", req.Metric, "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Centrality computed",
		"metric", resp.Metric,
		"node_count", resp.NodeCount,
		"elapsed_ms", resp.ElapsedMs)

	c.JSON(http.StatusOK, resp)
}

// HandleCommunities handles POST /v1/insight/communities.
//
// Request Body:
//
//	CommunitiesRequest
//
// Response:
//
//	200 OK: CommunitiesResponse
//	400 Bad Request: Validation error
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleCommunities(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCommunities")

	var req CommunitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Communities(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := queryStatus(err, "COMMUNITIES_FAILED")
		logger.Error("Community detection failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Communities detected",
		"communities", len(resp.Communities),
		"modularity", resp.Modularity,
		"elapsed_ms", resp.ElapsedMs)

	c.JSON(http.StatusOK, resp)
}

// HandlePath handles POST /v1/insight/path.
//
// Request Body:
//
//	PathRequest
//
// Response:
//
//	200 OK: PathResponse (Found=false when no path exists)
//	400 Bad Request: Validation error
//	404 Not Found: Unknown endpoint node
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandlePath(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePath")

	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Path(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := queryStatus(err, "PATH_FAILED")
		logger.Error("Path search failed", "from", req.FromID, "to", req.ToID, "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDistance handles POST /v1/insight/distance.
//
// Request Body:
//
//	DistanceRequest
//
// Response:
//
//	200 OK: DistanceResponse (Distance=-1 when not connected)
//	400 Bad Request: Validation error
//	404 Not Found: Unknown endpoint node
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleDistance(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDistance")

	var req DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Distance(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := queryStatus(err, "DISTANCE_FAILED")
		logger.Error("Distance failed", "from", req.FromID, "to", req.ToID, "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleFlightRisk handles GET /v1/insight/flight-risk.
//
// Query Parameters:
//
//	top: Number of entries to return (optional, default all)
//
// Response:
//
//	200 OK: FlightRiskResponse
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleFlightRisk(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleFlightRisk")

	top := 0
	if raw := c.Query("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "top must be a non-negative integer",
				Code:  "INVALID_REQUEST",
			})
			return
		}
		top = parsed
	}

	resp, err := h.svc.FlightRisk(c.Request.Context(), top)
	if err != nil {
		statusCode, errCode := queryStatus(err, "FLIGHT_RISK_FAILED")
		logger.Error("Flight risk ranking failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Flight risk ranked",
		"entries", len(resp.Entries),
		"elapsed_ms", resp.ElapsedMs)

	c.JSON(http.StatusOK, resp)
}

// HandleStats handles GET /v1/insight/stats.
//
// Response:
//
//	200 OK: StatsResponse
//	503 Service Unavailable: No snapshot loaded
func (h *Handlers) HandleStats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		statusCode, errCode := queryStatus(err, "STATS_FAILED")
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleReload handles POST /v1/insight/snapshot/reload.
//
// Description:
//
//	Loads a fresh snapshot from the configured data path, or from the
//	path in the request body when given. On failure the previous
//	snapshot stays in place.
//
// Request Body:
//
//	ReloadRequest (optional)
//
// Response:
//
//	200 OK: ReloadResponse
//	400 Bad Request: No data source configured
//	422 Unprocessable Entity: Malformed snapshot data
//	500 Internal Server Error: Load failure
func (h *Handlers) HandleReload(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleReload")

	var req ReloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}

	start := time.Now()
	var stats loader.Stats
	var err error
	if req.Path != "" {
		stats, err = h.svc.LoadFrom(c.Request.Context(), req.Path)
	} else {
		stats, err = h.svc.Load(c.Request.Context())
	}
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "RELOAD_FAILED"

		if errors.Is(err, ErrNoDataSource) {
			statusCode = http.StatusBadRequest
			errCode = "NO_DATA_SOURCE"
		} else if errors.Is(err, graph.ErrMalformedGraph) {
			statusCode = http.StatusUnprocessableEntity
			errCode = "MALFORMED_GRAPH"
		}

		logger.Error("Reload failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Snapshot reloaded", "nodes", stats.Nodes, "edges", stats.Edges)

	c.JSON(http.StatusOK, ReloadResponse{
		Nodes:      stats.Nodes,
		Edges:      stats.Edges,
		Skipped:    stats.Skipped,
		LoadTimeMs: time.Since(start).Milliseconds(),
	})
}

// HandleHealth handles GET /v1/insight/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/insight/ready.
//
// Description:
//
//	Returns 503 Service Unavailable until a snapshot has been loaded.
//
// Response:
//
//	200 OK: ReadyResponse (Ready=true) - Queries can be served
//	503 Service Unavailable: ReadyResponse (Ready=false) - No snapshot
func (h *Handlers) HandleReady(c *gin.Context) {
	ready, nodeCount := h.svc.Ready()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadyResponse{
		Ready:     ready,
		NodeCount: nodeCount,
	})
}

// queryStatus maps a query error to an HTTP status and error code.
// defaultCode is used for errors with no specific mapping.
func queryStatus(err error, defaultCode string) (int, string) {
	switch {
	case errors.Is(err, graph.ErrNodeNotFound):
		return http.StatusNotFound, "NODE_NOT_FOUND"
	case errors.Is(err, ErrUnknownNodeType), errors.Is(err, ErrUnknownRelType),
		errors.Is(err, ErrUnknownDirection):
		return http.StatusBadRequest, "UNKNOWN_TYPE"
	case errors.Is(err, ErrSnapshotNotLoaded):
		return http.StatusServiceUnavailable, "SNAPSHOT_NOT_LOADED"
	default:
		return http.StatusInternalServerError, defaultCode
	}
}

// getOrCreateRequestID reads the X-Request-ID header, generating a new
// ID when absent, and echoes it back on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
