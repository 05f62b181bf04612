package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solspace/solspace-backend/internal/api/shared/constants"
	"github.com/solspace/solspace-backend/internal/api/shared/dto"
	"github.com/solspace/solspace-backend/internal/api/shared/executor"
	"github.com/solspace/solspace-backend/internal/logger"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ReconcileDeposits credits recent deposits from an identity to the collection address
	// POST /api/v1/deposits/reconcile
	ReconcileDeposits(c *gin.Context)

	// SubmitGameEvent validates and records the result of one game round
	// POST /api/v1/game-events
	SubmitGameEvent(c *gin.Context)

	// GetCurrentLeaderboard ranks the running season over a trailing window
	// GET /api/v1/leaderboard?window=<48h|7d> (unknown windows fall back to 48h)
	GetCurrentLeaderboard(c *gin.Context)

	// GetSeasonLeaderboard returns the final standings of a season
	// GET /api/v1/leaderboard/seasons/:season
	GetSeasonLeaderboard(c *gin.Context)

	// GetBalance returns the points balance of an identity
	// GET /api/v1/balances/:identity
	GetBalance(c *gin.Context)

	// GetCurrentSeason returns the running season and its bounds
	// GET /api/v1/seasons/current
	GetCurrentSeason(c *gin.Context)

	// FinalizeSeason freezes the standings of a closed season (requires authentication)
	// POST /api/v1/admin/seasons/:season/finalize
	FinalizeSeason(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// Root answers the liveness probe at /
	Root(c *gin.Context)

	// Status reports that the service is running
	// GET /status
	Status(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// ReconcileDeposits credits recent deposits from an identity
func (h *handler) ReconcileDeposits(c *gin.Context) {
	var req dto.ReconcileDepositRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.ReconcileDeposits(c.Request.Context(), req.Identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitGameEvent validates and records one game round
func (h *handler) SubmitGameEvent(c *gin.Context) {
	var req dto.SubmitGameEventRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.SubmitGameEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCurrentLeaderboard ranks the running season over a trailing window
func (h *handler) GetCurrentLeaderboard(c *gin.Context) {
	board, err := h.executor.GetCurrentLeaderboard(c.Request.Context(), c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetSeasonLeaderboard returns the final standings of a season
func (h *handler) GetSeasonLeaderboard(c *gin.Context) {
	board, err := h.executor.GetSeasonLeaderboard(c.Request.Context(), c.Param("season"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetBalance returns the points balance of an identity
func (h *handler) GetBalance(c *gin.Context) {
	resp, err := h.executor.GetBalance(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCurrentSeason returns the running season and its bounds
func (h *handler) GetCurrentSeason(c *gin.Context) {
	resp, err := h.executor.GetCurrentSeason(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FinalizeSeason freezes the standings of a closed season
func (h *handler) FinalizeSeason(c *gin.Context) {
	resp, err := h.executor.FinalizeSeason(c.Request.Context(), c.Param("season"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.executor.Ping(c.Request.Context()); err != nil {
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": constants.SERVICE_NAME,
	})
}

// Root answers the liveness probe at /
func (h *handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		OK:      true,
		Service: constants.SERVICE_NAME,
	})
}

// Status reports that the service is running
func (h *handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		OK:      true,
		Service: constants.SERVICE_NAME,
		Status:  "running",
	})
}
