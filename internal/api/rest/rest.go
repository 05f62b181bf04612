package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solspace/solspace-backend/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Liveness and health (no auth, no version prefix)
	router.GET("/", handler.Root)
	router.GET("/status", handler.Status)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/deposits/reconcile", handler.ReconcileDeposits)
		v1.POST("/game-events", handler.SubmitGameEvent)

		v1.GET("/leaderboard", handler.GetCurrentLeaderboard)
		v1.GET("/leaderboard/seasons/:season", handler.GetSeasonLeaderboard)

		v1.GET("/balances/:identity", handler.GetBalance)
		v1.GET("/seasons/current", handler.GetCurrentSeason)

		admin := v1.Group("/admin", middleware.Auth(authCfg))
		{
			admin.POST("/seasons/:season/finalize", handler.FinalizeSeason)
		}
	}
}
