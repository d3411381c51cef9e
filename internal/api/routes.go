package api

import (
	"github.com/gin-gonic/gin"

	"speakermap/internal/utils"
)

func RegisterRoutes(r *gin.Engine) {
	// Health check
	r.GET("/health", healthCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.POST("/match", runMatch)
		v1.GET("/match", listMatchRuns)
		v1.GET("/match/:run_id", getMatchRun)
		v1.GET("/match/:run_id/transcript", getAttributedTranscript)
		v1.PATCH("/match/:run_id/labels/:label", correctLabel)
		v1.POST("/match/:run_id/summary", summarizeMatchRun)
	}
}

// healthCheck returns server health status
func healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "speakermap-backend",
	})
}
