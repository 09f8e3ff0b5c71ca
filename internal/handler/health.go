package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nb2912/inventory/internal/infra"
	"github.com/nb2912/inventory/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// The mail breaker and dead-letter backlog are reported but never fail the check.
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var deadLetters int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DeadLetterCount(ctx, rdb, worker.QueueLowStock); err == nil {
			deadLetters = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":                status == http.StatusOK,
			"db":                dbStatus,
			"redis":             redisStatus,
			"low_stock_dlq_len": deadLetters,
		}
		if mailCB != nil {
			body["mail_circuit"] = mailCB.State().String()
		}
		c.JSON(status, body)
	}
}
