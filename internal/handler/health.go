package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 3 * time.Second

type healthStatus struct {
	OK    bool   `json:"ok"`
	DB    string `json:"db"`
	Redis string `json:"redis"`
}

// Health reports liveness of the two backing stores. A degraded answer
// gets 503 so the process supervisor can restart or alert; the body never
// carries connection details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		st := healthStatus{OK: true, DB: "up", Redis: "up"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			st.OK = false
			st.DB = "down"
		}
		if rdb.Ping(ctx).Err() != nil {
			st.OK = false
			st.Redis = "down"
		}

		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, st)
	}
}
