package app

import (
	"attendly/internal/config"
	"attendly/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module's routes
// on the given engine.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	db, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		// The summary cache is an optimization; the API stays up without it.
		zap.L().Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	} else {
		zap.L().Info("redis connection established")
	}

	return registerModules(router, cfg, db, rdb)
}
