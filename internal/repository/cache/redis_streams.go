package cache

import (
	"time"

	"github.com/rac-reallocation/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisStreams создаёт отдельный клиент для стримов событий поезда.
// Блокирующие XREADGROUP не должны занимать соединения пула кеша.
func NewRedisStreams(cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	opts := clientOptions(cfg)
	opts.ReadTimeout = 5 * time.Second
	return dial(opts, "streams", logger)
}
