package redis

import (
	"context"
	"document-improver/internal/config"
	"log"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()
var RedisClient *redis.Client

func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisAddress,
	})
	_, err := RedisClient.Ping(Ctx).Result()
	if err != nil {
		log.Println("Redis not available. Running without Redis.")
		RedisClient = nil
		return
	}

	log.Println("Redis connected successfully.")
}
