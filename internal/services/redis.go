package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/talentverse/talentverse-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

const skillCatalogTTL = 5 * time.Minute

func skillCatalogKey(category string) string {
	if category == "" {
		return "skills:catalog:all"
	}
	return "skills:catalog:" + category
}

// CacheSkillCatalog stores the public skill listing for a category.
func CacheSkillCatalog(ctx context.Context, category string, skills []models.Skill) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}

	return RedisClient.Set(ctx, skillCatalogKey(category), data, skillCatalogTTL).Err()
}

// GetCachedSkillCatalog retrieves a cached skill listing, if any.
func GetCachedSkillCatalog(ctx context.Context, category string) ([]models.Skill, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}

	data, err := RedisClient.Get(ctx, skillCatalogKey(category)).Result()
	if err != nil {
		return nil, err
	}

	var skills []models.Skill
	if err := json.Unmarshal([]byte(data), &skills); err != nil {
		return nil, err
	}

	return skills, nil
}

// InvalidateSkillCatalog drops all cached skill listings after a catalog change.
func InvalidateSkillCatalog(ctx context.Context) {
	if RedisClient == nil {
		return
	}

	iter := RedisClient.Scan(ctx, 0, "skills:catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		RedisClient.Del(ctx, iter.Val())
	}
}
