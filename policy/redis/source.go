// Package redis provides a policy source keeping the mutation block flag in Redis,
// so that every replica of a service sees the same state.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/clock"
	"github.com/moira-alert/mutguard/logging"
	"github.com/patrickmn/go-cache"
)

// DefaultKey is the Redis key holding the state.
const DefaultKey = "mutguard:block-mutations"

const (
	stateCacheKey          = "state"
	cacheCleanupInterval   = time.Minute * 10
	sourceLoggerContextTag = "redis"
)

// Config - Redis policy source config.
// Redis configuration depends on fields:
// 1. Use fields MasterName and Addrs to enable Redis Sentinel support
// 2. Specify two or more Addrs to enable cluster support
// 3. Otherwise, standalone configuration is enabled
type Config struct {
	MasterName   string
	Addrs        []string `validate:"required,min=1,dive,required"`
	Username     string
	Password     string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int `validate:"gte=0"`
	// Key overrides DefaultKey.
	Key string
	// CacheTTL enables caching of the state read from Redis. Zero disables cache,
	// so every request reads the state.
	CacheTTL time.Duration `validate:"gte=0"`
}

func (config Config) validate() error {
	validator := validator.New()
	return validator.Struct(config)
}

// State is stored in Redis as JSON.
type State struct {
	Blocked   bool   `json:"blocked"`
	Actor     string `json:"actor,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

type stateClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Source reads the flag from Redis.
type Source struct {
	client     stateClient
	key        string
	stateCache *cache.Cache
	cacheTTL   time.Duration
	clock      mutguard.Clock
	logger     logging.Logger
}

// NewSource creates Source connected to Redis described by config.
func NewSource(config Config, logger logging.Logger) (*Source, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("redis policy source configuration error: %w", err)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		MasterName:   config.MasterName,
		Addrs:        config.Addrs,
		Username:     config.Username,
		Password:     config.Password,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		MaxRetries:   config.MaxRetries,
	})

	return newSource(client, config.Key, config.CacheTTL, clock.NewSystemClock(), logger), nil
}

func newSource(client stateClient, key string, cacheTTL time.Duration, clock mutguard.Clock, logger logging.Logger) *Source {
	if key == "" {
		key = DefaultKey
	}

	source := &Source{
		client:   client,
		key:      key,
		cacheTTL: cacheTTL,
		clock:    clock,
		logger:   logger.Clone().String(mutguard.LogFieldNamePolicySource, sourceLoggerContextTag),
	}
	if cacheTTL > 0 {
		source.stateCache = cache.New(cacheTTL, cacheCleanupInterval)
	}
	return source
}

// ShouldBlockMutations returns flag stored in Redis. Missing key means mutations are allowed.
func (source *Source) ShouldBlockMutations(ctx context.Context) (bool, error) {
	state, err := source.GetState(ctx)
	if err != nil {
		return false, err
	}
	return state.Blocked, nil
}

// GetState returns state stored in Redis.
func (source *Source) GetState(ctx context.Context) (State, error) {
	if source.stateCache != nil {
		if cached, ok := source.stateCache.Get(stateCacheKey); ok {
			return cached.(State), nil
		}
	}

	state := State{}
	raw, err := source.client.Get(ctx, source.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			source.cacheState(state)
			return state, nil
		}
		return state, fmt.Errorf("failed to get mutations state from redis: %w", err)
	}

	if err = json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("failed to parse mutations state '%s': %w", string(raw), err)
	}

	source.cacheState(state)
	return state, nil
}

// SetBlocked saves new state to Redis.
func (source *Source) SetBlocked(ctx context.Context, blocked bool, actor string) error {
	state := State{
		Blocked:   blocked,
		Actor:     actor,
		UpdatedAt: source.clock.NowUnix(),
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if err = source.client.Set(ctx, source.key, raw, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to save mutations state to redis: %w", err)
	}

	if source.stateCache != nil {
		source.stateCache.Delete(stateCacheKey)
	}

	source.logger.Info().
		Bool(mutguard.LogFieldNamePolicyBlocked, blocked).
		String(mutguard.LogFieldNamePolicyActor, actor).
		Msg("Mutations state changed")

	return nil
}

// Close closes Redis connection.
func (source *Source) Close() error {
	if closer, ok := source.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (source *Source) cacheState(state State) {
	if source.stateCache != nil {
		source.stateCache.Set(stateCacheKey, state, source.cacheTTL)
	}
}
