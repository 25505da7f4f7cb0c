package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/redis"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// KeyLogistics is the settings row holding the logistics configuration.
const KeyLogistics = "logistic_settings"

// Service reads and writes keyed settings with a Redis read-through cache.
type Service interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Update(ctx context.Context, key string, value json.RawMessage) error
	Logistics(ctx context.Context) (types.LogisticsConfig, error)
}

type service struct {
	repo  Repository
	cache redis.Store
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService builds the settings service with the required dependencies.
func NewService(repo Repository, cache redis.Store, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("settings cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("settings logger required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		logg:  logg,
	}, nil
}

func (s *service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}

	cacheKey := s.cache.SettingsKey(key)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		return json.RawMessage(cached), nil
	} else if !errors.Is(err, redis.Nil) {
		// A degraded cache never blocks reads.
		s.logg.Warn(ctx, fmt.Sprintf("settings cache read failed: %v", err))
	}

	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}

	if err := s.cache.Set(ctx, cacheKey, string(setting.Value), s.ttl); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("settings cache write failed: %v", err))
	}
	return setting.Value, nil
}

func (s *service) Update(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	if len(value) == 0 || !json.Valid(value) {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting value must be valid JSON")
	}

	if key == KeyLogistics {
		var cfg types.LogisticsConfig
		if err := json.Unmarshal(value, &cfg); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode logistics configuration")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}

	if err := s.cache.Del(ctx, s.cache.SettingsKey(key)); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("settings cache invalidation failed: %v", err))
	}
	return nil
}

// Logistics returns the current logistics configuration. A missing row
// degrades to the zero configuration, matching the storefront's behavior
// when the settings fetch fails.
func (s *service) Logistics(ctx context.Context) (types.LogisticsConfig, error) {
	raw, err := s.Get(ctx, KeyLogistics)
	if err != nil {
		if pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			return types.LogisticsConfig{}, nil
		}
		return types.LogisticsConfig{}, err
	}

	var cfg types.LogisticsConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return types.LogisticsConfig{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode logistics configuration")
	}
	return cfg, nil
}
