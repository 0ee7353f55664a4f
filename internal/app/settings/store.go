package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"resourceshop/internal/app/pricing"
)


// ErrInvalid marks settings rejected by validation.
var ErrInvalid = errors.New("invalid settings")

// KV is the raw key/value persistence behind the settings.
type KV interface {
	AllSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, kv map[string]string) error
}

// Store is the Provider backed by a KV table, optionally cached in redis.
type Store struct {
	kv       KV
	cache    cache
	cacheTTL time.Duration
	validate *validator.Validate
}

// NewStore creates a settings store. client may be nil.
func NewStore(kv KV, client *redis.Client, cacheTTL time.Duration) *Store {
	s := &Store{
		kv:       kv,
		cacheTTL: cacheTTL,
		validate: validator.New(),
	}
	if client != nil {
		s.cache = redisCache{client: client}
	}
	return s
}

func (s *Store) Load(ctx context.Context) (StoreSettings, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return Decode(cached), nil
	}

	// taken before the read so a Save landing in between is detected
	gen, genOK := s.generation(ctx)

	kv, err := s.kv.AllSettings(ctx)
	if err != nil {
		return StoreSettings{}, fmt.Errorf("load settings: %w", err)
	}

	if genOK {
		s.toCache(ctx, gen, kv)
	}
	return Decode(kv), nil
}

func (s *Store) Save(ctx context.Context, st StoreSettings) error {
	if err := s.Validate(st); err != nil {
		return err
	}

	tiers := make([]pricing.BulkDiscount, len(st.BulkDiscounts))
	copy(tiers, st.BulkDiscounts)
	sortTiers(tiers)
	st.BulkDiscounts = tiers

	if err := s.kv.SaveSettings(ctx, Encode(st)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.invalidate(ctx); err != nil {
			logrus.Warnf("settings: cache invalidation failed: %v", err)
		}
	}
	return nil
}

// Validate checks ranges and enums of the typed settings.
func (s *Store) Validate(st StoreSettings) error {
	if err := s.validate.Struct(st); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (s *Store) fromCache(ctx context.Context) (map[string]string, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.get(ctx)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("settings: cache read failed: %v", err)
		}
		return nil, false
	}

	var kv map[string]string
	if err := json.Unmarshal([]byte(raw), &kv); err != nil {
		logrus.Warnf("settings: cache entry corrupted: %v", err)
		return nil, false
	}
	return kv, true
}

func (s *Store) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return 0, false
	}

	gen, err := s.cache.generation(ctx)
	if err != nil {
		logrus.Warnf("settings: cache generation read failed: %v", err)
		return 0, false
	}
	return gen, true
}

func (s *Store) toCache(ctx context.Context, gen int64, kv map[string]string) {
	b, err := json.Marshal(kv)
	if err != nil {
		return
	}
	if err := s.cache.setIfGeneration(ctx, gen, b, s.cacheTTL); err != nil {
		logrus.Warnf("settings: cache write failed: %v", err)
	}
}
