package apiclient

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

const settingsCacheKey = "settings"

// SettingsCache keeps the last settings snapshot seen by its owner. Writes
// through Update replace the entry with the server's answer; nothing else
// refreshes it before the TTL runs out.
type SettingsCache struct {
	log    *slog.Logger
	client *Client
	cache  *cache.Cache
}

// NewSettingsCache creates a cache whose entries live for ttl. A ttl <= 0
// keeps the entry until Invalidate or Update.
func NewSettingsCache(log *slog.Logger, client *Client, ttl time.Duration) *SettingsCache {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &SettingsCache{
		log:    log.With("svc", "settingsCache"),
		client: client,
		// no janitor: expired entries are dropped on read
		cache: cache.New(ttl, 0),
	}
}

func (s *SettingsCache) Get(ctx context.Context) (*AppSettings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		s.log.DebugContext(ctx, "Returning from cache")
		return cached.(*AppSettings).Clone(), nil
	}

	st, err := s.client.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	s.store(st)
	return st, nil
}

// Update patches the settings and caches the result. On failure the entry is
// dropped since the server state is no longer known.
func (s *SettingsCache) Update(ctx context.Context, data AppSettingsUpdateRequest) (*AppSettings, error) {
	st, err := s.client.UpdateSettings(ctx, data)
	if err != nil {
		s.Invalidate()
		return nil, err
	}
	s.store(st)
	return st, nil
}

func (s *SettingsCache) Invalidate() {
	s.cache.Delete(settingsCacheKey)
}

func (s *SettingsCache) store(st *AppSettings) {
	if st == nil {
		return
	}
	s.cache.Set(settingsCacheKey, st.Clone(), cache.DefaultExpiration)
}
