package policystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/praxis-suite/praxis/internal/authz"
)

// CachedStore decorates a PolicyStore with a short-TTL redis snapshot of
// tenant settings. Settings are read on every request while writes are
// rare; the cache trades a bounded staleness window (last-write-wins,
// never linearizable) for one fewer round trip per check. Override and
// membership reads stay uncached: they are keyed per user and their
// freshness matters more.
type CachedStore struct {
	inner  authz.PolicyStore
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCachedStore wraps inner with a settings cache.
func NewCachedStore(inner authz.PolicyStore, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

type settingsSnapshot struct {
	Found    bool                 `json:"found"`
	Settings authz.TenantSettings `json:"settings"`
}

// FindUserOverride passes through to the inner store.
func (c *CachedStore) FindUserOverride(ctx context.Context, tenantID, userID int64, resource authz.Resource, action authz.Action) (bool, bool, error) {
	return c.inner.FindUserOverride(ctx, tenantID, userID, resource, action)
}

// FindDepartmentOverride passes through to the inner store.
func (c *CachedStore) FindDepartmentOverride(ctx context.Context, tenantID int64, department string, resource authz.Resource, action authz.Action) (authz.PermissionValue, bool, error) {
	return c.inner.FindDepartmentOverride(ctx, tenantID, department, resource, action)
}

// FindTeamMembers passes through to the inner store.
func (c *CachedStore) FindTeamMembers(ctx context.Context, tenantID, userID int64) (map[int64]struct{}, error) {
	return c.inner.FindTeamMembers(ctx, tenantID, userID)
}

// FindTenantSettings serves settings from redis when fresh, collapsing
// concurrent misses for the same tenant into one load.
func (c *CachedStore) FindTenantSettings(ctx context.Context, tenantID int64) (authz.TenantSettings, bool, error) {
	if c.client == nil {
		return c.inner.FindTenantSettings(ctx, tenantID)
	}
	key := settingsKey(tenantID)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var snapshot settingsSnapshot
		if err := json.Unmarshal(payload, &snapshot); err == nil {
			return snapshot.Settings, snapshot.Found, nil
		}
		// Corrupt payload: fall through and reload.
	} else if !errors.Is(err, redis.Nil) {
		// A broken cache must not break the decision path; the resolver
		// still fails closed if the inner store is down too.
		return c.inner.FindTenantSettings(ctx, tenantID)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		settings, found, err := c.inner.FindTenantSettings(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		snapshot := settingsSnapshot{Found: found, Settings: settings}
		if data, err := json.Marshal(snapshot); err == nil {
			c.client.Set(ctx, key, data, c.ttl)
		}
		return snapshot, nil
	})
	if err != nil {
		return authz.TenantSettings{}, false, err
	}
	snapshot := result.(settingsSnapshot)
	return snapshot.Settings, snapshot.Found, nil
}

// Invalidate drops the cached settings snapshot after a tenant write.
func (c *CachedStore) Invalidate(ctx context.Context, tenantID int64) {
	if c.client == nil {
		return
	}
	c.client.Del(ctx, settingsKey(tenantID))
}

func settingsKey(tenantID int64) string {
	return fmt.Sprintf("policy:tenant:%d:settings", tenantID)
}
