package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
)

const (
	unitActiveKeyPrefix = "validation:unit-active:"
	unitCountKeyPrefix  = "validation:unit-count:"

	defaultCacheTTL = 30 * time.Second
)

// CachedStore decorates a QueryGateway with a Redis read-through cache for
// organisation-unit facts. Unit state changes rarely but is consulted by
// every accessor-family validation, so a short TTL takes most of the query
// load off PostgreSQL without holding stale answers for long.
//
// Role and innovation queries stay uncached: they are the facts under
// validation and must be read fresh.
type CachedStore struct {
	next   Gateway
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Gateway mirrors validation.QueryGateway. Declared consumer-side to avoid
// an import cycle with the validation package.
type Gateway interface {
	GetRole(ctx context.Context, userID id.UserID, roleID id.RoleID) (*models.Role, error)
	GetRoles(ctx context.Context, userID id.UserID) ([]models.Role, error)
	CountUserRolesOfType(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) (int, error)
	CountPlatformUsersWithRole(ctx context.Context, roleType id.RoleType, excludeUserID id.UserID) (int, error)
	CountActiveRolesInUnit(ctx context.Context, unitID id.OrganisationUnitID, roleType id.RoleType, excludeRoleID id.RoleID) (int, error)
	InnovationsExclusivelySupportedBy(ctx context.Context, roleID id.RoleID) ([]models.InnovationSummary, error)
	IsUnitActive(ctx context.Context, unitID id.OrganisationUnitID) (bool, error)
	UserHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (bool, error)
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

// WithCacheTTL overrides the default entry TTL.
func WithCacheTTL(ttl time.Duration) CachedStoreOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger for cache errors.
func WithCacheLogger(logger *slog.Logger) CachedStoreOption {
	return func(c *CachedStore) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCached wraps next with a Redis cache. Cache failures degrade to the
// underlying gateway, never to an error.
func NewCached(next Gateway, client *redis.Client, opts ...CachedStoreOption) *CachedStore {
	c := &CachedStore{
		next:   next,
		client: client,
		ttl:    defaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *CachedStore) GetRole(ctx context.Context, userID id.UserID, roleID id.RoleID) (*models.Role, error) {
	return c.next.GetRole(ctx, userID, roleID)
}

func (c *CachedStore) GetRoles(ctx context.Context, userID id.UserID) ([]models.Role, error) {
	return c.next.GetRoles(ctx, userID)
}

func (c *CachedStore) CountUserRolesOfType(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) (int, error) {
	return c.next.CountUserRolesOfType(ctx, userID, types, excludeRoleID)
}

func (c *CachedStore) CountPlatformUsersWithRole(ctx context.Context, roleType id.RoleType, excludeUserID id.UserID) (int, error) {
	return c.next.CountPlatformUsersWithRole(ctx, roleType, excludeUserID)
}

func (c *CachedStore) CountActiveRolesInUnit(ctx context.Context, unitID id.OrganisationUnitID, roleType id.RoleType, excludeRoleID id.RoleID) (int, error) {
	// Only the exclusion-free count is shared across requests; an excluded
	// role id makes the answer request-specific.
	if !excludeRoleID.IsNil() {
		return c.next.CountActiveRolesInUnit(ctx, unitID, roleType, excludeRoleID)
	}

	key := unitCountKeyPrefix + unitID.String() + ":" + string(roleType)
	if cached, ok := c.getInt(ctx, key); ok {
		return cached, nil
	}

	count, err := c.next.CountActiveRolesInUnit(ctx, unitID, roleType, excludeRoleID)
	if err != nil {
		return 0, err
	}
	c.set(ctx, key, strconv.Itoa(count))
	return count, nil
}

func (c *CachedStore) InnovationsExclusivelySupportedBy(ctx context.Context, roleID id.RoleID) ([]models.InnovationSummary, error) {
	return c.next.InnovationsExclusivelySupportedBy(ctx, roleID)
}

func (c *CachedStore) IsUnitActive(ctx context.Context, unitID id.OrganisationUnitID) (bool, error) {
	key := unitActiveKeyPrefix + unitID.String()
	if cached, ok := c.getString(ctx, key); ok {
		return cached == "1", nil
	}

	active, err := c.next.IsUnitActive(ctx, unitID)
	if err != nil {
		return false, err
	}
	value := "0"
	if active {
		value = "1"
	}
	c.set(ctx, key, value)
	return active, nil
}

func (c *CachedStore) UserHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (bool, error) {
	return c.next.UserHasRoleInUnit(ctx, userID, unitID)
}

// InvalidateUnit drops the cached facts of one organisation unit. The
// lifecycle services call this after mutating unit state.
func (c *CachedStore) InvalidateUnit(ctx context.Context, unitID id.OrganisationUnitID) {
	keys := []string{unitActiveKeyPrefix + unitID.String()}
	for _, t := range id.AllRoleTypes() {
		keys = append(keys, unitCountKeyPrefix+unitID.String()+":"+string(t))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "unit_id", unitID.String(), "error", err)
	}
}

func (c *CachedStore) getString(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (c *CachedStore) getInt(ctx context.Context, key string) (int, bool) {
	value, ok := c.getString(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *CachedStore) set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
