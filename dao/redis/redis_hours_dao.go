package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anchor-status/db"
	"anchor-status/models/hours"
)

const HOURS_SNAPSHOT_KEY_V1 = "business_hours_snapshot_v1"

// HoursSnapshot is the last good hours document together with its upstream timestamp.
type HoursSnapshot struct {
	Document   hours.HoursDocument `json:"document"`
	LastUpdate time.Time           `json:"last_update"`
	SavedAt    time.Time           `json:"saved_at"`
}

// RedisHoursDAO mirrors the poller cache into Redis so a restart can serve
// stale-but-valid status while upstream is down.
type RedisHoursDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisHoursDAO initializes a RedisHoursDAO with the Redis client.
func NewRedisHoursDAO(client db.RedisClient, ttl time.Duration) *RedisHoursDAO {
	return &RedisHoursDAO{client: client, ttl: ttl}
}

// SaveSnapshot overwrites the mirrored snapshot.
func (dao *RedisHoursDAO) SaveSnapshot(s HoursSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal hours snapshot: %w", err)
	}
	if err := dao.client.Set(HOURS_SNAPSHOT_KEY_V1, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set hours snapshot in redis: %w", err)
	}
	return nil
}

// LoadSnapshot returns the mirrored snapshot, or nil when none is stored.
func (dao *RedisHoursDAO) LoadSnapshot() (*HoursSnapshot, error) {
	str, err := dao.client.Get(HOURS_SNAPSHOT_KEY_V1)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hours snapshot from redis: %w", err)
	}
	var s HoursSnapshot
	if err := json.Unmarshal([]byte(str), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hours snapshot JSON: %w", err)
	}
	if s.Document.RegularHours == nil {
		return nil, fmt.Errorf("hours snapshot has no regular hours")
	}
	return &s, nil
}

// DeleteSnapshot drops the mirrored snapshot.
func (dao *RedisHoursDAO) DeleteSnapshot() error {
	if err := dao.client.Del(HOURS_SNAPSHOT_KEY_V1); err != nil {
		return fmt.Errorf("failed to delete hours snapshot key %s: %w", HOURS_SNAPSHOT_KEY_V1, err)
	}
	return nil
}
