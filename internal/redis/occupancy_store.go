package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Occupancy is the active-session summary cached for fast lookups. The
// database stays authoritative; this cache only accelerates occupancy
// reads and is rebuilt lazily on misses.
type Occupancy struct {
	SessionID      int64     `json:"session_id"`
	SpotIdentifier string    `json:"spot_identifier"`
	LicensePlate   string    `json:"license_plate"`
	CheckInTime    time.Time `json:"check_in_time"`
}

// Store caches active sessions keyed by spot identifier and by plate.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func spotKey(spotIdentifier string) string {
	return fmt.Sprintf("occupancy:spot:%s", spotIdentifier)
}

func plateKey(plate string) string {
	return fmt.Sprintf("occupancy:plate:%s", plate)
}

// Save caches an active session under both keys.
func (s *Store) Save(ctx context.Context, occ Occupancy) error {
	data, err := json.Marshal(occ)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, spotKey(occ.SpotIdentifier), data, s.ttl)
	pipe.Set(ctx, plateKey(occ.LicensePlate), data, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Delete removes both keys after a check-out.
func (s *Store) Delete(ctx context.Context, spotIdentifier, plate string) error {
	return s.client.Del(ctx, spotKey(spotIdentifier), plateKey(plate)).Err()
}

// BySpot returns the cached occupancy for a spot, or redis.Nil on a miss.
func (s *Store) BySpot(ctx context.Context, spotIdentifier string) (*Occupancy, error) {
	return s.get(ctx, spotKey(spotIdentifier))
}

// ByPlate returns the cached occupancy for a plate, or redis.Nil on a miss.
func (s *Store) ByPlate(ctx context.Context, plate string) (*Occupancy, error) {
	return s.get(ctx, plateKey(plate))
}

func (s *Store) get(ctx context.Context, key string) (*Occupancy, error) {
	result, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var occ Occupancy
	if err := json.Unmarshal([]byte(result), &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}
