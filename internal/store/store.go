// Package store persists table state to Redis, per spec.md §6 "Persistence".
// Every table's engine blob lives under a single key (game:{code}:engine) so
// a coordinator's load -> mutate -> store cycle is one GET and one SET.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("store: not found")

// TTL is how long an idle table's keys survive before Redis reclaims them,
// per spec.md §6 "Idle table expiry".
const TTL = 72 * time.Hour

func engineKey(code string) string   { return fmt.Sprintf("game:%s:engine", code) }
func metaKey(code string) string     { return fmt.Sprintf("game:%s:meta", code) }
func activityKey(code string) string { return fmt.Sprintf("game:%s:activity", code) }
func playersKey(code string) string  { return fmt.Sprintf("game:%s:players", code) }
func playerKey(code, id string) string {
	return fmt.Sprintf("game:%s:player:%s", code, id)
}

// PlayerRecord is the per-player lobby data persisted under
// game:{code}:player:{id}, per spec.md §6 "Persisted state": everything
// needed to authenticate a rejoin without touching the engine blob.
type PlayerRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	PinHash  []byte `json:"pin_hash"`
}

const gamesIndexKey = "games"

// Meta is small lobby-level metadata kept alongside the engine blob:
// everything the lobby listing needs without deserializing the full engine.
type Meta struct {
	Code       string    `json:"code"`
	HostName   string    `json:"host_name"`
	MaxSeats   int       `json:"max_seats"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the persistence surface the coordinator depends on. It is an
// interface so tests can substitute an in-memory fake without a live Redis.
type Store interface {
	// SaveEngine writes the engine blob for code, refreshing its TTL and
	// registering code in the active-games index.
	SaveEngine(ctx context.Context, code string, blob []byte) error
	// LoadEngine reads the engine blob for code. Returns ErrNotFound if
	// absent.
	LoadEngine(ctx context.Context, code string) ([]byte, error)
	// DeleteGame removes every key associated with code and drops it from
	// the active-games index.
	DeleteGame(ctx context.Context, code string) error

	SaveMeta(ctx context.Context, meta Meta) error
	LoadMeta(ctx context.Context, code string) (Meta, error)

	// SavePlayer upserts a player's lobby record (name + PIN hash) and
	// registers its id in the per-table players set.
	SavePlayer(ctx context.Context, code string, rec PlayerRecord) error
	// LoadPlayer reads one player's lobby record. Returns ErrNotFound if
	// absent.
	LoadPlayer(ctx context.Context, code, playerID string) (PlayerRecord, error)
	// ListPlayers returns every player record registered for code, per
	// spec.md §6's game:{code}:players set.
	ListPlayers(ctx context.Context, code string) ([]PlayerRecord, error)

	// TouchActivity refreshes code's idle-expiry TTL without reading or
	// writing the engine blob, per the coordinator's load/mutate/store/
	// broadcast/touch-activity discipline.
	TouchActivity(ctx context.Context, code string) error

	// ActiveCodes lists every currently-registered game code.
	ActiveCodes(ctx context.Context) ([]string, error)
}

// RedisStore is the production Store, backed by a single Redis instance.
type RedisStore struct {
	client *redis.Client
}

// New constructs a RedisStore against addr (host:port).
func New(addr, password string, db int) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// NewFromClient wraps an already-configured *redis.Client (e.g. for
// redis.ParseURL-built options, or a test miniredis instance).
func NewFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) SaveEngine(ctx context.Context, code string, blob []byte) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, engineKey(code), blob, TTL)
	pipe.SAdd(ctx, gamesIndexKey, code)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) LoadEngine(ctx context.Context, code string) ([]byte, error) {
	b, err := r.client.Get(ctx, engineKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *RedisStore) DeleteGame(ctx context.Context, code string) error {
	playerIDs, err := r.client.SMembers(ctx, playersKey(code)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := r.client.TxPipeline()
	keys := []string{engineKey(code), metaKey(code), activityKey(code), playersKey(code)}
	for _, id := range playerIDs {
		keys = append(keys, playerKey(code, id))
	}
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, gamesIndexKey, code)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) TouchActivity(ctx context.Context, code string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, activityKey(code), time.Now().Unix(), TTL)
	pipe.Expire(ctx, engineKey(code), TTL)
	pipe.Expire(ctx, metaKey(code), TTL)
	pipe.Expire(ctx, playersKey(code), TTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) ActiveCodes(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, gamesIndexKey).Result()
}
