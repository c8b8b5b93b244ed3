package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

func (r *RedisStore) SaveMeta(ctx context.Context, meta Meta) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, metaKey(meta.Code), b, TTL).Err()
}

func (r *RedisStore) LoadMeta(ctx context.Context, code string) (Meta, error) {
	b, err := r.client.Get(ctx, metaKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Meta{}, ErrNotFound
	}
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// SavePlayer upserts a player's lobby record and adds its id to the
// per-table players set used by ListPlayers and DeleteGame's cleanup scan.
func (r *RedisStore) SavePlayer(ctx context.Context, code string, rec PlayerRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, playerKey(code, rec.PlayerID), b, TTL)
	pipe.SAdd(ctx, playersKey(code), rec.PlayerID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) LoadPlayer(ctx context.Context, code, playerID string) (PlayerRecord, error) {
	b, err := r.client.Get(ctx, playerKey(code, playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return PlayerRecord{}, ErrNotFound
	}
	if err != nil {
		return PlayerRecord{}, err
	}
	var rec PlayerRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return PlayerRecord{}, err
	}
	return rec, nil
}

func (r *RedisStore) ListPlayers(ctx context.Context, code string) ([]PlayerRecord, error) {
	ids, err := r.client.SMembers(ctx, playersKey(code)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]PlayerRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := r.LoadPlayer(ctx, code, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
