package history

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
)

// RedisConfig holds connection parameters for the Redis backend.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisBackend stores history entries as JSON rows in a Redis list,
// oldest first.
type RedisBackend struct {
	client rueidis.Client
	key    string
}

// NewRedisBackend connects to Redis via rueidis. Entries live in a list
// under "<prefix>history".
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &RedisBackend{client: client, key: cfg.KeyPrefix + "history"}, nil
}

// Load reads the whole list. Rows that do not decode are skipped.
func (b *RedisBackend) Load(ctx context.Context) ([]domhist.Entry, error) {
	cmd := b.client.B().Lrange().Key(b.key).Start(0).Stop(-1).Build()
	rows, err := b.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", b.key, err)
	}

	entries := make([]domhist.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := entryFromJSON([]byte(row))
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Append pushes one entry onto the tail of the list.
func (b *RedisBackend) Append(ctx context.Context, e domhist.Entry) error {
	row, err := entryToJSON(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	cmd := b.client.B().Rpush().Key(b.key).Element(string(row)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("rpush %s: %w", b.key, err)
	}
	return nil
}

// Rewrite replaces the list inside a MULTI/EXEC block, so readers never
// observe a half-written history.
func (b *RedisBackend) Rewrite(ctx context.Context, entries []domhist.Entry) error {
	cmds := make([]rueidis.Completed, 0, len(entries)+3)
	cmds = append(cmds, b.client.B().Multi().Build())
	cmds = append(cmds, b.client.B().Del().Key(b.key).Build())
	for _, e := range entries {
		row, err := entryToJSON(e)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		cmds = append(cmds, b.client.B().Rpush().Key(b.key).Element(string(row)).Build())
	}
	cmds = append(cmds, b.client.B().Exec().Build())

	for _, res := range b.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("rewrite %s: %w", b.key, err)
		}
	}
	return nil
}

// Clear deletes the list key.
func (b *RedisBackend) Clear(ctx context.Context) error {
	cmd := b.client.B().Del().Key(b.key).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("del %s: %w", b.key, err)
	}
	return nil
}

// Ping checks connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	cmd := b.client.B().Ping().Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (b *RedisBackend) Close() {
	b.client.Close()
}
