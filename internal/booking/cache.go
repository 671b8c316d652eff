package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache stores resolved LastNext pairs per item. Entries are keyed by
// the item's generation, which Invalidate bumps; a pair resolved before an
// invalidation is stored under the old generation and never served again.
type SummaryCache interface {
	// Get returns the cached pair together with the generation it was
	// looked up under. Callers pass that generation back to Set.
	Get(ctx context.Context, itemID string) (ln LastNext, gen int64, ok bool, err error)
	Set(ctx context.Context, itemID string, gen int64, ln LastNext, ttl time.Duration) error
	Invalidate(ctx context.Context, itemID string) error
	// TTL is the upper bound applied to every entry.
	TTL() time.Duration
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache returns a redis-backed cache, or a no-op cache when
// client is nil.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	if client == nil || ttl <= 0 {
		return noopSummaryCache{}
	}
	return &redisSummaryCache{client: client, ttl: ttl}
}

type cachedBooking struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	OwnerID    string    `json:"owner_id"`
	BookerID   string    `json:"booker_id"`
	BookerName string    `json:"booker_name"`
	StartTime  time.Time `json:"start"`
	EndTime    time.Time `json:"end"`
	Status     Status    `json:"status"`
}

type cachedSummary struct {
	Last *cachedBooking `json:"last,omitempty"`
	Next *cachedBooking `json:"next,omitempty"`
}

func toCached(b *Booking) *cachedBooking {
	if b == nil {
		return nil
	}
	return &cachedBooking{
		ID: b.ID, ItemID: b.ItemID, ItemName: b.ItemName, OwnerID: b.OwnerID,
		BookerID: b.BookerID, BookerName: b.BookerName,
		StartTime: b.StartTime, EndTime: b.EndTime, Status: b.Status,
	}
}

func (c *cachedBooking) toBooking() *Booking {
	if c == nil {
		return nil
	}
	return &Booking{
		ID: c.ID, ItemID: c.ItemID, ItemName: c.ItemName, OwnerID: c.OwnerID,
		BookerID: c.BookerID, BookerName: c.BookerName,
		StartTime: c.StartTime, EndTime: c.EndTime, Status: c.Status,
	}
}

func summaryKey(itemID string, gen int64) string {
	return fmt.Sprintf("booking_summary:%s:%d", itemID, gen)
}

// generationKey never expires: resetting it could revive an entry written
// under an earlier generation.
func generationKey(itemID string) string {
	return fmt.Sprintf("booking_summary_gen:%s", itemID)
}

func (r *redisSummaryCache) generation(ctx context.Context, itemID string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get booking summary generation from redis: %w", err)
	}
	return gen, nil
}

func (r *redisSummaryCache) Get(ctx context.Context, itemID string) (LastNext, int64, bool, error) {
	gen, err := r.generation(ctx, itemID)
	if err != nil {
		return LastNext{}, 0, false, err
	}

	val, err := r.client.Get(ctx, summaryKey(itemID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return LastNext{}, gen, false, nil
	}
	if err != nil {
		return LastNext{}, gen, false, fmt.Errorf("failed to get booking summary from redis: %w", err)
	}

	var cs cachedSummary
	if err := json.Unmarshal(val, &cs); err != nil {
		return LastNext{}, gen, false, fmt.Errorf("failed to unmarshal booking summary: %w", err)
	}
	return LastNext{Last: cs.Last.toBooking(), Next: cs.Next.toBooking()}, gen, true, nil
}

func (r *redisSummaryCache) Set(ctx context.Context, itemID string, gen int64, ln LastNext, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(cachedSummary{Last: toCached(ln.Last), Next: toCached(ln.Next)})
	if err != nil {
		return fmt.Errorf("failed to marshal booking summary: %w", err)
	}
	if err := r.client.Set(ctx, summaryKey(itemID, gen), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set booking summary in redis: %w", err)
	}
	return nil
}

func (r *redisSummaryCache) Invalidate(ctx context.Context, itemID string) error {
	gen, err := r.client.Incr(ctx, generationKey(itemID)).Result()
	if err != nil {
		return fmt.Errorf("failed to bump booking summary generation in redis: %w", err)
	}
	// The previous entry is unreachable now; dropping it only frees memory.
	if err := r.client.Del(ctx, summaryKey(itemID, gen-1)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking summary from redis: %w", err)
	}
	return nil
}

func (r *redisSummaryCache) TTL() time.Duration {
	return r.ttl
}

type noopSummaryCache struct{}

func (noopSummaryCache) Get(context.Context, string) (LastNext, int64, bool, error) {
	return LastNext{}, 0, false, nil
}
func (noopSummaryCache) Set(context.Context, string, int64, LastNext, time.Duration) error {
	return nil
}
func (noopSummaryCache) Invalidate(context.Context, string) error { return nil }
func (noopSummaryCache) TTL() time.Duration                       { return 0 }
