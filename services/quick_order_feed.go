package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/el-ostaa/ostaa-api/cache"
	"github.com/el-ostaa/ostaa-api/models"
)

// QuickOrdersChannel is the pub/sub channel carrying quick-order snapshots
const QuickOrdersChannel = "quick_orders"

// QuickOrderFeed pushes full quick-order snapshots to live subscribers
type QuickOrderFeed interface {
	Publish(ctx context.Context, snapshot []models.QuickOrder) error
	// Subscribe delivers snapshots until ctx is cancelled, then closes the channel
	Subscribe(ctx context.Context) (<-chan []models.QuickOrder, error)
}

// MemoryFeed fans snapshots out to subscribers of this process
type MemoryFeed struct {
	subscribers map[chan []models.QuickOrder]struct{}
	mu          sync.Mutex
}

// NewMemoryFeed creates an in-process feed
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subscribers: make(map[chan []models.QuickOrder]struct{})}
}

// Publish hands snapshot to every subscriber. A subscriber that has not
// consumed the previous snapshot gets it replaced by this newer one.
func (f *MemoryFeed) Publish(ctx context.Context, snapshot []models.QuickOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx ends
func (f *MemoryFeed) Subscribe(ctx context.Context) (<-chan []models.QuickOrder, error) {
	ch := make(chan []models.QuickOrder, 1)
	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subscribers, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers reports the number of live subscribers
func (f *MemoryFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// RedisFeed relays snapshots through Redis pub/sub so every instance's
// websocket clients see orders written anywhere
type RedisFeed struct {
	cache *cache.Client
}

// NewRedisFeed creates a Redis-backed feed
func NewRedisFeed(c *cache.Client) *RedisFeed {
	return &RedisFeed{cache: c}
}

// Publish sends snapshot as JSON on QuickOrdersChannel
func (f *RedisFeed) Publish(ctx context.Context, snapshot []models.QuickOrder) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal quick orders: %w", err)
	}
	if err := f.cache.Publish(ctx, QuickOrdersChannel, payload); err != nil {
		return fmt.Errorf("publish quick orders: %w", err)
	}
	return nil
}

// Subscribe decodes snapshots published on QuickOrdersChannel
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan []models.QuickOrder, error) {
	raw, err := f.cache.Subscribe(ctx, QuickOrdersChannel)
	if err != nil {
		return nil, fmt.Errorf("subscribe quick orders: %w", err)
	}

	out := make(chan []models.QuickOrder, 1)
	go func() {
		defer close(out)
		for payload := range raw {
			var snapshot []models.QuickOrder
			if err := json.Unmarshal(payload, &snapshot); err != nil {
				log.Printf("dropping malformed quick order snapshot: %v", err)
				continue
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var (
	quickOrderFeedInstance QuickOrderFeed = NewMemoryFeed()
	quickOrderFeedMu       sync.RWMutex
)

// GetQuickOrderFeed returns the active feed
func GetQuickOrderFeed() QuickOrderFeed {
	quickOrderFeedMu.RLock()
	defer quickOrderFeedMu.RUnlock()
	return quickOrderFeedInstance
}

// SetQuickOrderFeed replaces the active feed
func SetQuickOrderFeed(feed QuickOrderFeed) {
	quickOrderFeedMu.Lock()
	defer quickOrderFeedMu.Unlock()
	quickOrderFeedInstance = feed
}
