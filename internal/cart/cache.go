// Package cart holds the client's last-known-good view of the server
// cart and keeps it consistent across overlapping asynchronous
// mutations. Every mutation is write-then-authoritative-re-read; the
// snapshot is never derived from an unconfirmed write.
package cart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
)

// API is the slice of the cart resource client the cache drives.
type API interface {
	Get(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) error
	UpdateItem(ctx context.Context, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
	Checkout(ctx context.Context, shippingAddress string) error
}

// Sessions exposes the session epoch so refreshes issued before a
// logout can be recognized and dropped when they complete.
type Sessions interface {
	Epoch() uint64
}

type State int

const (
	StateIdle State = iota
	StateRefreshing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is what views read. ItemCount and Total always come from the
// most recently applied server read, never from local edits.
type Snapshot struct {
	ItemCount int
	Total     float64
	State     State
	LastError error
}

// Cache is the singleton cart view for the current session.
type Cache struct {
	mu       sync.Mutex
	api      API
	sessions Sessions

	snap Snapshot

	// nextSeq tags each refresh at issue time; appliedSeq/appliedEpoch
	// identify the refresh whose result the snapshot currently shows.
	nextSeq      uint64
	appliedSeq   uint64
	appliedEpoch uint64
	inflight     int
	// settled is the state of the last applied completion, with its
	// error when that completion failed; the visible state is
	// Refreshing while any read is outstanding and settled once the
	// last one lands or is discarded. LastError is shown only while
	// the visible state is Failed.
	settled    State
	settledErr error

	subscribers []func(Snapshot)
}

func NewCache(api API, sessions Sessions) *Cache {
	return &Cache{api: api, sessions: sessions}
}

// Snapshot returns the current state synchronously.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers an observer called after every applied snapshot
// change. Callbacks run outside the cache lock.
func (c *Cache) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Refresh re-reads the authoritative cart. A completed read is applied
// only when it is the newest one completed so far and the session that
// issued it is still current; anything else is dropped, never allowed
// to overwrite fresher state.
func (c *Cache) Refresh(ctx context.Context) error {
	seq, epoch := c.beginRefresh()
	serverCart, err := c.api.Get(ctx)
	return c.completeRefresh(seq, epoch, serverCart, err)
}

func (c *Cache) beginRefresh() (seq, epoch uint64) {
	c.mu.Lock()
	c.nextSeq++
	seq = c.nextSeq
	epoch = c.sessions.Epoch()
	c.inflight++
	c.snap.State = StateRefreshing
	c.snap.LastError = nil
	snap := c.snap
	c.mu.Unlock()

	c.notify(snap)
	return seq, epoch
}

func (c *Cache) completeRefresh(seq, epoch uint64, serverCart *domain.Cart, err error) error {
	c.mu.Lock()
	c.inflight--

	current := c.sessions.Epoch()
	if epoch != current {
		// The session that issued this read is gone. Its result must
		// not repopulate the cleared view.
		if c.appliedEpoch != current {
			c.snap = Snapshot{}
			c.settled = StateIdle
			c.settledErr = nil
		}
		if c.inflight == 0 {
			c.snap.State = c.settled
			c.snap.LastError = c.settledErr
		}
		snap := c.snap
		c.mu.Unlock()
		log.Printf("cart: dropping refresh %d issued under stale session", seq)
		c.notify(snap)
		return nil
	}

	if c.appliedEpoch == epoch && seq <= c.appliedSeq {
		// An out-of-order completion: a newer read already landed, so
		// this result is discarded wholesale.
		if c.inflight == 0 {
			c.snap.State = c.settled
			c.snap.LastError = c.settledErr
		}
		snap := c.snap
		c.mu.Unlock()
		log.Printf("cart: dropping stale refresh %d (already at %d)", seq, c.appliedSeq)
		c.notify(snap)
		return nil
	}

	c.appliedSeq = seq
	c.appliedEpoch = epoch
	if err != nil {
		// Keep the previous data stale-but-visible; only the state flag
		// and error change.
		c.settled = StateFailed
		c.settledErr = err
	} else {
		c.settled = StateReady
		c.settledErr = nil
		c.snap = Snapshot{
			ItemCount: serverCart.ItemCount(),
			Total:     serverCart.Total,
		}
	}
	c.snap.State = c.settled
	c.snap.LastError = c.settledErr
	if c.inflight > 0 {
		c.snap.State = StateRefreshing
		c.snap.LastError = nil
	}
	snap := c.snap
	c.mu.Unlock()

	c.notify(snap)
	return err
}

func (c *Cache) notify(snap Snapshot) {
	c.mu.Lock()
	subs := make([]func(Snapshot), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// Add puts quantity units of a product in the cart. The refresh runs
// only after the write succeeded; a failed write leaves the snapshot
// untouched.
func (c *Cache) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("cart: add quantity must be at least 1, got %d", quantity)
	}
	if err := c.api.AddItem(ctx, productID, quantity); err != nil {
		log.Printf("cart: add item %d failed: %v", productID, err)
		return err
	}
	return c.Refresh(ctx)
}

// Update sets a line's quantity. Quantity zero means remove; the server
// is never asked to interpret a zero-quantity update.
func (c *Cache) Update(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("cart: update quantity must not be negative, got %d", quantity)
	}
	if quantity == 0 {
		return c.Remove(ctx, itemID)
	}
	if err := c.api.UpdateItem(ctx, itemID, quantity); err != nil {
		log.Printf("cart: update item %d failed: %v", itemID, err)
		return err
	}
	return c.Refresh(ctx)
}

func (c *Cache) Remove(ctx context.Context, itemID int64) error {
	if err := c.api.RemoveItem(ctx, itemID); err != nil {
		log.Printf("cart: remove item %d failed: %v", itemID, err)
		return err
	}
	return c.Refresh(ctx)
}

func (c *Cache) Clear(ctx context.Context) error {
	if err := c.api.Clear(ctx); err != nil {
		log.Printf("cart: clear failed: %v", err)
		return err
	}
	return c.Refresh(ctx)
}

// Checkout converts the cart into an order and re-reads the (now empty)
// cart on success.
func (c *Cache) Checkout(ctx context.Context, shippingAddress string) error {
	if err := c.api.Checkout(ctx, shippingAddress); err != nil {
		log.Printf("cart: checkout failed: %v", err)
		return err
	}
	return c.Refresh(ctx)
}
