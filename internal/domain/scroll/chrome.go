// Package scroll derives the navbar treatment from the viewport scroll offset.
package scroll

import "sync"

// Threshold is the offset, in pixels, past which the navbar switches to its solid treatment.
const Threshold = 50.0

// PastThreshold reports whether offset is strictly greater than Threshold.
func PastThreshold(offset float64) bool {
	return offset > Threshold
}

// Signal is a source of scroll offsets.
// Subscribe registers fn and returns a function that detaches it.
type Signal interface {
	Subscribe(fn func(offset float64)) (unsubscribe func())
}

// Chrome tracks the latest scroll offset while mounted.
// It is safe for concurrent use.
type Chrome struct {
	mu          sync.Mutex
	offset      float64
	unsubscribe func()
}

// NewChrome returns an unmounted Chrome with offset 0.
func NewChrome() *Chrome {
	return &Chrome{}
}

// Mount subscribes to sig and resets the offset to 0.
// PRE: sig is non-nil
// POST: Exactly one subscription is held; any previous one is detached first
func (c *Chrome) Mount(sig Signal) {
	c.mu.Lock()
	prev := c.unsubscribe
	c.unsubscribe = nil
	c.offset = 0
	c.mu.Unlock()

	if prev != nil {
		prev()
	}

	unsub := sig.Subscribe(c.observe)

	c.mu.Lock()
	c.unsubscribe = unsub
	c.mu.Unlock()
}

// Unmount detaches the subscription. Calling it when not mounted is a no-op.
// POST: No subscription is held
func (c *Chrome) Unmount() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Mounted reports whether a subscription is held.
func (c *Chrome) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribe != nil
}

// Offset returns the most recently observed offset.
func (c *Chrome) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// PastThreshold applies PastThreshold to the current offset.
func (c *Chrome) PastThreshold() bool {
	return PastThreshold(c.Offset())
}

func (c *Chrome) observe(offset float64) {
	c.mu.Lock()
	c.offset = offset
	c.mu.Unlock()
}
