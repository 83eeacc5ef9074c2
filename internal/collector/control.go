package collector

import "sync/atomic"

// Controller carries the two user-facing stop signals for a run. Stop
// scrolling lets the current batch of visible cards finish; stop all aborts
// at the next suspension point. Safe for concurrent use.
type Controller struct {
	stopScroll atomic.Bool
	stopAll    atomic.Bool
}

func NewController() *Controller { return &Controller{} }

// StopScrolling requests no further scrolling; cards already visible are
// still processed.
func (c *Controller) StopScrolling() { c.stopScroll.Store(true) }

// StopAll requests a full abort.
func (c *Controller) StopAll() {
	c.stopScroll.Store(true)
	c.stopAll.Store(true)
}

func (c *Controller) ScrollingStopped() bool { return c.stopScroll.Load() }
func (c *Controller) Stopped() bool          { return c.stopAll.Load() }
