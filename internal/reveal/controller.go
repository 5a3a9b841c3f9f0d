// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the chunked sequential reveal controller.
package reveal

import (
	"slices"
	"sync"
	"time"
)

// =============================================================================
// OPTIONS
// =============================================================================

// DefaultChunkDuration is how long each chunk stays visible before
// auto-advance fires, unless overridden.
const DefaultChunkDuration = 8 * time.Second

// FloatingChunkDuration is the slower pacing used by the floating chat
// display, where the reader is following a conversation rather than a list.
const FloatingChunkDuration = 10 * time.Second

// Options configures a Controller.
type Options struct {
	// ChunkDuration is the time each chunk remains visible before
	// auto-advance fires. Values <= 0 fall back to DefaultChunkDuration.
	ChunkDuration time.Duration

	// AutoAdvance enables the interval timer. When false the controller
	// never advances on its own; only manual commands move the index.
	AutoAdvance bool

	// PauseOnInteraction makes any manual navigation command (Advance,
	// Retreat, JumpTo) suspend auto-advance until Resume is called.
	PauseOnInteraction bool
}

// DefaultOptions returns the general-purpose pacing configuration.
func DefaultOptions() Options {
	return Options{
		ChunkDuration:      DefaultChunkDuration,
		AutoAdvance:        true,
		PauseOnInteraction: false,
	}
}

// FloatingChatOptions returns the preset used by the floating chat display:
// slower pacing, and manual navigation pauses the clock so the reader is
// never yanked away from a chunk they went back to.
func FloatingChatOptions() Options {
	return Options{
		ChunkDuration:      FloatingChunkDuration,
		AutoAdvance:        true,
		PauseOnInteraction: true,
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the read side of the controller, taken atomically.
type Snapshot struct {
	// CurrentChunk is the chunk at CurrentIndex, or "" when empty.
	CurrentChunk string

	// CurrentIndex is in [0, TotalChunks-1] whenever TotalChunks > 0.
	CurrentIndex int

	// TotalChunks is the length of the held sequence.
	TotalChunks int

	// IsDisplaying is true while the sequence is actively being paced.
	IsDisplaying bool

	// IsPaused is true while auto-advance is suspended.
	IsPaused bool

	// IsComplete is true once the last chunk has been reached and the
	// pacing phase has ended.
	IsComplete bool
}

// =============================================================================
// TIMER PLUMBING
// =============================================================================

// stopFunc cancels a pending timer fire. Reports whether the fire was
// prevented. Calling it more than once, or after the fire, is a no-op.
type stopFunc func() bool

// timerFactory arms a single-shot timer. Tests substitute a fake to drive
// time by hand and to count armed timers.
type timerFactory func(d time.Duration, fn func()) stopFunc

// realTimer arms a time.AfterFunc.
func realTimer(d time.Duration, fn func()) stopFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller paces an ordered sequence of text chunks.
//
// All commands return immediately; effects are observed through Snapshot or
// the notify callback. Safe for use from the Bubble Tea loop plus the timer
// goroutine.
type Controller struct {
	mu   sync.Mutex
	opts Options

	// Held sequence and position
	chunks     []string
	index      int
	displaying bool
	paused     bool
	closed     bool

	// One timer slot: always cancel before overwrite. armSeq invalidates
	// callbacks from timers that fired after being superseded.
	cancel   stopFunc
	armSeq   uint64
	newTimer timerFactory

	// stepDurations overrides ChunkDuration per index when non-empty.
	// Indexes past its end fall back to ChunkDuration.
	stepDurations []time.Duration

	// notify is invoked outside the lock after every observable change.
	notify func(Snapshot)
}

// New creates a controller with the given options. Chunks are supplied
// separately via Supply.
func New(opts Options) *Controller {
	if opts.ChunkDuration <= 0 {
		opts.ChunkDuration = DefaultChunkDuration
	}
	return &Controller{
		opts:     opts,
		newTimer: realTimer,
	}
}

// SetNotify registers a callback invoked after every observable state
// change, including timer-driven advances. The callback runs outside the
// controller lock; it may call Snapshot but should hand heavier work to the
// presentation layer (for the TUI this forwards into program.Send).
func (c *Controller) SetNotify(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// Options returns the controller's effective configuration.
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// SetStepDurations gives each chunk index its own display duration,
// overriding ChunkDuration. Guided exercises use this so a long grounding
// step holds longer than a short breath cue. Call before Supply; nil
// restores uniform pacing. A timer already pending keeps its original
// duration.
func (c *Controller) SetStepDurations(ds []time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ds) == 0 {
		c.stepDurations = nil
		return
	}
	c.stepDurations = make([]time.Duration, len(ds))
	copy(c.stepDurations, ds)
}

// PacingDurations returns the per-index durations, nil under uniform
// pacing.
func (c *Controller) PacingDurations() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stepDurations == nil {
		return nil
	}
	out := make([]time.Duration, len(c.stepDurations))
	copy(out, c.stepDurations)
	return out
}

// =============================================================================
// SEQUENCE SUPPLY
// =============================================================================

// Supply hands the controller a new chunk sequence.
//
// The sequence is compared to the held one by element-wise content equality,
// not reference: re-supplying identical content is a strict no-op so the
// pacing clock never restarts and the display never flickers when an
// unchanged response is rebuilt upstream. Any difference in length or
// content resets position to the first chunk and restarts pacing. An empty
// sequence clears the display state.
func (c *Controller) Supply(chunks []string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if slices.Equal(chunks, c.chunks) {
		// Idempotent re-supply: no state mutation, no timer restart.
		c.mu.Unlock()
		return
	}

	c.chunks = slices.Clone(chunks)
	c.cancelLocked()
	c.index = 0
	if len(c.chunks) == 0 {
		c.displaying = false
	} else {
		c.displaying = true
		c.paused = false
		c.armLocked()
	}
	c.emitAndUnlock()
}

// =============================================================================
// NAVIGATION COMMANDS
// =============================================================================

// Advance moves to the next chunk. At the end of the sequence it ends the
// pacing phase instead of wrapping. With PauseOnInteraction set, it also
// suspends auto-advance.
func (c *Controller) Advance() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.opts.PauseOnInteraction {
		c.paused = true
	}
	n := len(c.chunks)
	next := c.index + 1
	switch {
	case next > n-1:
		// Clamp: no wrap past the final chunk.
		c.displaying = false
		c.cancelLocked()
	case next == n-1:
		// Reaching the last chunk ends the pacing phase.
		c.index = next
		c.displaying = false
		c.cancelLocked()
	default:
		c.index = next
		c.armLocked()
	}
	c.emitAndUnlock()
}

// Retreat moves to the previous chunk, clamped at the first. With
// PauseOnInteraction set, it also suspends auto-advance.
func (c *Controller) Retreat() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.opts.PauseOnInteraction {
		c.paused = true
	}
	if c.index > 0 {
		c.index--
	}
	c.armLocked()
	c.emitAndUnlock()
}

// JumpTo moves directly to index, silently clamped into range. Jumping to
// the last chunk ends the pacing phase, mirroring natural completion. With
// PauseOnInteraction set, it also suspends auto-advance.
func (c *Controller) JumpTo(index int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.opts.PauseOnInteraction {
		c.paused = true
	}
	n := len(c.chunks)
	if n > 0 {
		if index < 0 {
			index = 0
		}
		if index > n-1 {
			index = n - 1
		}
		c.index = index
		if index == n-1 {
			c.displaying = false
		}
	}
	c.armLocked()
	c.emitAndUnlock()
}

// =============================================================================
// PACING COMMANDS
// =============================================================================

// Pause suspends auto-advance and cancels any pending timer. The index is
// unchanged.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.paused = true
	c.cancelLocked()
	c.emitAndUnlock()
}

// Resume lifts a pause. If pacing is still active it re-arms a timer for
// the current chunk's full duration; a partially elapsed interval is not
// resumed.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.paused = false
	c.armLocked()
	c.emitAndUnlock()
}

// Reset returns to the first chunk and restarts pacing over the held
// sequence. Unlike manual navigation, Reset never sets the interaction
// pause: it is a lifecycle operation, not a user interaction.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.index = 0
	c.displaying = len(c.chunks) > 0
	c.paused = false
	c.armLocked()
	c.emitAndUnlock()
}

// Close tears the controller down, cancelling any pending timer. All
// subsequent commands and timer fires are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelLocked()
}

// =============================================================================
// READ SIDE
// =============================================================================

// Snapshot returns the current display state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		CurrentIndex: c.index,
		TotalChunks:  len(c.chunks),
		IsDisplaying: c.displaying,
		IsPaused:     c.paused,
	}
	if len(c.chunks) > 0 {
		s.CurrentChunk = c.chunks[c.index]
		s.IsComplete = c.index == len(c.chunks)-1 && !c.displaying
	}
	return s
}

// =============================================================================
// TIMER CORE
// =============================================================================

// cancelLocked cancels the pending timer, if any, and invalidates callbacks
// from timers that already fired but have not yet taken the lock.
func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.armSeq++
}

// armLocked cancels the pending timer and arms a fresh one if auto-advance
// is currently eligible: not paused, still displaying, and more than one
// chunk held. Single-chunk sequences never arm; there is no terminal
// auto-transition for them.
func (c *Controller) armLocked() {
	c.cancelLocked()
	if c.closed || !c.opts.AutoAdvance || c.paused || !c.displaying || len(c.chunks) <= 1 {
		return
	}
	seq := c.armSeq
	c.cancel = c.newTimer(c.durationLocked(c.index), func() { c.fire(seq) })
}

// durationLocked resolves the display duration for a chunk index.
func (c *Controller) durationLocked(index int) time.Duration {
	if index >= 0 && index < len(c.stepDurations) && c.stepDurations[index] > 0 {
		return c.stepDurations[index]
	}
	return c.opts.ChunkDuration
}

// fire handles a timer expiry armed under seq. A fire whose seq no longer
// matches lost a race to a cancel or newer arm and is dropped.
func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.armSeq {
		c.mu.Unlock()
		return
	}
	c.cancel = nil

	next := c.index + 1
	switch {
	case next < len(c.chunks)-1:
		c.index = next
		c.armLocked()
	case next == len(c.chunks)-1:
		// Natural completion: entering the last chunk ends the pacing
		// phase. No further timer is armed.
		c.index = next
		c.displaying = false
		c.cancelLocked()
	default:
		// Defensive: a timer should never be armed at the last index,
		// but treat it as terminal rather than wrapping.
		c.displaying = false
		c.cancelLocked()
	}
	c.emitAndUnlock()
}

// emitAndUnlock snapshots under the lock, releases it, then notifies.
// Callbacks run outside the lock so they may re-enter the controller.
func (c *Controller) emitAndUnlock() {
	snap := c.snapshotLocked()
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(snap)
	}
}
