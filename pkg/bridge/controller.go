package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"switchbridge/pkg/switchbot"
)

// API is the slice of the vendor client a controller needs. *switchbot.Client
// satisfies it; tests substitute a stub.
type API interface {
	Status(ctx context.Context, deviceID string) (*switchbot.Status, error)
	SendCommand(ctx context.Context, deviceID string, cmd *switchbot.Command) (*switchbot.CommandAck, error)
}

// Recorder persists controller state snapshots. Optional.
type Recorder interface {
	SaveState(deviceID string, state State) error
}

const (
	defaultPendingTimeout = 10 * time.Second
	pushTimeout           = 30 * time.Second
)

// ControllerConfig assembles one controller.
type ControllerConfig struct {
	Info     DeviceInfo
	API      API
	Strategy Strategy
	Sink     CharacteristicSink
	Recorder Recorder

	// Refresh is the poll period. Ignored for non-pollable kinds.
	Refresh time.Duration
	// FastRefresh, when set on a pollable kind, adds a secondary poll
	// that only runs while the device is mid-motion or a user target is
	// pending. Curtains use it to track the slide.
	FastRefresh time.Duration
	// Debounce is the quiet window between the last user edit and the
	// push. Zero pushes immediately.
	Debounce time.Duration
	// PendingTimeout bounds how long a user-set target suppresses
	// poll-driven target overwrites. Defaults to 10s.
	PendingTimeout time.Duration
}

// Controller owns one bridged device: it polls vendor status into
// characteristic state and pushes debounced user edits back out. All
// kind-specific behavior lives in the Strategy.
type Controller struct {
	info     DeviceInfo
	api      API
	strategy Strategy
	sink     CharacteristicSink
	recorder Recorder

	refresh        time.Duration
	fastRefresh    time.Duration
	pendingTimeout time.Duration

	mu           sync.Mutex
	state        State
	pending      bool
	pendingTimer *time.Timer

	// inFlight is set for the duration of a refresh or push network
	// cycle so poll ticks can be skipped rather than queued behind it.
	inFlight atomic.Bool

	deb      *debouncer
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		info:           cfg.Info,
		api:            cfg.API,
		strategy:       cfg.Strategy,
		sink:           cfg.Sink,
		recorder:       cfg.Recorder,
		refresh:        cfg.Refresh,
		fastRefresh:    cfg.FastRefresh,
		pendingTimeout: cfg.PendingTimeout,
		stopChan:       make(chan struct{}),
	}
	if c.pendingTimeout <= 0 {
		c.pendingTimeout = defaultPendingTimeout
	}
	c.state = c.strategy.InitialState()
	c.deb = newDebouncer(cfg.Debounce, c.push)
	return c
}

func (c *Controller) Info() DeviceInfo { return c.info }

// State returns a copy of the current characteristic state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settable lists the characteristics that accept writes.
func (c *Controller) Settable() []Characteristic {
	return c.strategy.Settable()
}

// SetSchema returns the JSON Schema accepting this device's set payloads.
func (c *Controller) SetSchema() map[string]any {
	return SetSchema(c.strategy.Settable())
}

// Seed replaces the starting state with a previously persisted one and
// renders it, so a restart surfaces last-known values before the first
// poll completes. Call before Start.
func (c *Controller) Seed(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.renderLocked()
}

// Start performs the initial refresh, renders the starting state, and
// launches the poll loops. The context bounds the initial refresh only.
func (c *Controller) Start(ctx context.Context) {
	if c.strategy.Pollable() {
		if err := c.Refresh(ctx); err != nil {
			log.Warn().Err(err).
				Str("device", c.info.ID).
				Str("kind", c.info.Kind).
				Msg("initial refresh failed")
		}
	} else {
		c.mu.Lock()
		c.renderLocked()
		c.mu.Unlock()
	}

	if c.strategy.Pollable() && c.refresh > 0 {
		c.wg.Add(1)
		go c.pollLoop()
	}
	if c.strategy.Pollable() && c.fastRefresh > 0 {
		c.wg.Add(1)
		go c.fastPollLoop()
	}
}

// Close stops the poll loops and cancels any armed timers.
func (c *Controller) Close() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.deb.Stop()
	c.mu.Lock()
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) pollLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			if c.inFlight.Load() {
				continue
			}
			if err := c.Refresh(context.Background()); err != nil {
				log.Warn().Err(err).
					Str("device", c.info.ID).
					Str("kind", c.info.Kind).
					Msg("refresh failed")
			}
		}
	}
}

// fastPollLoop polls on the short period, but only while there is motion
// to track.
func (c *Controller) fastPollLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.fastRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			if c.inFlight.Load() || !c.moving() {
				continue
			}
			if err := c.Refresh(context.Background()); err != nil {
				log.Warn().Err(err).
					Str("device", c.info.ID).
					Msg("fast refresh failed")
			}
		}
	}
}

func (c *Controller) moving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending || c.state.PositionState != PositionStopped
}

// Refresh fetches vendor status and folds it into characteristic state.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.strategy.Pollable() {
		return nil
	}
	c.inFlight.Store(true)
	defer c.inFlight.Store(false)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Controller) refreshLocked(ctx context.Context) error {
	raw, err := c.api.Status(ctx, c.info.ID)
	if err != nil {
		c.faultAllLocked()
		return err
	}
	c.state = c.strategy.MapStatus(c.state, raw, c.pending)
	c.renderLocked()
	return nil
}

// Set applies one characteristic write. The local state updates and renders
// immediately; the vendor push is debounced.
func (c *Controller) Set(name Characteristic, value any) error {
	c.mu.Lock()
	res, err := c.strategy.Set(&c.state, name, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if res.Pending != nil {
		c.setPendingLocked(*res.Pending)
	}
	c.renderLocked()
	c.mu.Unlock()

	log.Debug().
		Str("device", c.info.ID).
		Str("kind", c.info.Kind).
		Str("characteristic", string(name)).
		Interface("value", value).
		Msg("characteristic set")

	if res.Push {
		c.deb.Trigger()
	}
	return nil
}

// setPendingLocked raises or clears the pending-target flag. Raising it
// arms a timeout so a command the vendor silently drops cannot suppress
// poll reconciliation forever.
func (c *Controller) setPendingLocked(pending bool) {
	c.pending = pending
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	if pending {
		c.pendingTimer = time.AfterFunc(c.pendingTimeout, func() {
			c.mu.Lock()
			c.pending = false
			c.pendingTimer = nil
			c.mu.Unlock()
		})
	}
}

// push builds and sends the vendor command for the current desired state.
// It runs off the debounce timer; the controller mutex serializes it
// against refreshes, so a push landing mid-cycle waits its turn instead
// of interleaving.
func (c *Controller) push() {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	c.inFlight.Store(true)
	defer c.inFlight.Store(false)
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, next, err := c.strategy.BuildCommand(c.state)
	if err != nil {
		log.Error().Err(err).
			Str("device", c.info.ID).
			Str("kind", c.info.Kind).
			Msg("cannot build command")
		return
	}
	c.state = next
	c.renderLocked()
	if cmd == nil {
		log.Debug().
			Str("device", c.info.ID).
			Msg("no changes to push")
		return
	}

	ack, err := c.api.SendCommand(ctx, c.info.ID, cmd)
	if err != nil {
		log.Warn().Err(err).
			Str("device", c.info.ID).
			Str("command", cmd.Command).
			Msg("push failed")
		c.faultAllLocked()
		return
	}
	if err := switchbot.ClassifyAck(ack); err != nil {
		log.Warn().Err(err).
			Str("device", c.info.ID).
			Str("command", cmd.Command).
			Msg("device rejected command")
		c.faultAllLocked()
		return
	}

	log.Debug().
		Str("device", c.info.ID).
		Str("command", cmd.Command).
		Str("parameter", cmd.Parameter).
		Msg("command pushed")

	// Reconcile against the device's actual resulting state.
	if c.strategy.Pollable() {
		if err := c.refreshLocked(ctx); err != nil {
			log.Warn().Err(err).
				Str("device", c.info.ID).
				Msg("post-push refresh failed")
		}
	}
}

func (c *Controller) renderLocked() {
	c.strategy.Render(c.state, c.sink)
	if c.recorder != nil {
		if err := c.recorder.SaveState(c.info.ID, c.state); err != nil {
			log.Warn().Err(err).
				Str("device", c.info.ID).
				Msg("failed to persist state")
		}
	}
}

// faultAllLocked marks every characteristic of the kind unreadable. The
// next successful render clears them.
func (c *Controller) faultAllLocked() {
	for _, ch := range c.strategy.Characteristics() {
		c.sink.Fault(ch)
	}
}
