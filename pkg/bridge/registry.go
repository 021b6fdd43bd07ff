package bridge

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// airConDebounce is the wider quiet window for air conditioners: the
// setAll tuple changes several characteristics per user gesture, so the
// burst is longer than a plain switch toggle.
const airConDebounce = 1500 * time.Millisecond

// Vendor is the discovery-capable slice of the vendor client.
type Vendor interface {
	API
	Devices(ctx context.Context) ([]switchbot.Device, []switchbot.IRDevice, error)
}

// Entry pairs a controller with its sink.
type Entry struct {
	Controller *Controller
	Sink       *MemorySink
}

// Registry owns every controller built from discovery.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Discover fetches the device lists and builds a controller per supported
// device. Hidden devices, hub hardware, and non-master members of curtain
// groups are skipped.
func (r *Registry) Discover(ctx context.Context, cfg *config.Config, vendor Vendor, recorder Recorder) error {
	devices, remotes, err := vendor.Devices(ctx)
	if err != nil {
		return fmt.Errorf("device discovery: %w", err)
	}

	if cfg.DeviceDiscovery {
		for _, d := range devices {
			log.Info().
				Str("device", d.DeviceID).
				Str("name", d.DeviceName).
				Str("kind", d.DeviceType).
				Msg("discovered device")
		}
		for _, d := range remotes {
			log.Info().
				Str("device", d.DeviceID).
				Str("name", d.DeviceName).
				Str("kind", d.RemoteType).
				Msg("discovered remote")
		}
	}

	opts := &cfg.Options
	for _, d := range devices {
		if opts.HasHiddenDevice(d.DeviceID) {
			continue
		}
		if !d.EnableCloudService {
			log.Debug().
				Str("device", d.DeviceID).
				Str("kind", d.DeviceType).
				Msg("cloud service disabled, skipping")
			continue
		}
		strategy, ok := strategyForDevice(d, opts)
		if !ok {
			log.Debug().
				Str("device", d.DeviceID).
				Str("kind", d.DeviceType).
				Msg("unsupported device kind")
			continue
		}
		info := DeviceInfo{
			ID:    d.DeviceID,
			Name:  d.DeviceName,
			Kind:  d.DeviceType,
			HubID: d.HubDeviceID,
		}
		r.add(info, strategy, vendor, opts, recorder)
	}

	for _, d := range remotes {
		if opts.HasHiddenDevice(d.DeviceID) {
			continue
		}
		strategy, ok := strategyForRemote(d, opts)
		if !ok {
			log.Debug().
				Str("device", d.DeviceID).
				Str("kind", d.RemoteType).
				Msg("unsupported remote kind")
			continue
		}
		info := DeviceInfo{
			ID:     d.DeviceID,
			Name:   d.DeviceName,
			Kind:   d.RemoteType,
			HubID:  d.HubDeviceID,
			Remote: true,
		}
		r.add(info, strategy, vendor, opts, recorder)
	}

	return nil
}

func strategyForDevice(d switchbot.Device, opts *config.Options) (Strategy, bool) {
	switch d.DeviceType {
	case switchbot.KindBot:
		return NewBot(d.DeviceID, opts), true
	case switchbot.KindPlug:
		return NewPlug(), true
	case switchbot.KindCurtain:
		// Grouped curtains move together; only the master gets a
		// controller unless grouping is disabled.
		if d.Group && !d.Master && !opts.Curtain.DisableGroup {
			return nil, false
		}
		return NewCurtain(opts), true
	case switchbot.KindMeter:
		return NewMeter(opts), true
	case switchbot.KindHumidifier:
		return NewHumidifier(opts), true
	case switchbot.KindContact:
		return NewContact(), true
	case switchbot.KindMotion:
		return NewMotion(), true
	default:
		return nil, false
	}
}

func strategyForRemote(d switchbot.IRDevice, opts *config.Options) (Strategy, bool) {
	switch d.RemoteType {
	case switchbot.RemoteTV, switchbot.RemoteSetTopBox, switchbot.RemoteIPTV,
		switchbot.RemoteDVD, switchbot.RemoteSpeaker, switchbot.RemoteProjector:
		return NewTV(d.RemoteType), true
	case switchbot.RemoteFan:
		return NewIRFan(d.DeviceID, opts), true
	case switchbot.RemoteAirConditioner:
		return NewAirCon(opts), true
	case switchbot.RemoteLight, switchbot.RemoteAirPurifier,
		switchbot.RemoteWaterHeater, switchbot.RemoteVacuumCleaner:
		return NewRemote(d.RemoteType), true
	case switchbot.RemoteOthers:
		return NewOther(d.DeviceID, opts), true
	default:
		return nil, false
	}
}

func (r *Registry) add(info DeviceInfo, strategy Strategy, api API, opts *config.Options, recorder Recorder) {
	sink := NewMemorySink()

	debounce := opts.PushDebounce()
	if info.Kind == switchbot.RemoteAirConditioner {
		debounce = airConDebounce
	}

	cc := ControllerConfig{
		Info:     info,
		API:      api,
		Strategy: strategy,
		Sink:     sink,
		Recorder: recorder,
		Debounce: debounce,
	}
	if strategy.Pollable() {
		cc.Refresh = opts.RefreshInterval()
	}
	if info.Kind == switchbot.KindCurtain {
		cc.FastRefresh = opts.CurtainRefreshInterval()
	}

	r.mu.Lock()
	r.entries[info.ID] = &Entry{Controller: NewController(cc), Sink: sink}
	r.mu.Unlock()

	log.Info().
		Str("device", info.ID).
		Str("name", info.Name).
		Str("kind", info.Kind).
		Msg("registered controller")
}

// StartAll launches every controller. The context bounds the initial
// refreshes only.
func (r *Registry) StartAll(ctx context.Context) {
	for _, e := range r.List() {
		e.Controller.Start(ctx)
	}
}

// Close stops every controller.
func (r *Registry) Close() {
	for _, e := range r.List() {
		e.Controller.Close()
	}
}

// Get returns the entry for one device id.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// List returns all entries ordered by device id.
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Controller.Info().ID < out[j].Controller.Info().ID
	})
	return out
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
