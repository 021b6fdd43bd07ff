package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"switchbridge/pkg/bridge"
)

const recorderTimeout = 5 * time.Second

// StateRecorder adapts the device cache to the controller's Recorder hook:
// every render persists the device's state JSON and bumps last_seen.
type StateRecorder struct {
	devices DeviceStore
}

// NewStateRecorder builds a recorder over this store.
func (s *Store) NewStateRecorder() *StateRecorder {
	return &StateRecorder{devices: s.Devices()}
}

// CacheRoster upserts the discovered devices so later SaveState calls have
// rows to update. Call it before controllers start rendering.
func (r *StateRecorder) CacheRoster(ctx context.Context, infos []bridge.DeviceInfo) error {
	for _, info := range infos {
		err := r.devices.Upsert(ctx, &Device{
			ID:     info.ID,
			Name:   info.Name,
			Kind:   info.Kind,
			HubID:  info.HubID,
			Remote: info.Remote,
		})
		if err != nil {
			return fmt.Errorf("cache device %s: %w", info.ID, err)
		}
	}
	return nil
}

// LoadStates reads every persisted state row back, keyed by device id.
// Devices that never rendered (state still the empty object) are omitted.
func (r *StateRecorder) LoadStates(ctx context.Context) (map[string]bridge.State, error) {
	cached, err := r.devices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached states: %w", err)
	}
	states := make(map[string]bridge.State, len(cached))
	for _, d := range cached {
		if d.State == "" || d.State == "{}" {
			continue
		}
		var s bridge.State
		if err := json.Unmarshal([]byte(d.State), &s); err != nil {
			return nil, fmt.Errorf("decode cached state for %s: %w", d.ID, err)
		}
		states[d.ID] = s
	}
	return states, nil
}

// SaveState implements bridge.Recorder.
func (r *StateRecorder) SaveState(deviceID string, state bridge.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
	defer cancel()
	return r.devices.SaveState(ctx, deviceID, string(raw))
}
