package bridge

import (
	"errors"

	"switchbridge/pkg/switchbot"
)

var (
	// ErrNotSettable is returned when a set targets a characteristic the
	// device kind does not accept writes for.
	ErrNotSettable = errors.New("characteristic not settable")
	// ErrMisconfigured is returned by command builders that cannot form a
	// vendor command because required configuration is missing. No network
	// call is made in that case.
	ErrMisconfigured = errors.New("device misconfigured")
)

// DeviceInfo identifies one bridged device.
type DeviceInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	HubID  string `json:"hub_id,omitempty"`
	Remote bool   `json:"remote"`
}

// SetResult tells the controller what to do after a user set has been
// applied to local state.
type SetResult struct {
	// Push enqueues a debounced push of the current desired state.
	Push bool
	// Pending, when non-nil, updates the controller's pending-target flag.
	// Curtains raise it on a position write and rely on the controller's
	// timeout to clear it.
	Pending *bool
}

// Strategy carries the per-kind behavior of a controller: how raw vendor
// status becomes characteristic state, and how characteristic writes become
// vendor commands. Implementations are pure; all locking and I/O live in
// the controller.
type Strategy interface {
	// Kind returns the vendor device type the strategy handles.
	Kind() string

	// Pollable reports whether the device has cloud status to poll.
	// IR remotes are write-only and return false.
	Pollable() bool

	// Characteristics lists every characteristic the kind exposes, in
	// render order. Fault fan-out covers exactly this set.
	Characteristics() []Characteristic

	// Settable lists the subset of Characteristics that accept writes.
	Settable() []Characteristic

	// InitialState is the state a controller starts from before the
	// first successful refresh.
	InitialState() State

	// MapStatus folds a raw vendor status into the previous state.
	// pending is true while a user-set target is awaiting reconciliation.
	// A nil status means the poll returned no body.
	MapStatus(prev State, raw *switchbot.Status, pending bool) State

	// Set applies one characteristic write to state.
	Set(s *State, name Characteristic, value any) (SetResult, error)

	// BuildCommand derives the vendor command for the current desired
	// state and the state to commit once the command is handed off.
	// A nil command with a nil error means there is nothing to push.
	BuildCommand(s State) (*switchbot.Command, State, error)

	// Render publishes the state to the sink.
	Render(s State, sink CharacteristicSink)
}

// asBool coerces a JSON-decoded set value to bool.
func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// asNumber coerces a JSON-decoded set value to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
