package bridge

import (
	"fmt"

	"switchbridge/pkg/switchbot"
)

// remoteStrategy is the base for write-only IR remotes: lights, air
// purifiers, water heaters, vacuums, projectors and the rest of the
// on/off family. There is no cloud status to poll; local state is the
// only record.
type remoteStrategy struct {
	kind string
}

// NewRemote builds an on/off strategy for an IR remote kind.
func NewRemote(kind string) Strategy { return &remoteStrategy{kind: kind} }

func (r *remoteStrategy) Kind() string   { return r.kind }
func (r *remoteStrategy) Pollable() bool { return false }

func (r *remoteStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharActive}
}

func (r *remoteStrategy) Settable() []Characteristic {
	return []Characteristic{CharActive}
}

func (r *remoteStrategy) InitialState() State { return State{} }

func (r *remoteStrategy) MapStatus(prev State, _ *switchbot.Status, _ bool) State {
	return prev
}

func (r *remoteStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	if name != CharActive {
		return SetResult{}, ErrNotSettable
	}
	v, ok := asNumber(value)
	if !ok {
		return SetResult{}, fmt.Errorf("Active: expected number, got %T", value)
	}
	s.Active = int(v)
	if s.Active == Active {
		s.Remote = deviceCommand("turnOn")
	} else {
		s.Remote = deviceCommand("turnOff")
	}
	return SetResult{Push: true}, nil
}

func (r *remoteStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	cmd := s.Remote
	next := s
	next.Remote = nil
	return cmd, next, nil
}

func (r *remoteStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharActive, s.Active)
}

// tvStrategy extends the on/off remote with channel and volume keys for
// the media family (TV, set-top box, IPTV, DVD, speaker).
type tvStrategy struct {
	remoteStrategy
}

func NewTV(kind string) Strategy {
	return &tvStrategy{remoteStrategy{kind: kind}}
}

func (t *tvStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharActive}
}

func (t *tvStrategy) Settable() []Characteristic {
	return []Characteristic{CharActive, CharRemoteKey, CharVolumeSelector}
}

func (t *tvStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	switch name {
	case CharActive:
		return t.remoteStrategy.Set(s, name, value)
	case CharRemoteKey:
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("RemoteKey: expected number, got %T", value)
		}
		switch int(v) {
		case RemoteKeyUp:
			s.Remote = deviceCommand("channelAdd")
		case RemoteKeyDown:
			s.Remote = deviceCommand("channelSub")
		default:
			// Other keys have no vendor equivalent.
			return SetResult{}, nil
		}
		return SetResult{Push: true}, nil
	case CharVolumeSelector:
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("VolumeSelector: expected number, got %T", value)
		}
		if int(v) == VolumeIncrement {
			s.Remote = deviceCommand("volumeAdd")
		} else {
			s.Remote = deviceCommand("volumeSub")
		}
		return SetResult{Push: true}, nil
	default:
		return SetResult{}, ErrNotSettable
	}
}
