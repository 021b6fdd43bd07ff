package bridge

import (
	"fmt"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// otherStrategy drives an "Others" IR remote: a learned device with no
// vendor command set. The on and off payloads come from configuration and
// go out on the customize channel.
type otherStrategy struct {
	deviceID   string
	commandOn  string
	commandOff string
}

func NewOther(deviceID string, opts *config.Options) Strategy {
	return &otherStrategy{
		deviceID:   deviceID,
		commandOn:  opts.Other.CommandOn,
		commandOff: opts.Other.CommandOff,
	}
}

func (o *otherStrategy) Kind() string   { return switchbot.RemoteOthers }
func (o *otherStrategy) Pollable() bool { return false }

func (o *otherStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharActive}
}

func (o *otherStrategy) Settable() []Characteristic {
	return []Characteristic{CharActive}
}

func (o *otherStrategy) InitialState() State { return State{} }

func (o *otherStrategy) MapStatus(prev State, _ *switchbot.Status, _ bool) State {
	return prev
}

func (o *otherStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	if name != CharActive {
		return SetResult{}, ErrNotSettable
	}
	v, ok := asNumber(value)
	if !ok {
		return SetResult{}, fmt.Errorf("Active: expected number, got %T", value)
	}
	s.Active = int(v)
	return SetResult{Push: true}, nil
}

func (o *otherStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	name := o.commandOff
	if s.Active == Active {
		name = o.commandOn
	}
	if name == "" {
		return nil, s, fmt.Errorf("other %s: %w: commandOn/commandOff not configured",
			o.deviceID, ErrMisconfigured)
	}
	return &switchbot.Command{
		CommandType: switchbot.CommandTypeCustomize,
		Command:     name,
		Parameter:   "default",
	}, s, nil
}

func (o *otherStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharActive, s.Active)
}
