package bridge

import (
	"fmt"

	"switchbridge/pkg/switchbot"
)

// plugStrategy drives a smart plug: a plain on/off switch with an
// outlet-in-use marker.
type plugStrategy struct{}

func NewPlug() Strategy { return plugStrategy{} }

func (plugStrategy) Kind() string   { return switchbot.KindPlug }
func (plugStrategy) Pollable() bool { return true }

func (plugStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharOn, CharOutletInUse}
}

func (plugStrategy) Settable() []Characteristic { return []Characteristic{CharOn} }

func (plugStrategy) InitialState() State { return State{OutletInUse: true} }

func (plugStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	if raw != nil {
		s.On = raw.Power == "on"
	}
	s.OutletInUse = true
	return s
}

func (plugStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	if name != CharOn {
		return SetResult{}, ErrNotSettable
	}
	v, ok := asBool(value)
	if !ok {
		return SetResult{}, fmt.Errorf("On: expected bool, got %T", value)
	}
	s.On = v
	return SetResult{Push: true}, nil
}

func (plugStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	if s.On {
		return deviceCommand("turnOn"), s, nil
	}
	return deviceCommand("turnOff"), s, nil
}

func (plugStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharOn, s.On)
	sink.Update(CharOutletInUse, s.OutletInUse)
}
