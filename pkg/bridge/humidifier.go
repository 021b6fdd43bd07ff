package bridge

import (
	"fmt"
	"strconv"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// humidifierStrategy drives a smart humidifier. Writes queue a discrete
// command in the Remote slot; a later edit within the debounce window
// replaces it.
type humidifierStrategy struct {
	hideTemp bool
}

func NewHumidifier(opts *config.Options) Strategy {
	return &humidifierStrategy{hideTemp: opts.Humidifier.HideTemperature}
}

func (h *humidifierStrategy) Kind() string   { return switchbot.KindHumidifier }
func (h *humidifierStrategy) Pollable() bool { return true }

func (h *humidifierStrategy) Characteristics() []Characteristic {
	chars := []Characteristic{
		CharActive,
		CharCurrentRelativeHumidity,
		CharTargetHumidifierState,
		CharCurrentHumidifierState,
		CharHumidityThreshold,
		CharWaterLevel,
	}
	if !h.hideTemp {
		chars = append(chars, CharCurrentTemperature)
	}
	return chars
}

func (h *humidifierStrategy) Settable() []Characteristic {
	return []Characteristic{CharActive, CharTargetHumidifierState, CharHumidityThreshold}
}

func (h *humidifierStrategy) InitialState() State {
	return State{
		TargetHumidifierState: TargetHumidifierHumidify,
		WaterLevel:            100,
	}
}

func (h *humidifierStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	if raw == nil {
		return s
	}
	s.CurrentHumidity = raw.Humidity
	s.HumidityThreshold = raw.NebulizationEfficiency
	s.HumidifierAuto = raw.Auto
	// The cloud API does not report tank level.
	s.WaterLevel = 100
	if raw.Power == "on" {
		s.Active = Active
		s.CurrentHumidifierState = HumidifierStateHumidifying
	} else {
		s.Active = Inactive
		s.CurrentHumidifierState = HumidifierStateInactive
	}
	if raw.Auto {
		s.TargetHumidifierState = TargetHumidifierAuto
	} else {
		s.TargetHumidifierState = TargetHumidifierHumidify
	}
	if !h.hideTemp {
		s.CurrentTemperature = raw.Temperature
	}
	return s
}

func (h *humidifierStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	switch name {
	case CharActive:
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("Active: expected number, got %T", value)
		}
		s.Active = int(v)
		if s.Active == Active {
			s.Remote = deviceCommand("turnOn")
			s.CurrentHumidifierState = HumidifierStateHumidifying
		} else {
			s.Remote = deviceCommand("turnOff")
			s.CurrentHumidifierState = HumidifierStateInactive
		}
	case CharTargetHumidifierState:
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("TargetHumidifierDehumidifierState: expected number, got %T", value)
		}
		s.TargetHumidifierState = int(v)
		if s.TargetHumidifierState == TargetHumidifierAuto {
			s.HumidifierAuto = true
			s.Remote = modeCommand("auto")
		} else {
			s.HumidifierAuto = false
			s.Remote = modeCommand(strconv.Itoa(int(s.HumidityThreshold)))
		}
	case CharHumidityThreshold:
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("RelativeHumidityHumidifierThreshold: expected number, got %T", value)
		}
		s.HumidityThreshold = v
		s.HumidifierAuto = false
		s.TargetHumidifierState = TargetHumidifierHumidify
		s.Remote = modeCommand(strconv.Itoa(int(v)))
	default:
		return SetResult{}, ErrNotSettable
	}
	return SetResult{Push: true}, nil
}

func (h *humidifierStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	cmd := s.Remote
	next := s
	next.Remote = nil
	return cmd, next, nil
}

func (h *humidifierStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharActive, s.Active)
	sink.Update(CharCurrentRelativeHumidity, s.CurrentHumidity)
	sink.Update(CharTargetHumidifierState, s.TargetHumidifierState)
	sink.Update(CharCurrentHumidifierState, s.CurrentHumidifierState)
	sink.Update(CharHumidityThreshold, s.HumidityThreshold)
	sink.Update(CharWaterLevel, s.WaterLevel)
	if !h.hideTemp {
		sink.Update(CharCurrentTemperature, s.CurrentTemperature)
	}
}

func modeCommand(parameter string) *switchbot.Command {
	return &switchbot.Command{
		CommandType: switchbot.CommandTypeCommand,
		Command:     "setMode",
		Parameter:   parameter,
	}
}
