package bridge

import (
	"fmt"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// Vendor AC modes for the setAll parameter.
const (
	acModeAuto = 1
	acModeCool = 2
	acModeHeat = 5

	acDefaultTemperature = 24
	acDefaultMode        = acModeAuto
	acDefaultFanSpeed    = 1
)

// airConStrategy drives an IR air conditioner. Every push sends the full
// setAll tuple, so the strategy keeps the whole desired state locally and
// rebuilds the parameter from it.
type airConStrategy struct {
	hideAuto bool
}

func NewAirCon(opts *config.Options) Strategy {
	return &airConStrategy{hideAuto: opts.IRAir.HideAutoMode}
}

func (a *airConStrategy) Kind() string   { return switchbot.RemoteAirConditioner }
func (a *airConStrategy) Pollable() bool { return false }

func (a *airConStrategy) Characteristics() []Characteristic {
	return []Characteristic{
		CharActive,
		CharCurrentTemperature,
		CharTargetHeaterCoolerState,
		CharCurrentHeaterCoolerState,
		CharHeatingThreshold,
		CharCoolingThreshold,
	}
}

func (a *airConStrategy) Settable() []Characteristic {
	return []Characteristic{
		CharActive,
		CharTargetHeaterCoolerState,
		CharHeatingThreshold,
		CharCoolingThreshold,
	}
}

func (a *airConStrategy) InitialState() State {
	return State{
		TargetTemperature: acDefaultTemperature,
		LastTemperature:   acDefaultTemperature,
		ACMode:            acDefaultMode,
		ACFanSpeed:        acDefaultFanSpeed,
	}
}

func (a *airConStrategy) MapStatus(prev State, _ *switchbot.Status, _ bool) State {
	return prev
}

func (a *airConStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	v, ok := asNumber(value)
	if !ok {
		return SetResult{}, fmt.Errorf("%s: expected number, got %T", name, value)
	}
	switch name {
	case CharActive:
		s.Active = int(v)
	case CharTargetHeaterCoolerState:
		s.TargetHeaterCoolerState = int(v)
		switch int(v) {
		case TargetStateHeat:
			s.ACMode = acModeHeat
		case TargetStateCool:
			s.ACMode = acModeCool
		default:
			if a.hideAuto {
				return SetResult{}, fmt.Errorf("TargetHeaterCoolerState: auto mode is disabled")
			}
			s.ACMode = acModeAuto
		}
	case CharHeatingThreshold, CharCoolingThreshold:
		s.LastTemperature = s.TargetTemperature
		s.TargetTemperature = v
	default:
		return SetResult{}, ErrNotSettable
	}
	a.deriveCurrent(s)
	return SetResult{Push: true}, nil
}

// deriveCurrent infers the running state from the temperature trend, since
// an IR unit never reports back.
func (a *airConStrategy) deriveCurrent(s *State) {
	if s.Active != Active {
		s.CurrentHeaterCoolerState = HeaterCoolerInactive
		return
	}
	if s.TargetTemperature < s.LastTemperature {
		s.CurrentHeaterCoolerState = HeaterCoolerCooling
	} else {
		s.CurrentHeaterCoolerState = HeaterCoolerHeating
	}
}

func (a *airConStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	power := "off"
	if s.Active == Active {
		power = "on"
	}
	temp := int(s.TargetTemperature)
	if temp == 0 {
		temp = acDefaultTemperature
	}
	mode := s.ACMode
	if mode == 0 {
		mode = acDefaultMode
	}
	fan := s.ACFanSpeed
	if fan == 0 {
		fan = acDefaultFanSpeed
	}
	return &switchbot.Command{
		CommandType: switchbot.CommandTypeCommand,
		Command:     "setAll",
		Parameter:   fmt.Sprintf("%d,%d,%d,%s", temp, mode, fan, power),
	}, s, nil
}

func (a *airConStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharActive, s.Active)
	sink.Update(CharCurrentTemperature, s.TargetTemperature)
	sink.Update(CharTargetHeaterCoolerState, s.TargetHeaterCoolerState)
	sink.Update(CharCurrentHeaterCoolerState, s.CurrentHeaterCoolerState)
	sink.Update(CharHeatingThreshold, s.TargetTemperature)
	sink.Update(CharCoolingThreshold, s.TargetTemperature)
}
