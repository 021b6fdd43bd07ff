package bridge

import (
	"fmt"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// Bot modes resolved from configuration.
const (
	botModeSwitch = "switch"
	botModePress  = "press"
)

// botStrategy drives a Bot. The mode decides whether the Bot behaves as a
// stateful switch or a stateless pusher; an unlisted Bot cannot build
// commands at all.
type botStrategy struct {
	deviceID string
	mode     string
}

// NewBot resolves the Bot's mode from the device_switch / device_press
// lists.
func NewBot(deviceID string, opts *config.Options) Strategy {
	mode := ""
	for _, id := range opts.Bot.DeviceSwitch {
		if id == deviceID {
			mode = botModeSwitch
		}
	}
	for _, id := range opts.Bot.DevicePress {
		if id == deviceID {
			mode = botModePress
		}
	}
	return &botStrategy{deviceID: deviceID, mode: mode}
}

func (b *botStrategy) Kind() string                    { return switchbot.KindBot }
func (b *botStrategy) Pollable() bool                  { return true }
func (b *botStrategy) Characteristics() []Characteristic { return []Characteristic{CharOn} }
func (b *botStrategy) Settable() []Characteristic        { return []Characteristic{CharOn} }
func (b *botStrategy) InitialState() State               { return State{} }

func (b *botStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	// Only switch mode tracks the arm position; press mode is stateless.
	if raw != nil && b.mode == botModeSwitch {
		s.On = raw.Power == "on"
	}
	return s
}

func (b *botStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
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

func (b *botStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	switch b.mode {
	case botModeSwitch:
		if s.On {
			return deviceCommand("turnOn"), s, nil
		}
		return deviceCommand("turnOff"), s, nil
	case botModePress:
		// A press is momentary; the switch snaps back off locally.
		next := s
		next.On = false
		return deviceCommand("press"), next, nil
	default:
		return nil, s, fmt.Errorf("bot %s: %w: not listed in device_switch or device_press",
			b.deviceID, ErrMisconfigured)
	}
}

func (b *botStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharOn, s.On)
}

// deviceCommand builds a plain vendor command with the default parameter.
func deviceCommand(name string) *switchbot.Command {
	return &switchbot.Command{
		CommandType: switchbot.CommandTypeCommand,
		Command:     name,
		Parameter:   "default",
	}
}
