package bridge

import (
	"fmt"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// irFanStrategy drives an IR fan remote. Rotation speed and swing are
// opt-in per device id, since not every fan remote carries those keys.
type irFanStrategy struct {
	remoteStrategy
	speed    bool
	swing    bool
	minSpeed int
	maxSpeed int
	stepSize int
}

func NewIRFan(deviceID string, opts *config.Options) Strategy {
	f := &irFanStrategy{
		remoteStrategy: remoteStrategy{kind: switchbot.RemoteFan},
		minSpeed:       opts.Fan.SetMin,
		maxSpeed:       opts.Fan.SetMax,
		stepSize:       opts.Fan.SetMinStep,
	}
	if f.maxSpeed <= 0 {
		f.maxSpeed = 100
	}
	if f.stepSize <= 0 {
		f.stepSize = 1
	}
	for _, id := range opts.Fan.RotationSpeed {
		if id == deviceID {
			f.speed = true
		}
	}
	for _, id := range opts.Fan.SwingMode {
		if id == deviceID {
			f.swing = true
		}
	}
	return f
}

func (f *irFanStrategy) Characteristics() []Characteristic {
	chars := []Characteristic{CharActive}
	if f.speed {
		chars = append(chars, CharRotationSpeed)
	}
	if f.swing {
		chars = append(chars, CharSwingMode)
	}
	return chars
}

func (f *irFanStrategy) Settable() []Characteristic {
	return f.Characteristics()
}

func (f *irFanStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	switch name {
	case CharActive:
		return f.remoteStrategy.Set(s, name, value)
	case CharRotationSpeed:
		if !f.speed {
			return SetResult{}, ErrNotSettable
		}
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("RotationSpeed: expected number, got %T", value)
		}
		// The remote only has discrete speed keys, so the slider maps
		// to a step up or down from the last known value.
		speed := f.snapSpeed(int(v))
		if speed > s.RotationSpeed {
			s.Remote = deviceCommand("highSpeed")
		} else {
			s.Remote = deviceCommand("lowSpeed")
		}
		s.RotationSpeed = speed
		return SetResult{Push: true}, nil
	case CharSwingMode:
		if !f.swing {
			return SetResult{}, ErrNotSettable
		}
		v, ok := asNumber(value)
		if !ok {
			return SetResult{}, fmt.Errorf("SwingMode: expected number, got %T", value)
		}
		s.SwingMode = int(v)
		s.Remote = deviceCommand("swing")
		return SetResult{Push: true}, nil
	default:
		return SetResult{}, ErrNotSettable
	}
}

// snapSpeed clamps a requested speed to the configured slider range and
// rounds it to the nearest step.
func (f *irFanStrategy) snapSpeed(v int) int {
	if f.stepSize > 1 {
		v = ((v + f.stepSize/2) / f.stepSize) * f.stepSize
	}
	if v < f.minSpeed {
		return f.minSpeed
	}
	if v > f.maxSpeed {
		return f.maxSpeed
	}
	return v
}

func (f *irFanStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharActive, s.Active)
	if f.speed {
		sink.Update(CharRotationSpeed, s.RotationSpeed)
	}
	if f.swing {
		sink.Update(CharSwingMode, s.SwingMode)
	}
}
