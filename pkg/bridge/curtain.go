package bridge

import (
	"fmt"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// curtainStrategy drives a curtain motor. The vendor reports slide position
// as "percent closed"; the accessory surface wants "percent open", so every
// mapping pass inverts and then snaps against the configured travel limits.
type curtainStrategy struct {
	setMin int
	setMax int
}

func NewCurtain(opts *config.Options) Strategy {
	return &curtainStrategy{
		setMin: opts.Curtain.SetMin,
		setMax: opts.Curtain.SetMax,
	}
}

func (c *curtainStrategy) Kind() string   { return switchbot.KindCurtain }
func (c *curtainStrategy) Pollable() bool { return true }

func (c *curtainStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharCurrentPosition, CharTargetPosition, CharPositionState}
}

func (c *curtainStrategy) Settable() []Characteristic {
	return []Characteristic{CharTargetPosition}
}

func (c *curtainStrategy) InitialState() State {
	return State{PositionState: PositionStopped}
}

// clamp snaps a position against the configured limits so a curtain that
// physically cannot reach 0 or 100 still renders fully open or closed.
func (c *curtainStrategy) clamp(pos int) int {
	if c.setMin > 0 && pos <= c.setMin {
		return 0
	}
	if c.setMax < 100 && pos >= c.setMax {
		return 100
	}
	return pos
}

func (c *curtainStrategy) MapStatus(prev State, raw *switchbot.Status, pending bool) State {
	s := prev
	if raw == nil {
		return s
	}
	s.CurrentPosition = c.clamp(100 - int(raw.SlidePosition))
	if raw.Moving {
		switch {
		case s.TargetPosition > s.CurrentPosition:
			s.PositionState = PositionIncreasing
		case s.TargetPosition < s.CurrentPosition:
			s.PositionState = PositionDecreasing
		default:
			s.PositionState = PositionStopped
		}
	} else {
		// At rest the target tracks reality, unless a user target is
		// still awaiting reconciliation.
		if !pending {
			s.TargetPosition = s.CurrentPosition
		}
		s.PositionState = PositionStopped
	}
	return s
}

func (c *curtainStrategy) Set(s *State, name Characteristic, value any) (SetResult, error) {
	if name != CharTargetPosition {
		return SetResult{}, ErrNotSettable
	}
	v, ok := asNumber(value)
	if !ok {
		return SetResult{}, fmt.Errorf("TargetPosition: expected number, got %T", value)
	}
	target := int(v)
	s.TargetPosition = target
	switch {
	case target > s.CurrentPosition:
		s.PositionState = PositionIncreasing
	case target < s.CurrentPosition:
		s.PositionState = PositionDecreasing
	default:
		s.PositionState = PositionStopped
	}
	pending := target != s.CurrentPosition
	return SetResult{Push: true, Pending: &pending}, nil
}

func (c *curtainStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	if s.TargetPosition == s.CurrentPosition {
		// Already there; do not spend a vendor request.
		return nil, s, nil
	}
	return &switchbot.Command{
		CommandType: switchbot.CommandTypeCommand,
		Command:     "setPosition",
		Parameter:   fmt.Sprintf("0,ff,%d", 100-s.TargetPosition),
	}, s, nil
}

func (c *curtainStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharCurrentPosition, s.CurrentPosition)
	sink.Update(CharTargetPosition, s.TargetPosition)
	sink.Update(CharPositionState, s.PositionState)
}
