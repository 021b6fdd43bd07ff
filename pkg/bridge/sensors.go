package bridge

import "switchbridge/pkg/switchbot"

// contactStrategy surfaces a contact sensor. Read-only. A responding body
// maps to "contact detected".
type contactStrategy struct{}

func NewContact() Strategy { return contactStrategy{} }

func (contactStrategy) Kind() string   { return switchbot.KindContact }
func (contactStrategy) Pollable() bool { return true }

func (contactStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharContactSensorState, CharBatteryLevel, CharStatusLowBattery}
}

func (contactStrategy) Settable() []Characteristic { return nil }

func (contactStrategy) InitialState() State {
	return State{ContactSensorState: ContactDetected, BatteryLevel: 100}
}

func (contactStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	if raw != nil {
		s.ContactSensorState = ContactDetected
	} else {
		s.ContactSensorState = ContactNotDetected
	}
	s.BatteryLevel = batteryFromBody(raw)
	s.StatusLowBattery = lowBatteryFlag(s.BatteryLevel)
	return s
}

func (contactStrategy) Set(_ *State, _ Characteristic, _ any) (SetResult, error) {
	return SetResult{}, ErrNotSettable
}

func (contactStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	return nil, s, nil
}

func (contactStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharContactSensorState, s.ContactSensorState)
	sink.Update(CharBatteryLevel, s.BatteryLevel)
	sink.Update(CharStatusLowBattery, s.StatusLowBattery)
}

// motionStrategy surfaces a motion sensor. Read-only. Note the polarity: a
// responding body maps to "no motion", since the cloud endpoint only
// confirms the device is reachable.
type motionStrategy struct{}

func NewMotion() Strategy { return motionStrategy{} }

func (motionStrategy) Kind() string   { return switchbot.KindMotion }
func (motionStrategy) Pollable() bool { return true }

func (motionStrategy) Characteristics() []Characteristic {
	return []Characteristic{CharMotionDetected, CharBatteryLevel, CharStatusLowBattery}
}

func (motionStrategy) Settable() []Characteristic { return nil }

func (motionStrategy) InitialState() State {
	return State{BatteryLevel: 100}
}

func (motionStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	if raw != nil {
		s.MotionDetected = false
	}
	s.BatteryLevel = batteryFromBody(raw)
	s.StatusLowBattery = lowBatteryFlag(s.BatteryLevel)
	return s
}

func (motionStrategy) Set(_ *State, _ Characteristic, _ any) (SetResult, error) {
	return SetResult{}, ErrNotSettable
}

func (motionStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	return nil, s, nil
}

func (motionStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharMotionDetected, s.MotionDetected)
	sink.Update(CharBatteryLevel, s.BatteryLevel)
	sink.Update(CharStatusLowBattery, s.StatusLowBattery)
}
