package bridge

import (
	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

const lowBatteryThreshold = 15

// meterStrategy surfaces a temperature/humidity meter. Read-only.
type meterStrategy struct {
	unit     int
	hideTemp bool
	hideHum  bool
}

func NewMeter(opts *config.Options) Strategy {
	return &meterStrategy{
		unit:     opts.MeterUnit(),
		hideTemp: opts.Meter.HideTemperature,
		hideHum:  opts.Meter.HideHumidity,
	}
}

func (m *meterStrategy) Kind() string   { return switchbot.KindMeter }
func (m *meterStrategy) Pollable() bool { return true }

func (m *meterStrategy) Characteristics() []Characteristic {
	chars := []Characteristic{CharBatteryLevel, CharStatusLowBattery}
	if !m.hideTemp {
		chars = append(chars, CharCurrentTemperature)
	}
	if !m.hideHum {
		chars = append(chars, CharCurrentRelativeHumidity)
	}
	return chars
}

func (m *meterStrategy) Settable() []Characteristic { return nil }

func (m *meterStrategy) InitialState() State {
	return State{BatteryLevel: 100}
}

func (m *meterStrategy) MapStatus(prev State, raw *switchbot.Status, _ bool) State {
	s := prev
	s.BatteryLevel = batteryFromBody(raw)
	s.StatusLowBattery = lowBatteryFlag(s.BatteryLevel)
	if raw == nil {
		return s
	}
	if !m.hideHum {
		s.CurrentHumidity = raw.Humidity
	}
	if !m.hideTemp {
		switch m.unit {
		case config.UnitFahrenheit:
			s.CurrentTemperature = ToFahrenheit(raw.Temperature)
		case config.UnitCelsius:
			s.CurrentTemperature = ToCelsius(raw.Temperature)
		default:
			s.CurrentTemperature = raw.Temperature
		}
	}
	return s
}

func (m *meterStrategy) Set(_ *State, _ Characteristic, _ any) (SetResult, error) {
	return SetResult{}, ErrNotSettable
}

func (m *meterStrategy) BuildCommand(s State) (*switchbot.Command, State, error) {
	return nil, s, nil
}

func (m *meterStrategy) Render(s State, sink CharacteristicSink) {
	sink.Update(CharBatteryLevel, s.BatteryLevel)
	sink.Update(CharStatusLowBattery, s.StatusLowBattery)
	if !m.hideTemp {
		sink.Update(CharCurrentTemperature, s.CurrentTemperature)
	}
	if !m.hideHum {
		sink.Update(CharCurrentRelativeHumidity, s.CurrentHumidity)
	}
}

// batteryFromBody infers battery level from body presence: the cloud API
// does not report battery for these devices, so a responding device reads
// full and a silent one reads nearly drained.
func batteryFromBody(raw *switchbot.Status) int {
	if raw == nil {
		return 10
	}
	return 100
}

func lowBatteryFlag(level int) int {
	if level < lowBatteryThreshold {
		return BatteryLow
	}
	return BatteryNormal
}
