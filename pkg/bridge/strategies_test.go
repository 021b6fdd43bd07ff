package bridge

import (
	"errors"
	"testing"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

func TestBotSwitchModeBuildsOnOff(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DeviceSwitch = []string{"BOT1"}
	b := NewBot("BOT1", opts)

	cmd, next, err := b.BuildCommand(State{On: true})
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Command != "turnOn" || cmd.Parameter != "default" {
		t.Errorf("got %q/%q, want turnOn/default", cmd.Command, cmd.Parameter)
	}
	if !next.On {
		t.Error("switch mode must not flip state")
	}

	cmd, _, err = b.BuildCommand(State{On: false})
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Command != "turnOff" {
		t.Errorf("got %q, want turnOff", cmd.Command)
	}
}

func TestBotPressModeSnapsBackOff(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DevicePress = []string{"BOT1"}
	b := NewBot("BOT1", opts)

	cmd, next, err := b.BuildCommand(State{On: true})
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Command != "press" {
		t.Errorf("got %q, want press", cmd.Command)
	}
	if next.On {
		t.Error("press mode must snap the switch back off")
	}
}

func TestBotUnconfiguredModeFailsToBuild(t *testing.T) {
	b := NewBot("BOT1", &config.Options{})

	cmd, _, err := b.BuildCommand(State{On: true})
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("err = %v, want ErrMisconfigured", err)
	}
	if cmd != nil {
		t.Error("misconfigured bot must not produce a command")
	}
}

func TestBotSwitchModeTracksPower(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DeviceSwitch = []string{"BOT1"}
	b := NewBot("BOT1", opts)

	s := b.MapStatus(State{}, &switchbot.Status{Power: "on"}, false)
	if !s.On {
		t.Error("expected On after power=on")
	}
	s = b.MapStatus(s, &switchbot.Status{Power: "off"}, false)
	if s.On {
		t.Error("expected Off after power=off")
	}
}

func TestBotPressModeIgnoresPower(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DevicePress = []string{"BOT1"}
	b := NewBot("BOT1", opts)

	s := b.MapStatus(State{}, &switchbot.Status{Power: "on"}, false)
	if s.On {
		t.Error("press mode must not track power state")
	}
}

func TestPlugMapAndBuild(t *testing.T) {
	p := NewPlug()

	s := p.MapStatus(p.InitialState(), &switchbot.Status{Power: "on"}, false)
	if !s.On || !s.OutletInUse {
		t.Errorf("state = %+v, want On and OutletInUse", s)
	}

	cmd, _, err := p.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Command != "turnOn" {
		t.Errorf("got %q, want turnOn", cmd.Command)
	}
}

func TestMeterMapPassthrough(t *testing.T) {
	m := NewMeter(&config.Options{})

	s := m.MapStatus(m.InitialState(), &switchbot.Status{Temperature: 21.5, Humidity: 48}, false)
	if s.CurrentTemperature != 21.5 {
		t.Errorf("temperature = %v, want 21.5", s.CurrentTemperature)
	}
	if s.CurrentHumidity != 48 {
		t.Errorf("humidity = %v, want 48", s.CurrentHumidity)
	}
	if s.BatteryLevel != 100 || s.StatusLowBattery != BatteryNormal {
		t.Errorf("battery = %d/%d, want 100/normal", s.BatteryLevel, s.StatusLowBattery)
	}
}

func TestMeterMapFahrenheit(t *testing.T) {
	unit := config.UnitFahrenheit
	opts := &config.Options{}
	opts.Meter.Unit = &unit
	m := NewMeter(opts)

	s := m.MapStatus(m.InitialState(), &switchbot.Status{Temperature: 21.5}, false)
	if s.CurrentTemperature != 71 {
		t.Errorf("temperature = %v, want 71", s.CurrentTemperature)
	}
}

func TestMeterMapForcedCelsius(t *testing.T) {
	unit := config.UnitCelsius
	opts := &config.Options{}
	opts.Meter.Unit = &unit
	m := NewMeter(opts)

	// The device reports Fahrenheit; unit 0 converts it back.
	s := m.MapStatus(m.InitialState(), &switchbot.Status{Temperature: 50}, false)
	if s.CurrentTemperature != 10 {
		t.Errorf("temperature = %v, want 10", s.CurrentTemperature)
	}
}

func TestMeterMapMissingBodyReadsLowBattery(t *testing.T) {
	m := NewMeter(&config.Options{})

	s := m.MapStatus(m.InitialState(), nil, false)
	if s.BatteryLevel != 10 {
		t.Errorf("battery = %d, want 10", s.BatteryLevel)
	}
	if s.StatusLowBattery != BatteryLow {
		t.Errorf("low battery = %d, want %d", s.StatusLowBattery, BatteryLow)
	}
}

func TestContactMapPolarity(t *testing.T) {
	c := NewContact()

	s := c.MapStatus(c.InitialState(), &switchbot.Status{}, false)
	if s.ContactSensorState != ContactDetected {
		t.Errorf("responding body should read contact detected, got %d", s.ContactSensorState)
	}
	s = c.MapStatus(s, nil, false)
	if s.ContactSensorState != ContactNotDetected {
		t.Errorf("missing body should read contact not detected, got %d", s.ContactSensorState)
	}
}

func TestMotionMapPolarity(t *testing.T) {
	m := NewMotion()

	s := m.InitialState()
	s.MotionDetected = true
	s = m.MapStatus(s, &switchbot.Status{}, false)
	if s.MotionDetected {
		t.Error("responding body should read no motion")
	}
}

func TestHumidifierMap(t *testing.T) {
	h := NewHumidifier(&config.Options{})

	s := h.MapStatus(h.InitialState(), &switchbot.Status{
		Power:                  "on",
		Humidity:               55,
		Temperature:            22,
		NebulizationEfficiency: 60,
	}, false)
	if s.Active != Active {
		t.Error("expected active")
	}
	if s.CurrentHumidifierState != HumidifierStateHumidifying {
		t.Errorf("current state = %d, want humidifying", s.CurrentHumidifierState)
	}
	if s.HumidityThreshold != 60 {
		t.Errorf("threshold = %v, want 60", s.HumidityThreshold)
	}
	if s.TargetHumidifierState != TargetHumidifierHumidify {
		t.Errorf("target state = %d, want humidify", s.TargetHumidifierState)
	}
	if s.WaterLevel != 100 {
		t.Errorf("water level = %d, want 100", s.WaterLevel)
	}
}

func TestHumidifierSetThresholdQueuesSetMode(t *testing.T) {
	h := NewHumidifier(&config.Options{})

	s := h.InitialState()
	res, err := h.Set(&s, CharHumidityThreshold, float64(45))
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !res.Push {
		t.Error("expected a push")
	}
	cmd, next, err := h.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd == nil || cmd.Command != "setMode" || cmd.Parameter != "45" {
		t.Errorf("got %+v, want setMode/45", cmd)
	}
	if next.Remote != nil {
		t.Error("build must clear the queued command")
	}
}

func TestHumidifierAutoModeQueuesAuto(t *testing.T) {
	h := NewHumidifier(&config.Options{})

	s := h.InitialState()
	if _, err := h.Set(&s, CharTargetHumidifierState, float64(TargetHumidifierAuto)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cmd, _, err := h.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd == nil || cmd.Parameter != "auto" {
		t.Errorf("got %+v, want setMode/auto", cmd)
	}
}

func TestAirConBuildDefaults(t *testing.T) {
	a := NewAirCon(&config.Options{})

	cmd, _, err := a.BuildCommand(a.InitialState())
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Command != "setAll" {
		t.Errorf("Command = %q, want setAll", cmd.Command)
	}
	if cmd.Parameter != "24,1,1,off" {
		t.Errorf("Parameter = %q, want 24,1,1,off", cmd.Parameter)
	}
}

func TestAirConSetBuildsTuple(t *testing.T) {
	a := NewAirCon(&config.Options{})

	s := a.InitialState()
	if _, err := a.Set(&s, CharActive, float64(Active)); err != nil {
		t.Fatalf("Set Active: %v", err)
	}
	if _, err := a.Set(&s, CharTargetHeaterCoolerState, float64(TargetStateCool)); err != nil {
		t.Fatalf("Set mode: %v", err)
	}
	if _, err := a.Set(&s, CharCoolingThreshold, float64(20)); err != nil {
		t.Fatalf("Set threshold: %v", err)
	}

	cmd, _, err := a.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Parameter != "20,2,1,on" {
		t.Errorf("Parameter = %q, want 20,2,1,on", cmd.Parameter)
	}
	if s.CurrentHeaterCoolerState != HeaterCoolerCooling {
		t.Errorf("current state = %d, want cooling", s.CurrentHeaterCoolerState)
	}
}

func TestAirConHiddenAutoModeRejected(t *testing.T) {
	opts := &config.Options{}
	opts.IRAir.HideAutoMode = true
	a := NewAirCon(opts)

	s := a.InitialState()
	if _, err := a.Set(&s, CharTargetHeaterCoolerState, float64(TargetStateAuto)); err == nil {
		t.Error("expected auto mode to be rejected when hidden")
	}
}

func TestTVVolumeKeys(t *testing.T) {
	tv := NewTV(switchbot.RemoteTV)

	s := tv.InitialState()
	if _, err := tv.Set(&s, CharVolumeSelector, float64(VolumeIncrement)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cmd, _, err := tv.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd == nil || cmd.Command != "volumeAdd" {
		t.Errorf("got %+v, want volumeAdd", cmd)
	}
}

func TestIRFanSpeedSteps(t *testing.T) {
	opts := &config.Options{}
	opts.Fan.RotationSpeed = []string{"FAN1"}
	f := NewIRFan("FAN1", opts)

	s := f.InitialState()
	s.RotationSpeed = 30
	if _, err := f.Set(&s, CharRotationSpeed, float64(70)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cmd, _, err := f.BuildCommand(s)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd == nil || cmd.Command != "highSpeed" {
		t.Errorf("got %+v, want highSpeed", cmd)
	}

	if _, err := f.Set(&s, CharRotationSpeed, float64(10)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cmd, _, _ = f.BuildCommand(s)
	if cmd == nil || cmd.Command != "lowSpeed" {
		t.Errorf("got %+v, want lowSpeed", cmd)
	}
}

func TestIRFanSpeedSnapsToConfiguredRange(t *testing.T) {
	opts := &config.Options{}
	opts.Fan.RotationSpeed = []string{"FAN1"}
	opts.Fan.SetMin = 20
	opts.Fan.SetMax = 80
	opts.Fan.SetMinStep = 25

	f := NewIRFan("FAN1", opts)
	s := f.InitialState()

	// 60 rounds to the nearest step (50); 5 rounds to 0 and clamps to the floor.
	if _, err := f.Set(&s, CharRotationSpeed, float64(60)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.RotationSpeed != 50 {
		t.Errorf("speed = %d, want 50", s.RotationSpeed)
	}

	if _, err := f.Set(&s, CharRotationSpeed, float64(5)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.RotationSpeed != 20 {
		t.Errorf("speed = %d, want 20 (floor)", s.RotationSpeed)
	}

	if _, err := f.Set(&s, CharRotationSpeed, float64(200)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.RotationSpeed != 80 {
		t.Errorf("speed = %d, want 80 (ceiling)", s.RotationSpeed)
	}
}

func TestIRFanSpeedNotEnabled(t *testing.T) {
	f := NewIRFan("FAN1", &config.Options{})

	s := f.InitialState()
	if _, err := f.Set(&s, CharRotationSpeed, float64(50)); !errors.Is(err, ErrNotSettable) {
		t.Errorf("err = %v, want ErrNotSettable", err)
	}
}

func TestOtherCustomizeCommands(t *testing.T) {
	opts := &config.Options{}
	opts.Other.CommandOn = "Projector On"
	opts.Other.CommandOff = "Projector Off"
	o := NewOther("OTHER1", opts)

	cmd, _, err := o.BuildCommand(State{Active: Active})
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.CommandType != switchbot.CommandTypeCustomize {
		t.Errorf("CommandType = %q, want customize", cmd.CommandType)
	}
	if cmd.Command != "Projector On" {
		t.Errorf("Command = %q, want Projector On", cmd.Command)
	}
}

func TestOtherMissingCommandsFailsToBuild(t *testing.T) {
	o := NewOther("OTHER1", &config.Options{})

	if _, _, err := o.BuildCommand(State{Active: Active}); !errors.Is(err, ErrMisconfigured) {
		t.Errorf("err = %v, want ErrMisconfigured", err)
	}
}
