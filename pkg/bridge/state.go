package bridge

import "switchbridge/pkg/switchbot"

// State is the local characteristic state of one controller. It is a union
// across device kinds; each strategy reads and writes only its own fields.
// Controllers hand copies out, so the struct must stay plain data.
type State struct {
	// Switches and plugs.
	On          bool
	OutletInUse bool

	// Curtains.
	CurrentPosition int
	TargetPosition  int
	PositionState   int

	// Environment sensors.
	CurrentTemperature float64
	CurrentHumidity    float64
	BatteryLevel       int
	StatusLowBattery   int

	// Contact and motion sensors.
	ContactSensorState int
	MotionDetected     bool

	// Active-style devices (humidifiers, IR fans, air conditioners,
	// water heaters, cameras and the rest of the remote family).
	Active        int
	RotationSpeed int
	SwingMode     int

	// Humidifiers.
	TargetHumidifierState  int
	CurrentHumidifierState int
	HumidityThreshold      float64
	WaterLevel             int
	HumidifierAuto         bool

	// IR air conditioners.
	TargetHeaterCoolerState  int
	CurrentHeaterCoolerState int
	TargetTemperature        float64
	LastTemperature          float64
	ACMode                   int
	ACFanSpeed               int

	// Remote holds the last discrete command queued by a remote-style
	// strategy. A later edit replaces it; the controller clears it once
	// the command has been handed to the vendor client.
	Remote *switchbot.Command
}
