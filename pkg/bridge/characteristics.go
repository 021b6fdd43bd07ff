package bridge

// Characteristic names surfaced to the host accessory layer. The vocabulary
// is closed: controllers only ever read or write these.
type Characteristic string

const (
	CharOn                       Characteristic = "On"
	CharOutletInUse              Characteristic = "OutletInUse"
	CharCurrentPosition          Characteristic = "CurrentPosition"
	CharTargetPosition           Characteristic = "TargetPosition"
	CharPositionState            Characteristic = "PositionState"
	CharCurrentTemperature       Characteristic = "CurrentTemperature"
	CharCurrentRelativeHumidity  Characteristic = "CurrentRelativeHumidity"
	CharBatteryLevel             Characteristic = "BatteryLevel"
	CharStatusLowBattery         Characteristic = "StatusLowBattery"
	CharContactSensorState       Characteristic = "ContactSensorState"
	CharMotionDetected           Characteristic = "MotionDetected"
	CharActive                   Characteristic = "Active"
	CharRotationSpeed            Characteristic = "RotationSpeed"
	CharSwingMode                Characteristic = "SwingMode"
	CharRemoteKey                Characteristic = "RemoteKey"
	CharVolumeSelector           Characteristic = "VolumeSelector"
	CharTargetHumidifierState    Characteristic = "TargetHumidifierDehumidifierState"
	CharCurrentHumidifierState   Characteristic = "CurrentHumidifierDehumidifierState"
	CharHumidityThreshold        Characteristic = "RelativeHumidityHumidifierThreshold"
	CharWaterLevel               Characteristic = "WaterLevel"
	CharTargetHeaterCoolerState  Characteristic = "TargetHeaterCoolerState"
	CharCurrentHeaterCoolerState Characteristic = "CurrentHeaterCoolerState"
	CharHeatingThreshold         Characteristic = "HeatingThresholdTemperature"
	CharCoolingThreshold         Characteristic = "CoolingThresholdTemperature"
)

// PositionState enum values.
const (
	PositionDecreasing = 0
	PositionIncreasing = 1
	PositionStopped    = 2
)

// ContactSensorState enum values.
const (
	ContactDetected    = 0
	ContactNotDetected = 1
)

// StatusLowBattery enum values.
const (
	BatteryNormal = 0
	BatteryLow    = 1
)

// Active enum values.
const (
	Inactive = 0
	Active   = 1
)

// SwingMode enum values.
const (
	SwingDisabled = 0
	SwingEnabled  = 1
)

// CurrentHeaterCoolerState enum values.
const (
	HeaterCoolerInactive = 0
	HeaterCoolerIdle     = 1
	HeaterCoolerHeating  = 2
	HeaterCoolerCooling  = 3
)

// TargetHeaterCoolerState enum values.
const (
	TargetStateAuto = 0
	TargetStateHeat = 1
	TargetStateCool = 2
)

// HumidifierDehumidifierState enum values (current and target share the
// humidifier entries).
const (
	HumidifierStateInactive    = 0
	HumidifierStateIdle        = 1
	HumidifierStateHumidifying = 2
	TargetHumidifierAuto       = 0
	TargetHumidifierHumidify   = 1
)

// RemoteKey enum values, the subset routed to IR media remotes.
const (
	RemoteKeyUp        = 4
	RemoteKeyDown      = 5
	RemoteKeyLeft      = 6
	RemoteKeyRight     = 7
	RemoteKeySelect    = 8
	RemoteKeyBack      = 9
	RemoteKeyInfo      = 15
)

// VolumeSelector enum values.
const (
	VolumeIncrement = 0
	VolumeDecrement = 1
)

// charSchemas holds a JSON Schema fragment per settable characteristic,
// used to validate inbound set payloads before they reach a controller.
var charSchemas = map[Characteristic]map[string]any{
	CharOn:                    {"type": "boolean"},
	CharTargetPosition:        {"type": "number", "minimum": 0, "maximum": 100},
	CharActive:                {"type": "integer", "enum": []any{0, 1}},
	CharRotationSpeed:         {"type": "number", "minimum": 0, "maximum": 100},
	CharSwingMode:             {"type": "integer", "enum": []any{0, 1}},
	CharRemoteKey:             {"type": "integer", "minimum": 0, "maximum": 16},
	CharVolumeSelector:        {"type": "integer", "enum": []any{0, 1}},
	CharTargetHumidifierState: {"type": "integer", "enum": []any{0, 1}},
	CharHumidityThreshold:     {"type": "number", "minimum": 0, "maximum": 100},
	CharTargetHeaterCoolerState: {"type": "integer", "enum": []any{0, 1, 2}},
	CharHeatingThreshold:      {"type": "number", "minimum": 16, "maximum": 30},
	CharCoolingThreshold:      {"type": "number", "minimum": 16, "maximum": 30},
}

// SetSchema builds a JSON Schema document accepting the settable
// characteristics of one strategy.
func SetSchema(settable []Characteristic) map[string]any {
	props := make(map[string]any, len(settable))
	for _, c := range settable {
		if s, ok := charSchemas[c]; ok {
			props[string(c)] = s
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}
