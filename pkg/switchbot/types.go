package switchbot

import "encoding/json"

// Device kind constants for the cloud device list.
const (
	KindBot        = "Bot"
	KindPlug       = "Plug"
	KindCurtain    = "Curtain"
	KindMeter      = "Meter"
	KindHumidifier = "Humidifier"
	KindContact    = "Contact"
	KindMotion     = "Motion"
	KindHubMini    = "Hub Mini"
	KindHubPlus    = "Hub Plus"
)

// Remote kind constants for the infrared remote list.
const (
	RemoteTV             = "TV"
	RemoteSetTopBox      = "Set Top Box"
	RemoteIPTV           = "IPTV"
	RemoteDVD            = "DVD"
	RemoteSpeaker        = "Speaker"
	RemoteProjector      = "Projector"
	RemoteFan            = "Fan"
	RemoteAirConditioner = "Air Conditioner"
	RemoteLight          = "Light"
	RemoteAirPurifier    = "Air Purifier"
	RemoteWaterHeater    = "Water Heater"
	RemoteVacuumCleaner  = "Vacuum Cleaner"
	RemoteOthers         = "Others"
)

// Device is one entry of the cloud device list. Read-only after discovery.
type Device struct {
	DeviceID           string   `json:"deviceId"`
	DeviceName         string   `json:"deviceName"`
	DeviceType         string   `json:"deviceType"`
	EnableCloudService bool     `json:"enableCloudService"`
	HubDeviceID        string   `json:"hubDeviceId"`
	CurtainDevicesIDs  []string `json:"curtainDevicesIds,omitempty"`
	Calibrate          bool     `json:"calibrate,omitempty"`
	Group              bool     `json:"group,omitempty"`
	Master             bool     `json:"master,omitempty"`
	OpenDirection      string   `json:"openDirection,omitempty"`
}

// IRDevice is one entry of the infrared remote list.
type IRDevice struct {
	DeviceID    string `json:"deviceId"`
	DeviceName  string `json:"deviceName"`
	RemoteType  string `json:"remoteType"`
	HubDeviceID string `json:"hubDeviceId"`
}

// Status is the body of a device status response. Fields are a union over
// all device kinds; each mapper reads only the fields its kind reports.
type Status struct {
	DeviceID               string  `json:"deviceId"`
	DeviceType             string  `json:"deviceType"`
	HubDeviceID            string  `json:"hubDeviceId,omitempty"`
	Power                  string  `json:"power,omitempty"`
	Humidity               float64 `json:"humidity,omitempty"`
	Temperature            float64 `json:"temperature,omitempty"`
	NebulizationEfficiency float64 `json:"nebulizationEfficiency,omitempty"`
	Auto                   bool    `json:"auto,omitempty"`
	ChildLock              bool    `json:"childLock,omitempty"`
	Sound                  bool    `json:"sound,omitempty"`
	Calibrate              bool    `json:"calibrate,omitempty"`
	Group                  bool    `json:"group,omitempty"`
	Moving                 bool    `json:"moving,omitempty"`
	SlidePosition          float64 `json:"slidePosition"`
	Mode                   int     `json:"mode,omitempty"`
	Speed                  float64 `json:"speed,omitempty"`
	Shaking                bool    `json:"shaking,omitempty"`
}

// Command is the payload of POST /devices/{id}/commands.
type Command struct {
	CommandType string `json:"commandType"`
	Command     string `json:"command"`
	Parameter   string `json:"parameter"`
}

// Command types accepted by the vendor.
const (
	CommandTypeCommand   = "command"
	CommandTypeCustomize = "customize"
)

// statusEnvelope wraps a device status response. Body is a pointer so an
// absent or null body stays distinguishable from a zero-valued one; several
// device kinds key their readings off body presence.
type statusEnvelope struct {
	StatusCode int     `json:"statusCode"`
	Message    string  `json:"message"`
	Body       *Status `json:"body"`
}

// devicesEnvelope wraps the discovery response.
type devicesEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Body       struct {
		DeviceList         []Device   `json:"deviceList"`
		InfraredRemoteList []IRDevice `json:"infraredRemoteList"`
	} `json:"body"`
}

// CommandAck is the decoded result of a command push. Raw keeps the
// undecoded body for debug logging.
type CommandAck struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Raw        json.RawMessage `json:"-"`
}
