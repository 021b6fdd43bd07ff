package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Temperature unit selectors for meter devices. UnitPassthrough surfaces the
// vendor value unchanged.
const (
	UnitCelsius     = 0
	UnitFahrenheit  = 1
	UnitPassthrough = -1
)

var (
	// ErrMissingCredentials indicates the config file has no credentials block.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrMissingToken indicates no open token was supplied.
	ErrMissingToken = errors.New("missing openToken")
)

// Config is the decoded and validated configuration file. After Load returns,
// every field holds a resolved value; core code never needs presence checks.
type Config struct {
	Credentials     Credentials `json:"credentials"`
	DeviceDiscovery bool        `json:"devicediscovery"`
	Options         Options     `json:"options"`
}

// Credentials holds the static vendor API token, issued out of band.
type Credentials struct {
	OpenToken string `json:"openToken"`
}

// Options is the per-kind tuning surface.
type Options struct {
	// RefreshRate is the steady-state poll interval in seconds. The vendor
	// enforces a daily request quota, hence the high floor.
	RefreshRate int `json:"refreshRate"`

	// PushRate is the debounce window for outbound commands, in seconds.
	// Fractional values are allowed; the default is 100 milliseconds.
	PushRate float64 `json:"pushRate"`

	HideDevice []string `json:"hide_device"`

	Bot        BotOptions        `json:"bot"`
	Meter      MeterOptions      `json:"meter"`
	Humidifier HumidifierOptions `json:"humidifier"`
	Curtain    CurtainOptions    `json:"curtain"`
	Fan        FanOptions        `json:"fan"`
	IRAir      IRAirOptions      `json:"irair"`
	Other      OtherOptions      `json:"other"`
}

// BotOptions selects the mode of each Bot by device id. A Bot listed in
// neither slice cannot build commands.
type BotOptions struct {
	DeviceSwitch []string `json:"device_switch"`
	DevicePress  []string `json:"device_press"`
}

// MeterOptions controls unit conversion and hidden sensors.
type MeterOptions struct {
	// Unit is UnitCelsius, UnitFahrenheit, or UnitPassthrough when absent.
	Unit            *int `json:"unit"`
	HideTemperature bool `json:"hide_temperature"`
	HideHumidity    bool `json:"hide_humidity"`
}

// HumidifierOptions controls the humidifier accessory surface.
type HumidifierOptions struct {
	HideTemperature bool `json:"hide_temperature"`
	SetMinStep      int  `json:"set_minStep"`
}

// CurtainOptions holds the position clamp thresholds and the faster refresh
// cadence used while a curtain is moving.
type CurtainOptions struct {
	DisableGroup bool `json:"disable_group"`
	RefreshRate  int  `json:"refreshRate"`
	SetMin       int  `json:"set_min"`
	SetMax       int  `json:"set_max"`
	SetMinStep   int  `json:"set_minStep"`
}

// FanOptions lists which IR fans expose rotation speed and swing, with the
// speed slider range.
type FanOptions struct {
	SwingMode     []string `json:"swing_mode"`
	RotationSpeed []string `json:"rotation_speed"`
	SetMin        int      `json:"set_min"`
	SetMax        int      `json:"set_max"`
	SetMinStep    int      `json:"set_minStep"`
}

// IRAirOptions controls the air conditioner accessory surface.
type IRAirOptions struct {
	HideAutoMode bool `json:"hide_automode"`
}

// OtherOptions configures "Others" IR remotes: which accessory type to
// expose and the customize commands to send.
type OtherOptions struct {
	DeviceType string `json:"deviceType"`
	CommandOn  string `json:"commandOn"`
	CommandOff string `json:"commandOff"`
}

// MeterUnit returns the resolved unit selector for meter temperature values.
func (o *Options) MeterUnit() int {
	if o.Meter.Unit == nil {
		return UnitPassthrough
	}
	return *o.Meter.Unit
}

// RefreshInterval returns the steady-state poll interval as a duration.
func (o *Options) RefreshInterval() time.Duration {
	return time.Duration(o.RefreshRate) * time.Second
}

// PushDebounce returns the command debounce window as a duration.
func (o *Options) PushDebounce() time.Duration {
	return time.Duration(o.PushRate * float64(time.Second))
}

// CurtainRefreshInterval returns the moving-curtain refresh cadence.
func (o *Options) CurtainRefreshInterval() time.Duration {
	return time.Duration(o.Curtain.RefreshRate) * time.Second
}

// HasHiddenDevice reports whether a device id is excluded from bridging.
func (o *Options) HasHiddenDevice(deviceID string) bool {
	for _, id := range o.HideDevice {
		if id == deviceID {
			return true
		}
	}
	return false
}

// Load reads, validates, and default-resolves the configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse validates and default-resolves raw configuration bytes.
func Parse(raw []byte) (*Config, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := compiledSchema().Validate(doc); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Credentials == (Credentials{}) {
		return nil, ErrMissingCredentials
	}
	if cfg.Credentials.OpenToken == "" {
		return nil, ErrMissingToken
	}

	if err := cfg.Options.resolve(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolve fills in defaults and enforces the load-time floors.
func (o *Options) resolve() error {
	if o.RefreshRate == 0 {
		// default 900 seconds (15 minutes)
		o.RefreshRate = 900
	}
	if o.RefreshRate < 120 {
		return fmt.Errorf("refreshRate must be at least 120 seconds, got %d", o.RefreshRate)
	}
	if o.PushRate == 0 {
		// default 100 milliseconds
		o.PushRate = 0.1
	}
	if o.HideDevice == nil {
		o.HideDevice = []string{}
	}
	if o.Curtain.RefreshRate == 0 {
		o.Curtain.RefreshRate = 5
	}
	if o.Curtain.SetMax == 0 {
		o.Curtain.SetMax = 100
	}
	if o.Curtain.SetMinStep == 0 {
		o.Curtain.SetMinStep = 1
	}
	if o.Fan.SetMin == 0 {
		o.Fan.SetMin = 1
	}
	if o.Fan.SetMax == 0 {
		o.Fan.SetMax = 100
	}
	if o.Fan.SetMinStep == 0 {
		o.Fan.SetMinStep = 1
	}
	if o.Humidifier.SetMinStep == 0 {
		o.Humidifier.SetMinStep = 1
	}
	return nil
}

var schema *jsonschema.Schema

// compiledSchema compiles the config schema once; the document is embedded,
// so a compile failure is a programming error.
func compiledSchema() *jsonschema.Schema {
	if schema != nil {
		return schema
	}

	var doc any
	if err := json.Unmarshal([]byte(configSchema), &doc); err != nil {
		panic(fmt.Sprintf("config schema is not valid JSON: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.json", doc); err != nil {
		panic(fmt.Sprintf("config schema resource: %v", err))
	}
	compiled, err := c.Compile("config.json")
	if err != nil {
		panic(fmt.Sprintf("config schema compile: %v", err))
	}

	schema = compiled
	return schema
}
