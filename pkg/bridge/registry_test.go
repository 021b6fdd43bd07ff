package bridge

import (
	"context"
	"testing"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

func discoveryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Options.RefreshRate = 900
	cfg.Options.PushRate = 0.1
	cfg.Options.Curtain.RefreshRate = 5
	cfg.Options.Curtain.SetMax = 100
	return cfg
}

func TestRegistryDiscoverRegistersSupportedKinds(t *testing.T) {
	vendor := newStubVendor()
	vendor.devices = []switchbot.Device{
		{DeviceID: "BOT1", DeviceName: "bot", DeviceType: switchbot.KindBot, EnableCloudService: true},
		{DeviceID: "METER1", DeviceName: "meter", DeviceType: switchbot.KindMeter, EnableCloudService: true},
		{DeviceID: "HUB1", DeviceName: "hub", DeviceType: switchbot.KindHubMini, EnableCloudService: true},
	}
	vendor.remotes = []switchbot.IRDevice{
		{DeviceID: "TV1", DeviceName: "tv", RemoteType: switchbot.RemoteTV},
	}

	r := NewRegistry()
	if err := r.Discover(context.Background(), discoveryConfig(), vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if r.Len() != 3 {
		t.Fatalf("registered %d controllers, want 3 (hub is not bridgeable)", r.Len())
	}
	for _, id := range []string{"BOT1", "METER1", "TV1"} {
		if _, ok := r.Get(id); !ok {
			t.Errorf("missing controller for %s", id)
		}
	}
	if _, ok := r.Get("HUB1"); ok {
		t.Error("hub hardware should not get a controller")
	}
}

func TestRegistryDiscoverSkipsHiddenDevices(t *testing.T) {
	vendor := newStubVendor()
	vendor.devices = []switchbot.Device{
		{DeviceID: "PLUG1", DeviceType: switchbot.KindPlug, EnableCloudService: true},
		{DeviceID: "PLUG2", DeviceType: switchbot.KindPlug, EnableCloudService: true},
	}

	cfg := discoveryConfig()
	cfg.Options.HideDevice = []string{"PLUG1"}

	r := NewRegistry()
	if err := r.Discover(context.Background(), cfg, vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := r.Get("PLUG1"); ok {
		t.Error("hidden device should be skipped")
	}
	if _, ok := r.Get("PLUG2"); !ok {
		t.Error("expected PLUG2 controller")
	}
}

func TestRegistryDiscoverSkipsCloudDisabledDevices(t *testing.T) {
	vendor := newStubVendor()
	vendor.devices = []switchbot.Device{
		{DeviceID: "PLUG1", DeviceType: switchbot.KindPlug, EnableCloudService: true},
		{DeviceID: "PLUG2", DeviceType: switchbot.KindPlug},
	}

	r := NewRegistry()
	if err := r.Discover(context.Background(), discoveryConfig(), vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := r.Get("PLUG2"); ok {
		t.Error("cloud-disabled device should be skipped")
	}
	if _, ok := r.Get("PLUG1"); !ok {
		t.Error("expected PLUG1 controller")
	}
}

func TestRegistryDiscoverCurtainGroups(t *testing.T) {
	vendor := newStubVendor()
	vendor.devices = []switchbot.Device{
		{DeviceID: "CURT1", DeviceType: switchbot.KindCurtain, EnableCloudService: true, Group: true, Master: true},
		{DeviceID: "CURT2", DeviceType: switchbot.KindCurtain, EnableCloudService: true, Group: true, Master: false},
	}

	r := NewRegistry()
	if err := r.Discover(context.Background(), discoveryConfig(), vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, ok := r.Get("CURT1"); !ok {
		t.Error("expected master curtain controller")
	}
	if _, ok := r.Get("CURT2"); ok {
		t.Error("non-master group member should be skipped")
	}

	// With grouping disabled every member gets its own controller.
	cfg := discoveryConfig()
	cfg.Options.Curtain.DisableGroup = true
	r = NewRegistry()
	if err := r.Discover(context.Background(), cfg, vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("registered %d controllers, want 2 with grouping disabled", r.Len())
	}
}

func TestRegistryListOrdered(t *testing.T) {
	vendor := newStubVendor()
	vendor.devices = []switchbot.Device{
		{DeviceID: "B", DeviceType: switchbot.KindPlug, EnableCloudService: true},
		{DeviceID: "A", DeviceType: switchbot.KindPlug, EnableCloudService: true},
		{DeviceID: "C", DeviceType: switchbot.KindPlug, EnableCloudService: true},
	}

	r := NewRegistry()
	if err := r.Discover(context.Background(), discoveryConfig(), vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	entries := r.List()
	want := []string{"A", "B", "C"}
	for i, e := range entries {
		if e.Controller.Info().ID != want[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Controller.Info().ID, want[i])
		}
	}
}
