package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"switchbridge/pkg/bridge"
	"switchbridge/pkg/config"
	"switchbridge/pkg/schema"
	"switchbridge/pkg/switchbot"
)

// stubVendor is an in-memory vendor client for router tests.
type stubVendor struct {
	mu      sync.Mutex
	status  switchbot.Status
	devices []switchbot.Device
	remotes []switchbot.IRDevice
}

func (v *stubVendor) Status(_ context.Context, _ string) (*switchbot.Status, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.status
	return &s, nil
}

func (v *stubVendor) SendCommand(_ context.Context, _ string, _ *switchbot.Command) (*switchbot.CommandAck, error) {
	return &switchbot.CommandAck{StatusCode: 100, Message: "success"}, nil
}

func (v *stubVendor) Devices(_ context.Context) ([]switchbot.Device, []switchbot.IRDevice, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.devices, v.remotes, nil
}

func testRouter(t *testing.T, vendor *stubVendor) *Router {
	t.Helper()
	cfg := &config.Config{}
	cfg.Options.RefreshRate = 900
	cfg.Options.PushRate = 0.1
	cfg.Options.Curtain.RefreshRate = 5
	cfg.Options.Curtain.SetMax = 100

	registry := bridge.NewRegistry()
	if err := registry.Discover(context.Background(), cfg, vendor, nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	t.Cleanup(registry.Close)

	return NewRouter(registry, schema.NewValidator())
}

func doRequest(r *Router, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthDegradedWithoutDevices(t *testing.T) {
	r := testRouter(t, &stubVendor{})

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthHealthy(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "PLUG1", DeviceName: "plug", DeviceType: switchbot.KindPlug, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Devices int    `json:"devices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.Devices != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListDevices(t *testing.T) {
	vendor := &stubVendor{
		devices: []switchbot.Device{
			{DeviceID: "PLUG1", DeviceName: "plug", DeviceType: switchbot.KindPlug, EnableCloudService: true},
			{DeviceID: "CURT1", DeviceName: "curtain", DeviceType: switchbot.KindCurtain, EnableCloudService: true},
		},
	}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodGet, "/api/v1/devices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Count   int `json:"count"`
		Devices []struct {
			ID       string   `json:"id"`
			Kind     string   `json:"kind"`
			Settable []string `json:"settable"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	// Ordered by id: CURT1, PLUG1.
	if resp.Devices[0].ID != "CURT1" || resp.Devices[1].ID != "PLUG1" {
		t.Errorf("devices = %+v", resp.Devices)
	}
	if len(resp.Devices[0].Settable) != 1 || resp.Devices[0].Settable[0] != "TargetPosition" {
		t.Errorf("curtain settable = %v", resp.Devices[0].Settable)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	r := testRouter(t, &stubVendor{})

	w := doRequest(r, http.MethodGet, "/api/v1/devices/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSetStateAppliesCharacteristics(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "PLUG1", DeviceName: "plug", DeviceType: switchbot.KindPlug, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodPost, "/api/v1/devices/PLUG1/state", `{"On": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		State map[string]any `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State["On"] != true {
		t.Errorf("state On = %v, want true", resp.State["On"])
	}
}

func TestSetCharacteristicBareValue(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "CURT1", DeviceName: "curtain", DeviceType: switchbot.KindCurtain, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodPut, "/api/v1/devices/CURT1/characteristics/TargetPosition", `70`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		State map[string]any `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State["TargetPosition"] != float64(70) {
		t.Errorf("TargetPosition = %v, want 70", resp.State["TargetPosition"])
	}

	w = doRequest(r, http.MethodPut, "/api/v1/devices/CURT1/characteristics/TargetPosition", `150`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range status = %d, want 400", w.Code)
	}
}

func TestSetStateRejectsOutOfRange(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "CURT1", DeviceName: "curtain", DeviceType: switchbot.KindCurtain, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodPost, "/api/v1/devices/CURT1/state", `{"TargetPosition": 150}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSetStateRejectsUnknownCharacteristic(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "METER1", DeviceName: "meter", DeviceType: switchbot.KindMeter, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	// A meter has no settable characteristics at all.
	w := doRequest(r, http.MethodPost, "/api/v1/devices/METER1/state", `{"On": true}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSetStateInvalidBody(t *testing.T) {
	vendor := &stubVendor{devices: []switchbot.Device{
		{DeviceID: "PLUG1", DeviceName: "plug", DeviceType: switchbot.KindPlug, EnableCloudService: true},
	}}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodPost, "/api/v1/devices/PLUG1/state", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRefreshDevice(t *testing.T) {
	vendor := &stubVendor{
		devices: []switchbot.Device{
			{DeviceID: "PLUG1", DeviceName: "plug", DeviceType: switchbot.KindPlug, EnableCloudService: true},
		},
		status: switchbot.Status{Power: "on"},
	}
	r := testRouter(t, vendor)

	w := doRequest(r, http.MethodPost, "/api/v1/devices/PLUG1/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/v1/devices/PLUG1/state", "")
	var resp struct {
		State map[string]any `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State["On"] != true {
		t.Errorf("state On = %v, want true after refresh", resp.State["On"])
	}
}
