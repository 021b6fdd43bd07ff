package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"switchbridge/pkg/config"
	"switchbridge/pkg/switchbot"
)

// stubVendor is an in-memory vendor client for controller tests.
type stubVendor struct {
	mu        sync.Mutex
	status    switchbot.Status
	statusErr error
	ack       switchbot.CommandAck
	sendErr   error
	sent      []switchbot.Command
	devices   []switchbot.Device
	remotes   []switchbot.IRDevice
}

func newStubVendor() *stubVendor {
	return &stubVendor{ack: switchbot.CommandAck{StatusCode: 100, Message: "success"}}
}

func (v *stubVendor) Status(_ context.Context, _ string) (*switchbot.Status, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.statusErr != nil {
		return nil, v.statusErr
	}
	s := v.status
	return &s, nil
}

func (v *stubVendor) SendCommand(_ context.Context, _ string, cmd *switchbot.Command) (*switchbot.CommandAck, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sendErr != nil {
		return nil, v.sendErr
	}
	v.sent = append(v.sent, *cmd)
	a := v.ack
	return &a, nil
}

func (v *stubVendor) Devices(_ context.Context) ([]switchbot.Device, []switchbot.IRDevice, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.devices, v.remotes, nil
}

func (v *stubVendor) sentCommands() []switchbot.Command {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]switchbot.Command, len(v.sent))
	copy(out, v.sent)
	return out
}

func (v *stubVendor) setStatus(s switchbot.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
	v.statusErr = nil
}

func (v *stubVendor) setAck(a switchbot.CommandAck) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ack = a
}

func newTestController(strategy Strategy, vendor *stubVendor, debounce time.Duration) (*Controller, *MemorySink) {
	sink := NewMemorySink()
	c := NewController(ControllerConfig{
		Info:     DeviceInfo{ID: "DEV1", Name: "test", Kind: strategy.Kind()},
		API:      vendor,
		Strategy: strategy,
		Sink:     sink,
		Debounce: debounce,
	})
	return c, sink
}

func TestControllerRefreshRendersStatus(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DeviceSwitch = []string{"DEV1"}
	vendor := newStubVendor()
	vendor.setStatus(switchbot.Status{Power: "on"})

	c, sink := newTestController(NewBot("DEV1", opts), vendor, 0)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	v, ok := sink.Value(CharOn)
	if !ok || v != true {
		t.Errorf("sink On = %v (%v), want true", v, ok)
	}
}

func TestControllerSeedRendersCachedState(t *testing.T) {
	vendor := newStubVendor()
	c, sink := newTestController(NewCurtain(curtainOpts(0, 100)), vendor, 0)

	c.Seed(State{CurrentPosition: 65, TargetPosition: 65, PositionState: PositionStopped})

	v, ok := sink.Value(CharCurrentPosition)
	if !ok || v != 65 {
		t.Errorf("sink CurrentPosition = %v (%v), want 65", v, ok)
	}
	if len(vendor.sentCommands()) != 0 {
		t.Errorf("seeding issued %d vendor calls, want 0", len(vendor.sentCommands()))
	}
}

func TestControllerPushCoalescesEdits(t *testing.T) {
	vendor := newStubVendor()
	vendor.setStatus(switchbot.Status{SlidePosition: 100})

	c, _ := newTestController(NewCurtain(curtainOpts(0, 100)), vendor, 40*time.Millisecond)
	defer c.Close()

	for _, target := range []float64{30, 50, 75} {
		if err := c.Set(CharTargetPosition, target); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	time.Sleep(250 * time.Millisecond)

	sent := vendor.sentCommands()
	if len(sent) != 1 {
		t.Fatalf("sent %d commands, want 1 (coalesced)", len(sent))
	}
	if sent[0].Parameter != "0,ff,25" {
		t.Errorf("Parameter = %q, want the last edit 0,ff,25", sent[0].Parameter)
	}
}

func TestControllerMisconfiguredBotMakesNoCall(t *testing.T) {
	vendor := newStubVendor()
	c, sink := newTestController(NewBot("DEV1", &config.Options{}), vendor, 0)
	defer c.Close()

	if err := c.Set(CharOn, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if n := len(vendor.sentCommands()); n != 0 {
		t.Errorf("sent %d commands, want 0", n)
	}
	// The optimistic local value stays; only the push is refused.
	if v, _ := sink.Value(CharOn); v != true {
		t.Errorf("sink On = %v, want true", v)
	}
}

func TestControllerPressSnapsBackOff(t *testing.T) {
	opts := &config.Options{}
	opts.Bot.DevicePress = []string{"DEV1"}
	vendor := newStubVendor()

	c, sink := newTestController(NewBot("DEV1", opts), vendor, 0)
	defer c.Close()

	if err := c.Set(CharOn, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	sent := vendor.sentCommands()
	if len(sent) != 1 || sent[0].Command != "press" {
		t.Fatalf("sent = %+v, want one press", sent)
	}
	if v, _ := sink.Value(CharOn); v != false {
		t.Errorf("sink On = %v, want false after press", v)
	}
}

func TestControllerVendorRejectionFaults(t *testing.T) {
	vendor := newStubVendor()
	vendor.setAck(switchbot.CommandAck{StatusCode: 161, Message: "success"})
	vendor.setStatus(switchbot.Status{Power: "off"})

	c, sink := newTestController(NewPlug(), vendor, 0)
	defer c.Close()

	if err := c.Set(CharOn, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if !sink.Faulted(CharOn) {
		t.Fatal("expected On to be faulted after a device-offline rejection")
	}

	// Recovery: the next clean refresh clears the fault.
	vendor.setAck(switchbot.CommandAck{StatusCode: 100, Message: "success"})
	vendor.setStatus(switchbot.Status{Power: "on"})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sink.Faulted(CharOn) {
		t.Error("fault should clear on the next successful update")
	}
	if v, _ := sink.Value(CharOn); v != true {
		t.Errorf("sink On = %v, want true", v)
	}
}

func TestControllerRefreshErrorFaults(t *testing.T) {
	vendor := newStubVendor()
	vendor.statusErr = errors.New("connection reset")

	c, sink := newTestController(NewMeter(&config.Options{}), vendor, 0)
	defer c.Close()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if !sink.Faulted(CharCurrentTemperature) {
		t.Error("expected temperature faulted after refresh failure")
	}
}

func TestControllerPendingTargetTimesOut(t *testing.T) {
	vendor := newStubVendor()
	vendor.setStatus(switchbot.Status{SlidePosition: 80})

	sink := NewMemorySink()
	c := NewController(ControllerConfig{
		Info:           DeviceInfo{ID: "DEV1", Kind: switchbot.KindCurtain},
		API:            vendor,
		Strategy:       NewCurtain(curtainOpts(0, 100)),
		Sink:           sink,
		Debounce:       10 * time.Millisecond,
		PendingTimeout: 50 * time.Millisecond,
	})
	defer c.Close()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := c.Set(CharTargetPosition, float64(90)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// While pending, an at-rest poll must not overwrite the target.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := c.State().TargetPosition; got != 90 {
		t.Fatalf("TargetPosition = %d, want 90 while pending", got)
	}

	// After the timeout the poll reconciles the target with reality.
	time.Sleep(150 * time.Millisecond)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := c.State().TargetPosition; got != 20 {
		t.Errorf("TargetPosition = %d, want 20 after timeout", got)
	}
}

func TestControllerSetRejectsUnknownCharacteristic(t *testing.T) {
	vendor := newStubVendor()
	c, _ := newTestController(NewMeter(&config.Options{}), vendor, 0)
	defer c.Close()

	if err := c.Set(CharOn, true); !errors.Is(err, ErrNotSettable) {
		t.Errorf("err = %v, want ErrNotSettable", err)
	}
}

func TestControllerErrorIsolation(t *testing.T) {
	// One controller failing must not disturb another.
	broken := newStubVendor()
	broken.statusErr = errors.New("device offline")
	healthy := newStubVendor()
	healthy.setStatus(switchbot.Status{Power: "on"})

	c1, sink1 := newTestController(NewPlug(), broken, 0)
	c2, sink2 := newTestController(NewPlug(), healthy, 0)
	defer c1.Close()
	defer c2.Close()

	if err := c1.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error from broken vendor")
	}
	if err := c2.Refresh(context.Background()); err != nil {
		t.Fatalf("healthy refresh: %v", err)
	}

	if !sink1.Faulted(CharOn) {
		t.Error("broken controller should fault")
	}
	if sink2.Faulted(CharOn) {
		t.Error("healthy controller should not fault")
	}
	if v, _ := sink2.Value(CharOn); v != true {
		t.Errorf("healthy sink On = %v, want true", v)
	}
}
