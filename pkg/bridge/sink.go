package bridge

import "sync"

// CharacteristicSink receives characteristic updates from a controller.
// Implementations adapt the bridge to a host accessory layer.
type CharacteristicSink interface {
	// Update publishes a fresh value for a characteristic.
	Update(name Characteristic, value any)
	// Fault marks a characteristic as unreadable after a vendor failure.
	// The next successful Update clears the fault.
	Fault(name Characteristic)
}

// MemorySink is an in-memory CharacteristicSink. It backs the REST and MCP
// surfaces and the tests.
type MemorySink struct {
	mu      sync.Mutex
	values  map[Characteristic]any
	faulted map[Characteristic]bool
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		values:  make(map[Characteristic]any),
		faulted: make(map[Characteristic]bool),
	}
}

func (s *MemorySink) Update(name Characteristic, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	delete(s.faulted, name)
}

func (s *MemorySink) Fault(name Characteristic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faulted[name] = true
}

// Value returns the last published value for a characteristic.
func (s *MemorySink) Value(name Characteristic) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// Faulted reports whether a characteristic is currently in a fault state.
func (s *MemorySink) Faulted(name Characteristic) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faulted[name]
}

// Snapshot returns a copy of all published values keyed by characteristic
// name, suitable for JSON encoding.
func (s *MemorySink) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[string(k)] = v
	}
	return out
}

// Faults returns the names of all characteristics currently faulted.
func (s *MemorySink) Faults() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.faulted))
	for k := range s.faulted {
		out = append(out, string(k))
	}
	return out
}
