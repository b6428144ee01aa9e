package eq

import (
	"fmt"
	"sync/atomic"
)

// ParameterStore hands parameter snapshots from one control goroutine to
// one audio goroutine without locks. The writer publishes a fresh snapshot
// and bumps a version; the reader compares versions at block start and
// loads the snapshot only when it changed. Only the latest value matters.
type ParameterStore struct {
	current atomic.Pointer[Parameters]
	version atomic.Uint64
}

// NewParameterStore returns a store holding p, sanitized.
func NewParameterStore(p Parameters) *ParameterStore {
	s := &ParameterStore{}
	s.Store(p)
	return s
}

// Store publishes p. Control side only.
func (s *ParameterStore) Store(p Parameters) {
	snap := p.Sanitize()
	s.current.Store(&snap)
	s.version.Add(1)
}

// Load returns the latest snapshot.
func (s *ParameterStore) Load() Parameters {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return DefaultParameters()
}

// Version returns a counter that changes on every Store.
func (s *ParameterStore) Version() uint64 {
	return s.version.Load()
}

// Snapshot returns the version together with a snapshot at least as new as
// that version.
func (s *ParameterStore) Snapshot() (Parameters, uint64) {
	v := s.version.Load()
	return s.Load(), v
}

// SetValue updates one parameter by ID. Control side only: concurrent
// writers would lose updates.
func (s *ParameterStore) SetValue(id string, v float64) error {
	p := s.Load()
	if err := p.SetValue(id, v); err != nil {
		return err
	}
	s.Store(p)
	return nil
}

// SetNormalized updates one parameter from a [0, 1] host value.
func (s *ParameterStore) SetNormalized(id string, n float64) error {
	spec, ok := LookupParam(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	return s.SetValue(id, spec.Denormalize(n))
}

// MarshalBinary saves the latest snapshot.
func (s *ParameterStore) MarshalBinary() ([]byte, error) {
	return s.Load().MarshalBinary()
}

// UnmarshalBinary restores and publishes a saved snapshot.
func (s *ParameterStore) UnmarshalBinary(data []byte) error {
	var p Parameters
	if err := p.UnmarshalBinary(data); err != nil {
		return err
	}
	s.Store(p)
	return nil
}
