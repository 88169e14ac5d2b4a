package params

import (
	"fmt"
	"sort"
	"sync"
)

// Provider is the source of public parameters.
//
// Implementations must be safe for concurrent reads: several sharing
// operations may query the same Provider at once.
type Provider interface {
	// SubstationID returns the substation this client measures.
	SubstationID() int
	// Substation returns the sharing parameters of a substation.
	Substation(id int) (*Substation, error)
	// LinearPublicData returns the public data of aggregation fid at a substation.
	LinearPublicData(substationID, fid int) (*LinearPublicData, error)
}

type linearKey struct {
	substationID, fid int
}

// Static is an in-memory Provider.
// Parameters can be replaced at any time, for instance to rotate the current fid.
type Static struct {
	mu           sync.RWMutex
	substationID int
	substations  map[int]*Substation
	linear       map[linearKey]*LinearPublicData
}

// NewStatic returns a Provider for a client at substationID.
func NewStatic(substationID int, substations ...*Substation) *Static {
	s := &Static{
		substationID: substationID,
		substations:  make(map[int]*Substation, len(substations)),
		linear:       make(map[linearKey]*LinearPublicData),
	}
	for _, sub := range substations {
		s.substations[sub.ID] = sub
	}
	return s
}

// SubstationID implements Provider.
func (s *Static) SubstationID() int {
	return s.substationID
}

// Substation implements Provider.
func (s *Static) Substation(id int) (*Substation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.substations[id]
	if !ok {
		return nil, fmt.Errorf("substation %d: %w", id, ErrUnknownSubstation)
	}
	return sub, nil
}

// LinearPublicData implements Provider.
func (s *Static) LinearPublicData(substationID, fid int) (*LinearPublicData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.substations[substationID]; !ok {
		return nil, fmt.Errorf("substation %d: %w", substationID, ErrUnknownSubstation)
	}
	d, ok := s.linear[linearKey{substationID, fid}]
	if !ok {
		return nil, fmt.Errorf("substation %d, fid %d: %w", substationID, fid, ErrUnknownFid)
	}
	return d, nil
}

// SetSubstation adds or replaces the parameters of sub.ID.
func (s *Static) SetSubstation(sub *Substation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.substations[sub.ID] = sub
}

// SetLinearPublicData adds or replaces the public data of fid at a substation.
func (s *Static) SetLinearPublicData(substationID, fid int, d *LinearPublicData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linear[linearKey{substationID, fid}] = d
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
