package service

import (
	"fmt"
	"sync"

	"github.com/intego360/intego-ui/internal/domain/sector"
)

// SectorSelection holds the sector the navigation is currently showing.
// It always holds exactly one valid value and is never persisted.
type SectorSelection struct {
	mu      sync.RWMutex
	current sector.Sector
}

// NewSectorSelection starts at sector.Default.
func NewSectorSelection() *SectorSelection {
	return &SectorSelection{current: sector.Default}
}

// Current returns the selected sector.
func (s *SectorSelection) Current() sector.Sector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select changes the selection. Invalid values are rejected and the current
// selection is kept.
func (s *SectorSelection) Select(v sector.Sector) error {
	if !v.Valid() {
		return fmt.Errorf("select sector: unknown sector %q", v)
	}
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	return nil
}

// Follow updates the selection from a navigated path and reports whether the
// path belongs to a sector.
func (s *SectorSelection) Follow(path string) bool {
	v, ok := sector.FromPath(path)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	return true
}
