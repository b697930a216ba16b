package repository

import (
	"sync"

	"github.com/matthewbaird/umlgen/internal/uml"
)

// Selection tracks the elements a user has selected, in selection order.
type Selection struct {
	mu       sync.RWMutex
	elements []uml.Element
}

// NewSelection returns a selection holding els.
func NewSelection(els ...uml.Element) *Selection {
	s := &Selection{}
	s.Select(els...)
	return s
}

// Select replaces the selection.
func (s *Selection) Select(els ...uml.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = append([]uml.Element(nil), els...)
}

// Add appends to the selection, skipping elements already selected.
func (s *Selection) Add(els ...uml.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range els {
		dup := false
		for _, cur := range s.elements {
			if cur.ElementID() == el.ElementID() {
				dup = true
				break
			}
		}
		if !dup {
			s.elements = append(s.elements, el)
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = nil
}

// SelectedModels returns a copy of the selection.
func (s *Selection) SelectedModels() []uml.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uml.Element(nil), s.elements...)
}
