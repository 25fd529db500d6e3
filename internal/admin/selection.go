package admin

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

var (
	ErrNotSelectable    = errors.New("member cannot be selected")
	ErrNothingSelected  = errors.New("no members selected")
	ErrNoPendingRemoval = errors.New("no removal awaiting confirmation")
)

// CanSelect reports whether a member may be selected for removal. The owner
// and the viewer themself never can.
func CanSelect(m types.Member, selfID int64) bool {
	return !m.IsOwner() && m.ID != selfID
}

// Selectable returns the members that may be selected.
func Selectable(members []types.Member, selfID int64) []types.Member {
	var out []types.Member
	for _, m := range members {
		if CanSelect(m, selfID) {
			out = append(out, m)
		}
	}
	return out
}

// Selection tracks which members are ticked and which removal awaits confirmation.
type Selection struct {
	selected map[int64]struct{}
	pending  []int64
}

// NewSelection creates an empty Selection.
func NewSelection() *Selection {
	return &Selection{selected: make(map[int64]struct{})}
}

// Toggle flips the selection of one member.
func (s *Selection) Toggle(members []types.Member, selfID, memberID int64) error {
	m, ok := findMember(members, memberID)
	if !ok || !CanSelect(m, selfID) {
		return fmt.Errorf("%w: %d", ErrNotSelectable, memberID)
	}

	if _, on := s.selected[memberID]; on {
		delete(s.selected, memberID)
	} else {
		s.selected[memberID] = struct{}{}
	}
	return nil
}

// SelectAll selects every selectable member, or clears the selection when
// all of them are already selected.
func (s *Selection) SelectAll(members []types.Member, selfID int64) {
	selectable := Selectable(members, selfID)

	all := len(selectable) > 0
	for _, m := range selectable {
		if _, on := s.selected[m.ID]; !on {
			all = false
			break
		}
	}

	clear(s.selected)
	if all {
		return
	}
	for _, m := range selectable {
		s.selected[m.ID] = struct{}{}
	}
}

// Clear drops the selection and any pending removal.
func (s *Selection) Clear() {
	clear(s.selected)
	s.pending = nil
}

// IDs returns the selected member ids in ascending order.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Prune drops selected ids that are no longer selectable in members.
func (s *Selection) Prune(members []types.Member, selfID int64) {
	for id := range s.selected {
		if m, ok := findMember(members, id); !ok || !CanSelect(m, selfID) {
			delete(s.selected, id)
		}
	}
}

// Request stages a removal. With no ids the current selection is staged.
func (s *Selection) Request(members []types.Member, selfID int64, ids ...int64) ([]int64, error) {
	if len(ids) == 0 {
		ids = s.IDs()
	}
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}

	for _, id := range ids {
		m, ok := findMember(members, id)
		if !ok || !CanSelect(m, selfID) {
			return nil, fmt.Errorf("%w: %d", ErrNotSelectable, id)
		}
	}

	s.pending = slices.Clone(ids)
	return slices.Clone(s.pending), nil
}

// Pending returns the staged removal.
func (s *Selection) Pending() []int64 {
	return slices.Clone(s.pending)
}

// Cancel drops the staged removal and keeps the selection.
func (s *Selection) Cancel() {
	s.pending = nil
}

func findMember(members []types.Member, id int64) (types.Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return types.Member{}, false
}
