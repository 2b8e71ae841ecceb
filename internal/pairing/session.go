package pairing

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tatianab/matchmaker/internal/models"
)

var (
	ErrEmptySlot    = errors.New("parent slot is empty")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrUnknownChild = errors.New("character is not a child of the pending result")
)

// Slot names one of the two parent positions.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

func (s Slot) valid() bool { return s == SlotA || s == SlotB }

// State is the phase of a session.
type State int

const (
	// StateIdle waits for a pairing between the two slots.
	StateIdle State = iota
	// StatePaired holds a result until a child is carried on or the
	// session is reset.
	StatePaired
)

func (s State) String() string {
	if s == StatePaired {
		return "paired"
	}
	return "idle"
}

// Session holds two parent slots and the pending pairing result.
// Every operation either fully succeeds or leaves the session untouched.
// A Session is not safe for concurrent use.
type Session struct {
	mm      *Matchmaker
	slots   [2]*models.NPC
	result  *models.PairingResult
	history []string
}

// NewSession returns an idle session with both slots empty.
func NewSession(mm *Matchmaker) *Session {
	return &Session{mm: mm}
}

func (s *Session) State() State {
	if s.result != nil {
		return StatePaired
	}
	return StateIdle
}

// Parent returns the occupant of slot, if any.
func (s *Session) Parent(slot Slot) (models.NPC, bool) {
	if !slot.valid() || s.slots[slot] == nil {
		return models.NPC{}, false
	}
	return s.slots[slot].Clone(), true
}

// Result returns the pending pairing result, if any.
func (s *Session) Result() (models.PairingResult, bool) {
	if s.result == nil {
		return models.PairingResult{}, false
	}
	return cloneResult(*s.result), true
}

func cloneResult(r models.PairingResult) models.PairingResult {
	children := make([]models.NPC, len(r.Children))
	for i, c := range r.Children {
		children[i] = c.Clone()
	}
	r.Children = children
	return r
}

// History returns every story told in this session, newest first.
func (s *Session) History() []string {
	return slices.Clone(s.history)
}

// Reset fills both slots with fresh first-generation characters and drops
// any pending result.
func (s *Session) Reset(ctx context.Context) error {
	a, err := s.mm.GenerateIndividual(ctx, 1, nil)
	if err != nil {
		return fmt.Errorf("reset slot %s: %w", SlotA, err)
	}
	b, err := s.mm.GenerateIndividual(ctx, 1, nil)
	if err != nil {
		return fmt.Errorf("reset slot %s: %w", SlotB, err)
	}

	s.slots = [2]*models.NPC{&a, &b}
	s.result = nil
	return nil
}

// Refresh replaces the occupant of slot with a fresh first-generation
// character. Only allowed while idle.
func (s *Session) Refresh(ctx context.Context, slot Slot) error {
	if !slot.valid() {
		return fmt.Errorf("refresh: unknown slot %s", slot)
	}
	if s.State() != StateIdle {
		return fmt.Errorf("refresh slot %s: %w", slot, ErrInvalidState)
	}

	npc, err := s.mm.GenerateIndividual(ctx, 1, nil)
	if err != nil {
		return fmt.Errorf("refresh slot %s: %w", slot, err)
	}
	s.slots[slot] = &npc
	return nil
}

// Pair pairs the two slots and keeps the result pending.
func (s *Session) Pair(ctx context.Context) (models.PairingResult, error) {
	if s.State() != StateIdle {
		return models.PairingResult{}, fmt.Errorf("pair: %w", ErrInvalidState)
	}
	for _, slot := range []Slot{SlotA, SlotB} {
		if s.slots[slot] == nil {
			return models.PairingResult{}, fmt.Errorf("pair: slot %s: %w", slot, ErrEmptySlot)
		}
	}

	result, err := s.mm.Pair(ctx, *s.slots[SlotA], *s.slots[SlotB])
	if err != nil {
		return models.PairingResult{}, fmt.Errorf("pair: %w", err)
	}

	s.result = &result
	s.history = append([]string{result.Story}, s.history...)
	return cloneResult(result), nil
}

// ContinueLineage puts child, a child of the pending result, into slot and
// clears the result.
func (s *Session) ContinueLineage(child models.NPC, slot Slot) error {
	if !slot.valid() {
		return fmt.Errorf("continue lineage: unknown slot %s", slot)
	}
	if s.State() != StatePaired {
		return fmt.Errorf("continue lineage: %w", ErrInvalidState)
	}

	i := slices.IndexFunc(s.result.Children, func(c models.NPC) bool { return c.ID == child.ID })
	if i < 0 {
		return fmt.Errorf("continue lineage: %s: %w", child.ID, ErrUnknownChild)
	}

	chosen := s.result.Children[i]
	s.slots[slot] = &chosen
	s.result = nil
	return nil
}
