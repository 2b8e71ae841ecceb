// Package pairing runs pairing events between two characters and keeps the
// two-slot session that chains them into a lineage.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tatianab/matchmaker/internal/genetics"
	"github.com/tatianab/matchmaker/internal/models"
)

// MaxOffspring is the largest number of children one pairing produces.
const MaxOffspring = 5

// ErrCollaborator wraps every failure of the Narrator.
var ErrCollaborator = errors.New("narrator failed")

// Narrator writes the flavor text the simulation cannot compute.
type Narrator interface {
	// DescribeCharacter returns the narrative for a character whose traits
	// and generation are already final.
	DescribeCharacter(ctx context.Context, npc models.NPC) (models.Narrative, error)
	// TellStory returns the story of the marriage of a and b.
	TellStory(ctx context.Context, a, b models.NPC, outcome models.Outcome) (string, error)
}

// Plan is the computed part of a pairing, before any narration.
type Plan struct {
	Outcome    models.Outcome
	Generation int
	Children   []models.Traits
}

// Matchmaker creates characters and pairs them.
type Matchmaker struct {
	src      genetics.Source
	narrator Narrator
	logger   *slog.Logger
	newID    func() string
}

func NewMatchmaker(src genetics.Source, narrator Narrator, logger *slog.Logger) *Matchmaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matchmaker{
		src:      src,
		narrator: narrator,
		logger:   logger.With("component", "matchmaker"),
		newID:    uuid.NewString,
	}
}

// GenerateIndividual creates a narrated character of the given generation.
// When base is nil the traits are rolled; otherwise base is used verbatim.
func (m *Matchmaker) GenerateIndividual(ctx context.Context, generation int, base *models.Traits) (models.NPC, error) {
	if generation < 1 {
		return models.NPC{}, fmt.Errorf("%w: generation %d, must be at least 1", models.ErrInvalidCharacter, generation)
	}

	var traits models.Traits
	if base != nil {
		if err := base.Validate(); err != nil {
			return models.NPC{}, err
		}
		traits = *base
	} else {
		traits = genetics.Roll(m.src)
	}

	return m.narrate(ctx, generation, traits)
}

// Plan draws the outcome, the number of children and every child's traits.
// It does no I/O.
//
// Draw order: outcome, child count, then ten draws per child in index order
// (see genetics.Inherit).
func (m *Matchmaker) Plan(a, b models.NPC) (Plan, error) {
	if err := a.Validate(); err != nil {
		return Plan{}, fmt.Errorf("first parent: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Plan{}, fmt.Errorf("second parent: %w", err)
	}

	outcome := genetics.DrawOutcome(m.src)
	count := OffspringCount(m.src)

	plan := Plan{
		Outcome:    outcome,
		Generation: max(a.Generation, b.Generation) + 1,
		Children:   make([]models.Traits, 0, count),
	}
	parentA, parentB := a.Traits(), b.Traits()
	for range count {
		child := genetics.Inherit(m.src, parentA, parentB)
		child.SocialClass = child.SocialClass.Shift(outcome.Mobility())
		plan.Children = append(plan.Children, child)
	}

	m.logger.Debug("planned pairing",
		"first", a.ID, "second", b.ID,
		"outcome", plan.Outcome, "children", count, "generation", plan.Generation)
	return plan, nil
}

// Pair runs one pairing event between a and b. It either returns a complete
// result or an error; nothing computed for a failed pairing survives.
func (m *Matchmaker) Pair(ctx context.Context, a, b models.NPC) (models.PairingResult, error) {
	plan, err := m.Plan(a, b)
	if err != nil {
		return models.PairingResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return models.PairingResult{}, err
	}

	story, err := m.narrator.TellStory(ctx, a, b, plan.Outcome)
	if err != nil {
		m.logger.Warn("story request failed", "error", err)
		return models.PairingResult{}, fmt.Errorf("%w: tell story: %w", ErrCollaborator, err)
	}
	if story == "" {
		return models.PairingResult{}, fmt.Errorf("%w: tell story: empty story", ErrCollaborator)
	}

	children := make([]models.NPC, 0, len(plan.Children))
	for i, traits := range plan.Children {
		child, err := m.narrate(ctx, plan.Generation, traits)
		if err != nil {
			return models.PairingResult{}, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}

	m.logger.Info("pairing complete",
		"first", a.ID, "second", b.ID,
		"outcome", plan.Outcome, "children", len(children))
	return models.PairingResult{
		Outcome:  plan.Outcome,
		Story:    story,
		Children: children,
	}, nil
}

func (m *Matchmaker) narrate(ctx context.Context, generation int, traits models.Traits) (models.NPC, error) {
	if err := ctx.Err(); err != nil {
		return models.NPC{}, err
	}

	npc := models.NewNPC(m.newID(), generation, traits, models.Narrative{})
	narrative, err := m.narrator.DescribeCharacter(ctx, npc)
	if err != nil {
		m.logger.Warn("character request failed", "id", npc.ID, "error", err)
		return models.NPC{}, fmt.Errorf("%w: describe character: %w", ErrCollaborator, err)
	}
	return models.NewNPC(npc.ID, generation, traits, narrative), nil
}

// OffspringCount draws a child count uniformly from [1, MaxOffspring].
func OffspringCount(src genetics.Source) int {
	n := int(src.Float64()*MaxOffspring) + 1
	return min(n, MaxOffspring)
}
