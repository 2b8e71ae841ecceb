package pairing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/matchmaker/internal/genetics"
	"github.com/tatianab/matchmaker/internal/models"
)

func newTestSession(t *testing.T, n *fakeNarrator) *Session {
	t.Helper()
	s := NewSession(newTestMatchmaker(genetics.NewSource(31), n))
	require.NoError(t, s.Reset(context.Background()))
	return s
}

func parents(t *testing.T, s *Session) (models.NPC, models.NPC) {
	t.Helper()
	a, ok := s.Parent(SlotA)
	require.True(t, ok)
	b, ok := s.Parent(SlotB)
	require.True(t, ok)
	return a, b
}

func TestSessionReset(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})

	assert.Equal(t, StateIdle, s.State())
	a, b := parents(t, s)
	assert.Equal(t, 1, a.Generation)
	assert.Equal(t, 1, b.Generation)
	assert.NotEqual(t, a.ID, b.ID)

	_, err := s.Pair(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Reset(context.Background()))
	assert.Equal(t, StateIdle, s.State())
	_, ok := s.Result()
	assert.False(t, ok)
}

func TestSessionResetFailureKeepsSlots(t *testing.T) {
	n := &fakeNarrator{}
	s := newTestSession(t, n)
	a, b := parents(t, s)

	n.describeErr = errors.New("offline")
	n.failOnCall = n.describeCalls + 2
	err := s.Reset(context.Background())
	require.ErrorIs(t, err, ErrCollaborator)

	gotA, gotB := parents(t, s)
	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)
}

func TestSessionPairEmptySlot(t *testing.T) {
	s := NewSession(newTestMatchmaker(genetics.NewSource(1), &fakeNarrator{}))
	require.NoError(t, s.Refresh(context.Background(), SlotA))

	_, err := s.Pair(context.Background())
	assert.ErrorIs(t, err, ErrEmptySlot)
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionPairAndHistory(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})

	result, err := s.Pair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatePaired, s.State())

	pending, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, result, pending)
	assert.Equal(t, []string{result.Story}, s.History())

	_, err = s.Pair(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState, "a pending result must be resolved first")
	assert.ErrorIs(t, s.Refresh(context.Background(), SlotB), ErrInvalidState)

	require.NoError(t, s.ContinueLineage(result.Children[0], SlotB))
	second, err := s.Pair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{second.Story, result.Story}, s.History(), "history is newest first")
}

func TestSessionStoryFailureLeavesSlotsUnchanged(t *testing.T) {
	n := &fakeNarrator{}
	s := newTestSession(t, n)
	a, b := parents(t, s)

	n.storyErr = errors.New("timeout")
	_, err := s.Pair(context.Background())
	require.ErrorIs(t, err, ErrCollaborator)

	assert.Equal(t, StateIdle, s.State())
	_, ok := s.Result()
	assert.False(t, ok)
	assert.Empty(t, s.History())
	gotA, gotB := parents(t, s)
	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)

	// The failed attempt leaves nothing behind, so retrying works.
	n.storyErr = nil
	_, err = s.Pair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatePaired, s.State())
}

func TestSessionContinueLineage(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})
	_, b := parents(t, s)

	result, err := s.Pair(context.Background())
	require.NoError(t, err)
	child := result.Children[len(result.Children)-1]

	require.NoError(t, s.ContinueLineage(child, SlotA))

	assert.Equal(t, StateIdle, s.State())
	_, ok := s.Result()
	assert.False(t, ok)
	gotA, gotB := parents(t, s)
	assert.Equal(t, child, gotA)
	assert.Equal(t, b, gotB)
	assert.Equal(t, 2, gotA.Generation)
}

func TestSessionContinueLineageErrors(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})
	a, _ := parents(t, s)

	assert.ErrorIs(t, s.ContinueLineage(a, SlotA), ErrInvalidState)

	_, err := s.Pair(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, s.ContinueLineage(a, SlotB), ErrUnknownChild)
	assert.Equal(t, StatePaired, s.State())
	result, _ := s.Result()
	assert.Error(t, s.ContinueLineage(result.Children[0], Slot(7)))
}

func TestSessionLineageGenerationsIncrease(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})

	prev := 1
	for round := range 6 {
		result, err := s.Pair(context.Background())
		require.NoError(t, err)

		a, b := parents(t, s)
		want := max(a.Generation, b.Generation) + 1
		for _, child := range result.Children {
			require.Equal(t, want, child.Generation)
		}
		require.GreaterOrEqual(t, want, prev)
		prev = want

		slot := SlotA
		if round%2 == 1 {
			slot = SlotB
		}
		require.NoError(t, s.ContinueLineage(result.Children[0], slot))
	}
	// Alternating slots keeps both sides of the lineage growing.
	a, b := parents(t, s)
	assert.Equal(t, 7, max(a.Generation, b.Generation))
}

func TestSessionResultIsACopy(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})
	result, err := s.Pair(context.Background())
	require.NoError(t, err)

	result.Children[0].Combat.Value = -1
	pending, _ := s.Result()
	assert.NotEqual(t, -1, pending.Children[0].Combat.Value)
}

func TestSessionRecordsDoNotShareSlices(t *testing.T) {
	s := newTestSession(t, &fakeNarrator{})

	a, _ := parents(t, s)
	require.NotEmpty(t, a.Tags)
	a.Tags[0] = "changed"
	gotA, _ := parents(t, s)
	assert.Equal(t, "test", gotA.Tags[0])

	result, err := s.Pair(context.Background())
	require.NoError(t, err)
	result.Children[0].Tags[0] = "changed"
	pending, _ := s.Result()
	assert.Equal(t, "test", pending.Children[0].Tags[0])

	pending.Children[0].Tags[0] = "changed"
	again, _ := s.Result()
	assert.Equal(t, "test", again.Children[0].Tags[0])
}
