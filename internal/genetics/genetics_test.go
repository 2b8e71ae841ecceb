package genetics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/matchmaker/internal/models"
)

func parents() (models.Traits, models.Traits) {
	a := models.Traits{
		Race:            models.RaceHuman,
		SocialClass:     models.ClassMerchant,
		AppearanceScore: 90,
		HairColor:       "Golden",
		EyeColor:        "Amber",
		FaceShape:       "Round",
		EyeShape:        "Gentle",
		Combat:          80,
		Constitution:    0,
		Intelligence:    100,
	}
	b := models.Traits{
		Race:            models.RaceDwarf,
		SocialClass:     models.ClassSerf,
		AppearanceScore: 20,
		HairColor:       "Ash Grey",
		EyeColor:        "Obsidian",
		FaceShape:       "Broad",
		EyeShape:        "Sharp",
		Combat:          40,
		Constitution:    3,
		Intelligence:    97,
	}
	return a, b
}

func TestInheritValueMidpoint(t *testing.T) {
	// A draw of one half is zero noise.
	assert.Equal(t, 60, InheritValue(NewReplay(0.5), 80, 40))
	assert.Equal(t, 50, InheritValue(NewReplay(0.5), 50, 51), "midpoint 50.5 floors to 50")
}

func TestInheritValueNoiseBounds(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		v1, v2 int
		want   int
	}{
		{"lowest draw", 0, 50, 50, 40},
		// 50 + 9.999999999999998 rounds to 60 in float64.
		{"highest draw", math.Nextafter(1, 0), 50, 50, 60},
		{"high draw", 0.9, 50, 50, 58},
		{"quarter draw", 0.25, 60, 60, 55},
		{"clamped at floor", 0, 2, 4, 0},
		{"clamped at ceiling", 0.99, 100, 98, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InheritValue(NewReplay(tt.draw), tt.v1, tt.v2))
		})
	}
}

func TestInheritValueAlwaysInRange(t *testing.T) {
	src := NewSource(7)
	for v1 := 0; v1 <= 100; v1 += 5 {
		for v2 := 0; v2 <= 100; v2 += 5 {
			for range 20 {
				got := InheritValue(src, v1, v2)
				require.GreaterOrEqual(t, got, models.MinTrait)
				require.LessOrEqual(t, got, models.MaxTrait)
				mid := float64(v1+v2) / 2
				require.LessOrEqual(t, math.Abs(float64(got)-mid), Variance+1)
			}
		}
	}
}

func TestPick(t *testing.T) {
	assert.Equal(t, "a", Pick(NewReplay(0.49), "a", "b"))
	assert.Equal(t, "b", Pick(NewReplay(0.5), "a", "b"))
	assert.Equal(t, models.RaceOrc, Pick(SourceFunc(func() float64 { return 0.75 }), models.RaceElf, models.RaceOrc))
}

func TestInheritDrawOrder(t *testing.T) {
	a, b := parents()
	// Race and hair from a, everything else categorical from b, scores at midpoint.
	src := NewReplay(0.1, 0.9, 0.1, 0.9, 0.9, 0.9, 0.5, 0.5, 0.5, 0.5)

	child := Inherit(src, a, b)

	assert.Equal(t, 10, src.Used())
	assert.Equal(t, models.Traits{
		Race:            models.RaceHuman,
		SocialClass:     models.ClassSerf,
		AppearanceScore: 55,
		HairColor:       "Golden",
		EyeColor:        "Obsidian",
		FaceShape:       "Broad",
		EyeShape:        "Sharp",
		Combat:          60,
		Constitution:    1,
		Intelligence:    98,
	}, child)
}

func TestInheritCategoricalIsNeverBlended(t *testing.T) {
	a, b := parents()
	src := NewSource(42)
	for range 500 {
		child := Inherit(src, a, b)
		assert.Contains(t, []models.Race{a.Race, b.Race}, child.Race)
		assert.Contains(t, []models.SocialClass{a.SocialClass, b.SocialClass}, child.SocialClass)
		assert.Contains(t, []models.HairColor{a.HairColor, b.HairColor}, child.HairColor)
		assert.Contains(t, []models.EyeColor{a.EyeColor, b.EyeColor}, child.EyeColor)
		assert.Contains(t, []models.FaceShape{a.FaceShape, b.FaceShape}, child.FaceShape)
		assert.Contains(t, []models.EyeShape{a.EyeShape, b.EyeShape}, child.EyeShape)
	}
}

func TestRollProducesValidTraits(t *testing.T) {
	src := NewSource(3)
	for range 200 {
		require.NoError(t, Roll(src).Validate())
	}
	// The top of [0, 1) still lands inside every domain.
	top := Roll(NewReplay(math.Nextafter(1, 0)))
	assert.Equal(t, models.RaceTiefling, top.Race)
	assert.Equal(t, models.ClassRoyalty, top.SocialClass)
	assert.Equal(t, 100, top.Combat)
	assert.Equal(t, models.EyeShapes[len(models.EyeShapes)-1], top.EyeShape)
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		draw float64
		want models.Outcome
	}{
		{0, models.OutcomeHappy},
		{0.3333, models.OutcomeHappy},
		// Draws exactly on a threshold fall into Neutral.
		{1.0 / 3, models.OutcomeNeutral},
		{0.5, models.OutcomeNeutral},
		{2.0 / 3, models.OutcomeNeutral},
		{0.6667, models.OutcomeBitter},
		{math.Nextafter(1, 0), models.OutcomeBitter},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutcomeFor(tt.draw), "draw %v", tt.draw)
	}
}

func TestDrawOutcomeDistribution(t *testing.T) {
	const trials = 90000
	src := NewSource(2024)
	counts := map[models.Outcome]int{}
	for range trials {
		counts[DrawOutcome(src)]++
	}
	for _, o := range []models.Outcome{models.OutcomeHappy, models.OutcomeNeutral, models.OutcomeBitter} {
		share := float64(counts[o]) / trials
		assert.InDelta(t, 1.0/3, share, 0.01, "share of %s", o)
	}
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a, b := NewSource(99), NewSource(99)
	for range 10 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	_, err := NewSeed()
	require.NoError(t, err)
}
