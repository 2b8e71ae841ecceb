package genetics

import (
	"math"

	"github.com/tatianab/matchmaker/internal/models"
)

// Variance is the largest distance an inherited score may land from the
// parents' midpoint before clamping.
const Variance = 10.0

// InheritValue derives a child's score from two parent scores: the midpoint
// plus uniform noise within ±Variance, floored and clamped to the trait
// range. It takes exactly one draw.
func InheritValue(src Source, v1, v2 int) int {
	base := float64(v1+v2) / 2
	noise := (src.Float64() - 0.5) * 2 * Variance
	return models.ClampTrait(int(math.Floor(base + noise)))
}

// Pick returns one parent's value verbatim: a when the draw is below one
// half, b otherwise. It takes exactly one draw.
func Pick[T any](src Source, a, b T) T {
	if src.Float64() < 0.5 {
		return a
	}
	return b
}

// Inherit computes a child's traits from two parents. Categorical traits are
// picked independently, scores are inherited around the midpoint. The
// social class is the picked parent's class; mobility is applied by the
// caller.
//
// Draw order is fixed: race, social class, hair color, eye color, face
// shape, eye shape, then appearance, combat, constitution and intelligence
// scores. Inherit always takes ten draws.
func Inherit(src Source, a, b models.Traits) models.Traits {
	var child models.Traits
	child.Race = Pick(src, a.Race, b.Race)
	child.SocialClass = Pick(src, a.SocialClass, b.SocialClass)
	child.HairColor = Pick(src, a.HairColor, b.HairColor)
	child.EyeColor = Pick(src, a.EyeColor, b.EyeColor)
	child.FaceShape = Pick(src, a.FaceShape, b.FaceShape)
	child.EyeShape = Pick(src, a.EyeShape, b.EyeShape)
	child.AppearanceScore = InheritValue(src, a.AppearanceScore, b.AppearanceScore)
	child.Combat = InheritValue(src, a.Combat, b.Combat)
	child.Constitution = InheritValue(src, a.Constitution, b.Constitution)
	child.Intelligence = InheritValue(src, a.Intelligence, b.Intelligence)
	return child
}

// choose returns a uniformly drawn element of domain.
func choose[T any](src Source, domain []T) T {
	i := int(src.Float64() * float64(len(domain)))
	return domain[min(i, len(domain)-1)]
}

// rollScore draws a uniform score over the whole trait range.
func rollScore(src Source) int {
	return models.ClampTrait(int(src.Float64() * float64(models.MaxTrait+1)))
}

// Roll draws the traits of a fresh individual with no parents.
func Roll(src Source) models.Traits {
	return models.Traits{
		Race:            choose(src, models.Races),
		SocialClass:     choose(src, models.SocialClasses()),
		Combat:          rollScore(src),
		Constitution:    rollScore(src),
		Intelligence:    rollScore(src),
		AppearanceScore: rollScore(src),
		HairColor:       choose(src, models.HairColors),
		EyeColor:        choose(src, models.EyeColors),
		FaceShape:       choose(src, models.FaceShapes),
		EyeShape:        choose(src, models.EyeShapes),
	}
}
