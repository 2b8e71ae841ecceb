package genetics

import "github.com/tatianab/matchmaker/internal/models"

// Outcome thresholds split [0, 1) into thirds: Happy, Neutral, Bitter.
const (
	happyBelow  = 1.0 / 3
	bitterAbove = 2.0 / 3
)

// OutcomeFor maps a draw r in [0, 1) to an outcome. Draws exactly on a
// threshold are Neutral.
func OutcomeFor(r float64) models.Outcome {
	switch {
	case r < happyBelow:
		return models.OutcomeHappy
	case r > bitterAbove:
		return models.OutcomeBitter
	default:
		return models.OutcomeNeutral
	}
}

// DrawOutcome takes one draw and classifies it.
func DrawOutcome(src Source) models.Outcome {
	return OutcomeFor(src.Float64())
}
