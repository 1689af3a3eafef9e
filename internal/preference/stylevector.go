package preference

import "github.com/nper79/styleai/pkg/models"

// vectorDelta is one adjustment to a style-vector component.
type vectorDelta struct {
	apply func(*models.StyleVector, float64)
	delta float64
}

// dislikeDeltas maps dislike micro-reasons to style-vector adjustments.
// The magnitudes are intentionally small: the vector is a slow-moving lean,
// not the primary preference signal.
var dislikeDeltas = map[models.FeedbackReason][]vectorDelta{
	models.ReasonFit: {
		{apply: func(v *models.StyleVector, d float64) { v.Comfort += d }, delta: +0.05},
	},
	models.ReasonColor: {
		{apply: func(v *models.StyleVector, d float64) { v.ColorNeutrality += d }, delta: +0.05},
	},
	models.ReasonPattern: {
		{apply: func(v *models.StyleVector, d float64) { v.Minimalism += d }, delta: +0.05},
	},
	models.ReasonOverallVibe: {
		{apply: func(v *models.StyleVector, d float64) { v.Trendiness += d }, delta: -0.05},
	},
}

// likeDeltas maps like micro-reasons to style-vector adjustments.
var likeDeltas = map[models.FeedbackReason][]vectorDelta{
	models.ReasonPattern: {
		{apply: func(v *models.StyleVector, d float64) { v.Minimalism += d }, delta: -0.05},
	},
	models.ReasonOverallVibe: {
		{apply: func(v *models.StyleVector, d float64) { v.Trendiness += d }, delta: +0.05},
	},
}

// ApplyReasonDeltas nudges the style vector from explicit feedback reasons
// and clamps every component back to [0,1].
func ApplyReasonDeltas(v *models.StyleVector, feedback models.FeedbackType, reasons []models.FeedbackReason) {
	table := likeDeltas
	if feedback == models.FeedbackDislike {
		table = dislikeDeltas
	}

	for _, reason := range reasons {
		for _, d := range table[reason] {
			d.apply(v, d.delta)
		}
	}

	v.Clamp()
}
