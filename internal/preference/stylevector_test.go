package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nper79/styleai/pkg/models"
)

func TestApplyReasonDeltas_ClampsToUnitInterval(t *testing.T) {
	v := models.DefaultStyleVector()
	v.Comfort = 0.98

	for i := 0; i < 10; i++ {
		ApplyReasonDeltas(&v, models.FeedbackDislike, []models.FeedbackReason{models.ReasonFit})
	}

	assert.Equal(t, 1.0, v.Comfort, "comfort clamps at 1")
}

func TestApplyReasonDeltas_DislikeFitRaisesComfort(t *testing.T) {
	v := models.DefaultStyleVector()

	ApplyReasonDeltas(&v, models.FeedbackDislike, []models.FeedbackReason{models.ReasonFit})

	assert.InDelta(t, 0.75, v.Comfort, 1e-9)
}

func TestApplyReasonDeltas_VibeReasonMovesTrendiness(t *testing.T) {
	v := models.DefaultStyleVector()

	ApplyReasonDeltas(&v, models.FeedbackLike, []models.FeedbackReason{models.ReasonOverallVibe})
	assert.InDelta(t, 0.55, v.Trendiness, 1e-9)

	ApplyReasonDeltas(&v, models.FeedbackDislike, []models.FeedbackReason{models.ReasonOverallVibe})
	assert.InDelta(t, 0.5, v.Trendiness, 1e-9)
}

func TestApplyReasonDeltas_UnmappedReasonIsNoOp(t *testing.T) {
	v := models.DefaultStyleVector()

	ApplyReasonDeltas(&v, models.FeedbackLike, []models.FeedbackReason{models.ReasonShoes})

	assert.Equal(t, models.DefaultStyleVector(), v)
}
