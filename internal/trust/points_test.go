package trust

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/models"
)

func TestAwardForSubmission(t *testing.T) {
	p := models.Profile{UserID: "u1", Points: 5, ReportsCount: 2}

	updated := AwardForSubmission(p, SubmissionPoints)

	require.Equal(t, 15, updated.Points)
	require.Equal(t, 3, updated.ReportsCount)

	// Snapshot semantics: the input is untouched.
	require.Equal(t, 5, p.Points)
	require.Equal(t, 2, p.ReportsCount)
}

func TestAwardForVerification(t *testing.T) {
	p := models.Profile{UserID: "u1", Points: 5, ReportsCount: 2}

	updated := AwardForVerification(p, VerificationPoints)

	require.Equal(t, 10, updated.Points)
	require.Equal(t, 2, updated.ReportsCount, "verification must not advance reports_count")
}

func TestLedgerProgression(t *testing.T) {
	// A fresh profile submits five reports, then verifies someone else's.
	p := models.Profile{UserID: "u1"}

	p = AwardForSubmission(p, SubmissionPoints)
	require.Equal(t, 10, p.Points)
	require.Equal(t, 1, p.ReportsCount)
	require.Equal(t, "Constable", RankFor(p.Points))

	for i := 0; i < 4; i++ {
		p = AwardForSubmission(p, SubmissionPoints)
	}
	require.Equal(t, 50, p.Points)
	require.Equal(t, 5, p.ReportsCount)
	require.Equal(t, "Sub Inspector", RankFor(p.Points))

	p = AwardForVerification(p, VerificationPoints)
	require.Equal(t, 55, p.Points)
	require.Equal(t, 5, p.ReportsCount)
}
