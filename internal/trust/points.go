package trust

import (
	"github.com/mamamaps/backend/internal/models"
)

// Point awards for the two rewarded actions.
const (
	SubmissionPoints   = 10
	VerificationPoints = 5
)

// AwardForSubmission credits a report submission: points go up by amount and
// the submission counter advances by one. Operates on the snapshot and
// returns the updated copy; the persistence layer applies the same deltas
// with an atomic increment.
func AwardForSubmission(profile models.Profile, amount int) models.Profile {
	profile.Points += amount
	profile.ReportsCount++
	return profile
}

// AwardForVerification credits a verification vote. The submission counter
// is untouched. Which operation applies is decided by call site intent, not
// inferred from the amount.
func AwardForVerification(profile models.Profile, amount int) models.Profile {
	profile.Points += amount
	return profile
}
