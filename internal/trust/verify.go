package trust

import (
	"time"

	"github.com/mamamaps/backend/internal/models"
)

// VerifyRadiusMeters is the proximity gate: only a verifier within this
// distance of a report is trusted to vote on it. Proof-of-presence, not a
// tunable.
const VerifyRadiusMeters = 150.0

// Decision is the outcome of evaluating a verification attempt. Only
// DecisionEligible permits a vote; the rest are valid terminal states the
// caller renders as disabled affordances, not errors.
type Decision string

const (
	DecisionEligible   Decision = "eligible"
	DecisionSelfReport Decision = "self-report"
	DecisionExpired    Decision = "expired"
	DecisionTooFar     Decision = "too-far"
)

// Evaluation is the result of a verification eligibility check.
type Evaluation struct {
	Decision       Decision
	DistanceMeters float64
}

// Evaluate decides whether verifierID standing at (lat, lng) may vote on the
// report at now. Precedence: self-report, then expiry, then distance.
// Malformed coordinates fail with ErrInvalidCoordinates; decisions never do.
func Evaluate(report *models.Report, lat, lng float64, verifierID string, now time.Time) (Evaluation, error) {
	if !models.ValidCoordinates(lat, lng) {
		return Evaluation{}, ErrInvalidCoordinates
	}

	distance := DistanceMeters(lat, lng, report.Latitude, report.Longitude)

	switch {
	case verifierID == report.ReporterID:
		return Evaluation{Decision: DecisionSelfReport, DistanceMeters: distance}, nil
	case !IsVisible(report, now):
		return Evaluation{Decision: DecisionExpired, DistanceMeters: distance}, nil
	case distance >= VerifyRadiusMeters:
		return Evaluation{Decision: DecisionTooFar, DistanceMeters: distance}, nil
	}
	return Evaluation{Decision: DecisionEligible, DistanceMeters: distance}, nil
}

// VerifiedCountDelta maps a vote to the increment applied to the report's
// verified counter: +1 for "still there", -1 for "not there". There is no
// floor; repeated denials may drive the counter negative.
func VerifiedCountDelta(confirmed bool) int {
	if confirmed {
		return 1
	}
	return -1
}
