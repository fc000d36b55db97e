package matching

import "github.com/MeganHarrison/fireflies-transcripts/core"

// Confidence thresholds of the assignment bands.
const (
	// AutoAssignThreshold is the confidence at or above which a match is
	// assigned without review.
	AutoAssignThreshold = 0.7

	// ReviewThreshold is the confidence at or above which a match is
	// assigned but flagged for human review.
	ReviewThreshold = 0.4
)

// DetermineAssignment maps a match result onto an assignment decision.
// Confidence at or above AutoAssignThreshold assigns outright, confidence
// in [ReviewThreshold, AutoAssignThreshold) assigns with a review flag, and
// anything lower leaves the meeting unassigned. A nil match means no
// assignment.
func DetermineAssignment(match *core.MatchResult) core.Assignment {
	if match == nil {
		return core.Assignment{}
	}

	assignment := core.Assignment{Confidence: match.Confidence}
	switch {
	case match.Confidence >= AutoAssignThreshold:
		assignment.ProjectID = match.ProjectID
	case match.Confidence >= ReviewThreshold:
		assignment.ProjectID = match.ProjectID
		assignment.NeedsReview = true
	}
	return assignment
}
