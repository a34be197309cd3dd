package leads

import (
	"strings"
	"time"

	"github.com/wolfman30/coaching-intake/internal/intake"
)

// Lead is a prospective client who completed the intake form
type Lead struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	MainGoal      string    `json:"main_goal"`
	CoachingType  string    `json:"coaching_type"`
	StartTimeline string    `json:"start_timeline"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CreateLeadRequest carries the fields kept from a submission
type CreateLeadRequest struct {
	SessionID     string
	FullName      string
	Email         string
	MainGoal      string
	CoachingType  string
	StartTimeline string
	SubmittedAt   time.Time
}

// RequestFromSubmission extracts the lead summary from an accepted submission.
func RequestFromSubmission(sub intake.Submission) *CreateLeadRequest {
	return &CreateLeadRequest{
		SessionID:     sub.SessionID,
		FullName:      strings.TrimSpace(sub.Record.FullName),
		Email:         strings.TrimSpace(sub.Record.Email),
		MainGoal:      sub.Record.MainGoal,
		CoachingType:  sub.Record.CoachingType,
		StartTimeline: sub.Record.StartTimeline,
		SubmittedAt:   sub.SubmittedAt,
	}
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return ErrMissingSession
	}
	if r.FullName == "" {
		return ErrInvalidName
	}
	if r.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

func (r *CreateLeadRequest) submittedAt() time.Time {
	if r.SubmittedAt.IsZero() {
		return time.Now().UTC()
	}
	return r.SubmittedAt.UTC()
}
