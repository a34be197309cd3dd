package archive

import (
	"time"

	"github.com/wolfman30/coaching-intake/internal/submission"
)

// RecordVersion is written into every archived submission.
const RecordVersion = "1.0"

// SubmissionRecord is the structure archived to S3 for one accepted intake.
type SubmissionRecord struct {
	Version     string             `json:"version"`
	SessionID   string             `json:"session_id"`
	EmailHash   string             `json:"email_hash"` // sha256 of the normalized email
	SubmittedAt time.Time          `json:"submitted_at"`
	Payload     submission.Payload `json:"payload"`
	SheetRow    []string           `json:"sheet_row"` // values in submission.SheetHeaders order
}

// ManifestEntry is one JSONL line in the monthly manifest file.
type ManifestEntry struct {
	SessionID     string `json:"session_id"`
	S3Key         string `json:"s3_key"`
	EmailHash     string `json:"email_hash"`
	CoachingType  string `json:"coaching_type"`
	StartTimeline string `json:"start_timeline"`
	SubmittedAt   string `json:"submitted_at"`
}
