package leads

import (
	"context"

	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// RecordSubmission returns a submit hook that logs every accepted
// submission as a lead.
func RecordSubmission(repo Repository, logger *logging.Logger) intake.SubmitHook {
	if logger == nil {
		logger = logging.Default()
	}
	return func(ctx context.Context, sub intake.Submission) error {
		lead, err := repo.Create(ctx, RequestFromSubmission(sub))
		if err != nil {
			return err
		}
		logger.Info("lead recorded", "id", lead.ID, "session_id", lead.SessionID)
		return nil
	}
}
