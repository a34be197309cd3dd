package bootstrap

import (
	"github.com/wolfman30/coaching-intake/internal/archive"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/internal/leads"
	"github.com/wolfman30/coaching-intake/internal/notify"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// SubmitHookDeps collects the optional consumers of accepted submissions.
type SubmitHookDeps struct {
	Leads    leads.Repository
	Notifier *notify.Service
	Archive  *archive.Store
	Logger   *logging.Logger
}

// BuildSubmitHooks returns the hooks to run after each accepted submission,
// in order: record the lead, notify the coach, archive the payload.
func BuildSubmitHooks(deps SubmitHookDeps) []intake.SubmitHook {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var hooks []intake.SubmitHook
	if deps.Leads != nil {
		hooks = append(hooks, leads.RecordSubmission(deps.Leads, logger))
	}
	if deps.Notifier != nil {
		hooks = append(hooks, deps.Notifier.Hook())
	}
	if deps.Archive != nil && deps.Archive.Enabled() {
		hooks = append(hooks, deps.Archive.Hook())
	}
	return hooks
}
