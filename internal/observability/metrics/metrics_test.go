package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveFieldUpdate(1)
	m.ObserveAdvance(1, OutcomeAdvanced)
	m.ObserveSubmission(StatusSucceeded, 0.2)
	m.SetActiveSessions(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["coaching_intake_field_updates_total"])
	assert.True(t, names["coaching_intake_advance_total"])
	assert.True(t, names["coaching_intake_submissions_total"])
	assert.True(t, names["coaching_intake_submission_latency_seconds"])
	assert.True(t, names["coaching_intake_active_sessions"])
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveFieldUpdate(2)
	m.ObserveAdvance(2, OutcomeBlocked)
	m.ObserveSubmission(StatusFailed, 0.1)
	m.SetActiveSessions(1)
}

func TestSnapshotAggregatesFunnel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveAdvance(1, OutcomeBlocked)
	m.ObserveAdvance(1, OutcomeBlocked)
	m.ObserveAdvance(1, OutcomeAdvanced)
	m.ObserveAdvance(4, OutcomeSubmitFailed)
	m.ObserveAdvance(4, OutcomeSubmitted)
	m.ObserveSubmission(StatusFailed, 0.3)
	m.ObserveSubmission(StatusSucceeded, 0.4)
	m.SetActiveSessions(2)

	snap := Snapshot(reg)

	require.Len(t, snap.Pages, 2)
	assert.Equal(t, 1, snap.Pages[0].Page)
	assert.Equal(t, int64(2), snap.Pages[0].Outcomes[OutcomeBlocked])
	assert.Equal(t, int64(1), snap.Pages[0].Outcomes[OutcomeAdvanced])
	assert.Equal(t, 4, snap.Pages[1].Page)
	assert.Equal(t, int64(1), snap.Pages[1].Outcomes[OutcomeSubmitted])
	assert.Equal(t, int64(1), snap.Submissions[StatusFailed])
	assert.Equal(t, int64(1), snap.Submissions[StatusSucceeded])
	assert.Equal(t, int64(2), snap.ActiveSessions)
}

func TestSnapshotEmptyRegistry(t *testing.T) {
	snap := Snapshot(prometheus.NewRegistry())
	assert.Empty(t, snap.Pages)
	assert.Empty(t, snap.Submissions)
}
