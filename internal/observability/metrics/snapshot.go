package metrics

import (
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// PageFunnel counts advance attempts on one page.
type PageFunnel struct {
	Page     int              `json:"page"`
	Outcomes map[string]int64 `json:"outcomes"`
}

// FunnelSnapshot is a point-in-time read of the intake counters.
type FunnelSnapshot struct {
	Pages          []PageFunnel     `json:"pages"`
	Submissions    map[string]int64 `json:"submissions"`
	ActiveSessions int64            `json:"active_sessions"`
}

// Snapshot reads the intake counters back out of gatherer.
func Snapshot(gatherer prometheus.Gatherer) FunnelSnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	snap := FunnelSnapshot{Pages: []PageFunnel{}, Submissions: map[string]int64{}}
	mfs, err := gatherer.Gather()
	if err != nil {
		return snap
	}

	pages := map[int]map[string]int64{}
	for _, mf := range mfs {
		if mf == nil {
			continue
		}
		switch mf.GetName() {
		case namespace + "_" + subsystem + "_advance_total":
			for _, metric := range mf.Metric {
				page, err := strconv.Atoi(labelValue(metric, "page"))
				if err != nil {
					continue
				}
				if pages[page] == nil {
					pages[page] = map[string]int64{}
				}
				pages[page][labelValue(metric, "outcome")] += int64(metric.GetCounter().GetValue())
			}
		case namespace + "_" + subsystem + "_submissions_total":
			for _, metric := range mf.Metric {
				snap.Submissions[labelValue(metric, "status")] += int64(metric.GetCounter().GetValue())
			}
		case namespace + "_" + subsystem + "_active_sessions":
			for _, metric := range mf.Metric {
				snap.ActiveSessions = int64(metric.GetGauge().GetValue())
			}
		}
	}

	for page, outcomes := range pages {
		snap.Pages = append(snap.Pages, PageFunnel{Page: page, Outcomes: outcomes})
	}
	sort.Slice(snap.Pages, func(i, j int) bool { return snap.Pages[i].Page < snap.Pages[j].Page })
	return snap
}

func labelValue(metric *dto.Metric, name string) string {
	if metric == nil {
		return ""
	}
	for _, lp := range metric.Label {
		if lp != nil && lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
