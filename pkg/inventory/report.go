package inventory

import "time"

// Workspace identifies one flag container in the upstream account. The id is
// the identity; the name is the display and grouping key, so two workspaces
// sharing a name silently merge their statistics.
type Workspace struct {
	ID   string
	Name string
}

// WorkspaceFlags pairs a workspace with its normalized flag records.
type WorkspaceFlags struct {
	Workspace Workspace
	Flags     []Flag
}

// StatusEntry is one rollout status with its share of the total.
type StatusEntry struct {
	Status  string
	Count   int
	Percent float64
}

// Report is the assembled document a renderer must honor.
type Report struct {
	// GeneratedAt is local wall-clock time. Flag creation timestamps use the
	// fixed EDT offset instead; the two clocks are intentionally different.
	GeneratedAt     time.Time
	Workspaces      []WorkspaceFlags
	TotalWorkspaces int
	TotalFlags      int
	AverageFlags    float64
	HasAverage      bool
	ByWorkspace     []CountEntry
	TopOwners       []CountEntry
	ByStatus        []StatusEntry
	ByTag           []CountEntry
}

// Owners beyond this rank are dropped from the summary.
const topOwnerLimit = 10

// Assemble builds the final report from the processed workspaces and the
// aggregation state. Pure: it reads the aggregates but no longer mutates
// them.
func Assemble(workspaces []WorkspaceFlags, agg *Aggregates, now time.Time) *Report {
	r := &Report{
		GeneratedAt:     now,
		Workspaces:      workspaces,
		TotalWorkspaces: len(workspaces),
		TotalFlags:      agg.TotalFlags,
		ByWorkspace:     agg.ByWorkspace.Sorted(),
		ByTag:           agg.ByTag.Sorted(),
	}

	// The average divides by workspaces that had at least one flag, not by
	// all fetched workspaces. Left undefined when that count is zero.
	if agg.WorkspacesWithFlags > 0 {
		r.AverageFlags = float64(agg.TotalFlags) / float64(agg.WorkspacesWithFlags)
		r.HasAverage = true
	}

	owners := agg.ByOwner.Sorted()
	if len(owners) > topOwnerLimit {
		owners = owners[:topOwnerLimit]
	}
	r.TopOwners = owners

	if agg.TotalFlags > 0 {
		for _, e := range agg.ByStatus.Sorted() {
			r.ByStatus = append(r.ByStatus, StatusEntry{
				Status:  e.Key,
				Count:   e.Count,
				Percent: float64(e.Count) / float64(agg.TotalFlags) * 100,
			})
		}
	}

	return r
}
