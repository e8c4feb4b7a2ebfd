package inventory

import (
	"strings"

	"github.com/tidwall/gjson"
)

// OwnerResolver resolves a user owner id to a display identity.
type OwnerResolver interface {
	ResolveOwner(ownerID string) string
}

// Flag is one normalized feature-flag record. It is immutable once built and
// lives only for the duration of one report run.
type Flag struct {
	Name        string
	Description string
	Created     string
	Status      string
	Owner       string
	Tags        []string
}

// TagsDisplay returns the joined tag names, or "None" when no tag carried a
// name.
func (f Flag) TagsDisplay() string {
	if len(f.Tags) == 0 {
		return "None"
	}
	return strings.Join(f.Tags, ", ")
}

// Project maps one raw flag record into a Flag and folds it into the running
// aggregates. Every missing or malformed field degrades to a documented
// default; this function never fails.
func Project(raw gjson.Result, workspaceName string, resolver OwnerResolver, agg *Aggregates) Flag {
	f := Flag{
		Name:        "N/A",
		Description: "No description",
		Status:      "Unknown",
	}

	if v := raw.Get("name"); v.Exists() {
		f.Name = v.String()
	}
	if v := raw.Get("description"); v.String() != "" {
		f.Description = v.String()
	}
	if v := raw.Get("rolloutStatus.name"); v.String() != "" {
		f.Status = v.String()
	}
	f.Created = FormatEpochMillis(raw.Get("creationTime").Int())
	f.Owner = ownerDisplay(raw.Get("owners").Array(), resolver)

	for _, tag := range raw.Get("tags").Array() {
		if name := tag.Get("name").String(); name != "" {
			f.Tags = append(f.Tags, name)
		}
	}

	// Aggregate update order is fixed: total, owner, status, tags.
	agg.TotalFlags++
	agg.ByOwner.Add(f.Owner)
	agg.ByStatus.Add(f.Status)
	for _, name := range f.Tags {
		agg.ByTag.Add(name)
	}
	agg.ByWorkspace.Add(workspaceName)

	return f
}

// ownerDisplay applies the owner resolution precedence. Only the first owner
// entry counts; any further owners are ignored.
func ownerDisplay(owners []gjson.Result, resolver OwnerResolver) string {
	if len(owners) == 0 {
		return "No owner assigned"
	}

	owner := owners[0]
	ownerID := owner.Get("id").String()
	ownerType := owner.Get("type").String()

	switch {
	case ownerID != "" && ownerType == "user":
		return resolver.ResolveOwner(ownerID)
	case ownerID != "":
		return "ID: " + ownerID + " (type: " + ownerType + ")"
	default:
		return "Unknown"
	}
}
