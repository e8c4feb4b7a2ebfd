package inventory

import (
	"testing"

	"github.com/tidwall/gjson"
)

// stubResolver maps owner ids to display strings without any lookup.
type stubResolver map[string]string

func (s stubResolver) ResolveOwner(ownerID string) string {
	if v, ok := s[ownerID]; ok {
		return v
	}
	return "ID: " + ownerID
}

func TestProject_Defaults(t *testing.T) {
	agg := &Aggregates{}
	f := Project(gjson.Parse(`{}`), "ws", stubResolver{}, agg)

	if f.Name != "N/A" {
		t.Errorf("name default: got %q", f.Name)
	}
	if f.Description != "No description" {
		t.Errorf("description default: got %q", f.Description)
	}
	if f.Status != "Unknown" {
		t.Errorf("status default: got %q", f.Status)
	}
	if f.Created != "N/A" {
		t.Errorf("created default: got %q", f.Created)
	}
	if f.Owner != "No owner assigned" {
		t.Errorf("owner default: got %q", f.Owner)
	}
	if f.TagsDisplay() != "None" {
		t.Errorf("tags default: got %q", f.TagsDisplay())
	}
}

func TestProject_EmptyDescriptionDefaults(t *testing.T) {
	agg := &Aggregates{}
	f := Project(gjson.Parse(`{"description":""}`), "ws", stubResolver{}, agg)
	if f.Description != "No description" {
		t.Fatalf("empty description should default, got %q", f.Description)
	}
}

func TestProject_OwnerPrecedence(t *testing.T) {
	resolver := stubResolver{"u1": "alice@example.com"}

	cases := []struct {
		raw  string
		want string
	}{
		{`{"owners":[{"id":"u1","type":"user"}]}`, "alice@example.com"},
		{`{"owners":[{"id":"g1","type":"group"}]}`, "ID: g1 (type: group)"},
		{`{"owners":[]}`, "No owner assigned"},
		{`{}`, "No owner assigned"},
		{`{"owners":[{"type":"user"}]}`, "Unknown"},
		// Only the first owner counts.
		{`{"owners":[{"id":"g1","type":"group"},{"id":"u1","type":"user"}]}`, "ID: g1 (type: group)"},
	}

	for _, tc := range cases {
		agg := &Aggregates{}
		f := Project(gjson.Parse(tc.raw), "ws", resolver, agg)
		if f.Owner != tc.want {
			t.Errorf("record %s: owner = %q, want %q", tc.raw, f.Owner, tc.want)
		}
	}
}

func TestProject_Fields(t *testing.T) {
	raw := gjson.Parse(`{
		"name": "new-checkout",
		"description": "Checkout redesign",
		"creationTime": 1700000000000,
		"rolloutStatus": {"name": "active"},
		"tags": [{"name": "web"}, {"name": "payments"}],
		"owners": [{"id": "g7", "type": "group"}]
	}`)
	agg := &Aggregates{}
	f := Project(raw, "prod", stubResolver{}, agg)

	if f.Name != "new-checkout" || f.Description != "Checkout redesign" {
		t.Fatalf("unexpected name/description: %#v", f)
	}
	if f.Status != "active" {
		t.Fatalf("unexpected status: %q", f.Status)
	}
	if f.Created != "2023-11-14 18:13:20 EDT" {
		t.Fatalf("unexpected created: %q", f.Created)
	}
	if f.TagsDisplay() != "web, payments" {
		t.Fatalf("unexpected tags: %q", f.TagsDisplay())
	}
}

func TestProject_TagCounting(t *testing.T) {
	agg := &Aggregates{}
	// The same tag twice on one record counts once per occurrence; unnamed
	// tags contribute nothing.
	Project(gjson.Parse(`{"tags":[{"name":"web"},{"name":"web"},{"foo":"bar"},{"name":""}]}`), "ws", stubResolver{}, agg)

	if agg.ByTag.Count("web") != 2 {
		t.Fatalf("expected web counted twice, got %d", agg.ByTag.Count("web"))
	}
	if agg.ByTag.Len() != 1 {
		t.Fatalf("expected 1 distinct tag, got %d", agg.ByTag.Len())
	}
}

func TestProject_AggregateTotals(t *testing.T) {
	resolver := stubResolver{"u1": "alice@example.com"}
	agg := &Aggregates{}

	records := []string{
		`{"name":"f1","rolloutStatus":{"name":"active"},"owners":[{"id":"u1","type":"user"}]}`,
		`{"name":"f2","rolloutStatus":{"name":"active"},"owners":[{"id":"u1","type":"user"}],"tags":[{"name":"web"}]}`,
		`{"name":"f3","rolloutStatus":{"name":"archived"}}`,
	}
	for _, raw := range records {
		Project(gjson.Parse(raw), "prod", resolver, agg)
	}
	Project(gjson.Parse(`{"name":"f4"}`), "staging", resolver, agg)

	if agg.TotalFlags != 4 {
		t.Fatalf("expected 4 total flags, got %d", agg.TotalFlags)
	}
	if agg.ByStatus.Sum() != agg.TotalFlags {
		t.Errorf("status counts sum %d != total %d", agg.ByStatus.Sum(), agg.TotalFlags)
	}
	if agg.ByOwner.Sum() != agg.TotalFlags {
		t.Errorf("owner counts sum %d != total %d", agg.ByOwner.Sum(), agg.TotalFlags)
	}
	if agg.ByWorkspace.Sum() != agg.TotalFlags {
		t.Errorf("workspace counts sum %d != total %d", agg.ByWorkspace.Sum(), agg.TotalFlags)
	}
	// Tag counts are not bound to the total: flags can carry 0..n tags.
	if agg.ByTag.Sum() != 1 {
		t.Errorf("expected 1 tag occurrence, got %d", agg.ByTag.Sum())
	}
	if agg.ByOwner.Count("alice@example.com") != 2 {
		t.Errorf("expected 2 flags for alice, got %d", agg.ByOwner.Count("alice@example.com"))
	}
}
