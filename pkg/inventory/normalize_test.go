package inventory

import (
	"testing"

	"github.com/tidwall/gjson"
)

func namesOf(records []gjson.Result) []string {
	var names []string
	for _, r := range records {
		names = append(names, r.Get("name").String())
	}
	return names
}

func TestToList_BareArray(t *testing.T) {
	payload := gjson.Parse(`[{"name":"a"},{"name":"b"}]`)
	got := ToList(payload)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if names := namesOf(got); names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestToList_ObjectsKey(t *testing.T) {
	payload := gjson.Parse(`{"objects":[{"name":"a"}]}`)
	got := ToList(payload)
	if len(got) != 1 || got[0].Get("name").String() != "a" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestToList_DataKey(t *testing.T) {
	payload := gjson.Parse(`{"data":[{"name":"a"}]}`)
	got := ToList(payload)
	if len(got) != 1 || got[0].Get("name").String() != "a" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestToList_ObjectsWinsOverData(t *testing.T) {
	payload := gjson.Parse(`{"data":[{"name":"wrong"}],"objects":[{"name":"right"}]}`)
	got := ToList(payload)
	if len(got) != 1 || got[0].Get("name").String() != "right" {
		t.Fatalf("objects key should take priority, got %#v", got)
	}
}

func TestToList_NonArrayObjectsFallsThrough(t *testing.T) {
	payload := gjson.Parse(`{"objects":"nope","data":[{"name":"a"}]}`)
	got := ToList(payload)
	if len(got) != 1 || got[0].Get("name").String() != "a" {
		t.Fatalf("expected fall-through to data, got %#v", got)
	}
}

func TestToList_UnrecognizedShapes(t *testing.T) {
	for _, raw := range []string{`{}`, `{"items":[1,2]}`, `"hello"`, `42`, `null`, ``} {
		if got := ToList(gjson.Parse(raw)); len(got) != 0 {
			t.Fatalf("payload %q: expected empty list, got %d records", raw, len(got))
		}
	}
}
