package inventory

import "testing"

func TestCounter_SortedDescending(t *testing.T) {
	var c Counter
	c.Add("low")
	c.AddN("high", 3)
	c.AddN("mid", 2)

	got := c.Sorted()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Key != "high" || got[1].Key != "mid" || got[2].Key != "low" {
		t.Fatalf("wrong order: %#v", got)
	}
}

func TestCounter_TiesKeepInsertionOrder(t *testing.T) {
	var c Counter
	c.Add("first")
	c.Add("second")
	c.Add("third")
	c.AddN("winner", 2)

	got := c.Sorted()
	if got[0].Key != "winner" {
		t.Fatalf("expected winner first, got %q", got[0].Key)
	}
	if got[1].Key != "first" || got[2].Key != "second" || got[3].Key != "third" {
		t.Fatalf("ties must keep insertion order: %#v", got)
	}
}

func TestCounter_SumAndMerge(t *testing.T) {
	var c Counter
	c.AddN("shared-name", 2)
	c.AddN("shared-name", 3)
	c.Add("other")

	if c.Count("shared-name") != 5 {
		t.Fatalf("expected merged count 5, got %d", c.Count("shared-name"))
	}
	if c.Sum() != 6 {
		t.Fatalf("expected sum 6, got %d", c.Sum())
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", c.Len())
	}
}

func TestCounter_ZeroValueUsable(t *testing.T) {
	var c Counter
	if c.Sum() != 0 || c.Len() != 0 || len(c.Sorted()) != 0 {
		t.Fatal("zero-value Counter should be empty")
	}
}
