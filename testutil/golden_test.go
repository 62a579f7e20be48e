package testutil

import "testing"

func TestGetGoldenPathJoinsFeatureAndName(t *testing.T) {
	got := GetGoldenPath("coreartifact", "simple_program")
	want := "testdata/coreartifact/simple_program.golden.json"
	if got != want {
		t.Fatalf("GetGoldenPath: got %q, want %q", got, want)
	}
}

func TestDiffJSONHighlightsChangedLines(t *testing.T) {
	diff := DiffJSON(map[string]int{"a": 1}, map[string]int{"a": 2})
	if diff == "" {
		t.Fatalf("expected a non-empty diff for differing values")
	}
}

func TestJSONEqualIgnoresKeyOrder(t *testing.T) {
	if !jsonEqual([]byte(`{"a":1,"b":2}`), []byte(`{"b":2,"a":1}`)) {
		t.Fatalf("expected jsonEqual to treat differently-ordered keys as equal")
	}
	if jsonEqual([]byte(`{"a":1}`), []byte(`{"a":2}`)) {
		t.Fatalf("expected jsonEqual to report a mismatch on differing values")
	}
}
