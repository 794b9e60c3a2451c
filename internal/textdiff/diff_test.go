package textdiff

import (
	"strings"
	"testing"
)

func TestDiffHelloHallo(t *testing.T) {
	got := Diff("hello", "hallo")
	want := []Segment{
		{OpEqual, "h"},
		{OpDelete, "e"},
		{OpInsert, "a"},
		{OpEqual, "llo"},
	}
	assertSegments(t, got, want)
	if sim := Similarity(got); sim != 67 {
		t.Fatalf("similarity = %d, want 67", sim)
	}
}

func TestDiffEmptyReference(t *testing.T) {
	got := Diff("", "test")
	assertSegments(t, got, []Segment{{OpInsert, "test"}})
	if sim := Similarity(got); sim != 0 {
		t.Fatalf("similarity = %d, want 0", sim)
	}
}

func TestDiffEmptyHypothesis(t *testing.T) {
	got := Diff("test", "")
	assertSegments(t, got, []Segment{{OpDelete, "test"}})
}

func TestDiffIdentical(t *testing.T) {
	got := Diff("same text", "same text")
	assertSegments(t, got, []Segment{{OpEqual, "same text"}})
	if sim := Similarity(got); sim != 100 {
		t.Fatalf("similarity = %d, want 100", sim)
	}
}

func TestDiffBothEmpty(t *testing.T) {
	if got := Diff("", ""); len(got) != 0 {
		t.Fatalf("expected empty script, got %v", got)
	}
	if sim := Similarity(nil); sim != 0 {
		t.Fatalf("similarity of empty script = %d, want 0", sim)
	}
}

func TestDiffUnicode(t *testing.T) {
	got := Diff("天氣真好", "天气真好")
	want := []Segment{
		{OpEqual, "天"},
		{OpDelete, "氣"},
		{OpInsert, "气"},
		{OpEqual, "真好"},
	}
	assertSegments(t, got, want)
}

// Applying equal+insert segments (skipping deletes) must reconstruct the
// hypothesis exactly.
func TestDiffRoundTrip(t *testing.T) {
	cases := [][2]string{
		{"hello world", "help the word"},
		{"abcabba", "cbabac"},
		{"今天天氣很好", "今天的天气真好"},
		{"", "xyz"},
		{"xyz", ""},
		{"same", "same"},
		{"aaaa", "bbbb"},
	}
	for _, c := range cases {
		segs := Diff(c[0], c[1])
		var b strings.Builder
		for _, s := range segs {
			if s.Op != OpDelete {
				b.WriteString(s.Text)
			}
		}
		if b.String() != c[1] {
			t.Errorf("Diff(%q, %q): reconstructed %q", c[0], c[1], b.String())
		}
		// Reference side must reconstruct too.
		b.Reset()
		for _, s := range segs {
			if s.Op != OpInsert {
				b.WriteString(s.Text)
			}
		}
		if b.String() != c[0] {
			t.Errorf("Diff(%q, %q): reference reconstructed %q", c[0], c[1], b.String())
		}
	}
}

func TestDiffNoAdjacentSameKind(t *testing.T) {
	segs := Diff("hello world", "help the word")
	for i := 1; i < len(segs); i++ {
		if segs[i].Op == segs[i-1].Op {
			t.Fatalf("adjacent %v segments at %d: %v", segs[i].Op, i, segs)
		}
	}
	for _, s := range segs {
		if s.Text == "" {
			t.Fatalf("empty segment in %v", segs)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	cases := [][2]string{
		{"abc", "xyz"},
		{"abc", "abc"},
		{"", "x"},
		{"x", ""},
		{"aab", "abb"},
	}
	for _, c := range cases {
		sim := Similarity(Diff(c[0], c[1]))
		if sim < 0 || sim > 100 {
			t.Fatalf("similarity out of range for %q vs %q: %d", c[0], c[1], sim)
		}
	}
}

// A replacement counts its delete and insert lengths in the denominator.
func TestSimilarityDoubleCountsReplacements(t *testing.T) {
	segs := []Segment{
		{OpEqual, "ab"},
		{OpDelete, "c"},
		{OpInsert, "d"},
	}
	// matched 2, total 4.
	if sim := Similarity(segs); sim != 50 {
		t.Fatalf("similarity = %d, want 50", sim)
	}
}

func TestCollapseReplacement(t *testing.T) {
	got := Collapse([]Segment{{OpDelete, "x"}, {OpInsert, "y"}})
	if len(got) != 1 || got[0].Kind != DisplayError || got[0].Text != "y" {
		t.Fatalf("unexpected collapse: %+v", got)
	}
}

func TestCollapseLoneDelete(t *testing.T) {
	got := Collapse([]Segment{{OpDelete, "x"}})
	if len(got) != 1 || got[0].Kind != DisplayMissing || got[0].Text != "x" {
		t.Fatalf("unexpected collapse: %+v", got)
	}
}

func TestCollapseMixed(t *testing.T) {
	segs := []Segment{
		{OpEqual, "he"},
		{OpDelete, "l"},
		{OpInsert, "r"},
		{OpEqual, "lo"},
		{OpInsert, "!"},
		{OpDelete, "?"},
	}
	got := Collapse(segs)
	want := []DisplaySegment{
		{DisplayMatch, "he"},
		{DisplayError, "r"},
		{DisplayMatch, "lo"},
		{DisplayError, "!"},
		{DisplayMissing, "?"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSegmentJSON(t *testing.T) {
	b, err := Segment{OpDelete, "ab"}.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"delete","text":"ab"}` {
		t.Fatalf("unexpected JSON %s", b)
	}
}

func assertSegments(t *testing.T, got, want []Segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
