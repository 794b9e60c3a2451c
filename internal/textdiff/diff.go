// Package textdiff aligns a reference transcript against a hypothesis
// transcript at character granularity and scores the match.
package textdiff

import "encoding/json"

// Op classifies a diff segment.
type Op int

const (
	// OpEqual text is present in both inputs at this alignment position.
	OpEqual Op = iota
	// OpInsert text is present only in the hypothesis.
	OpInsert
	// OpDelete text is present only in the reference.
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "equal"
	}
}

// Segment is one unit of the edit script turning reference into hypothesis.
type Segment struct {
	Op   Op
	Text string
}

// MarshalJSON emits {"type": ..., "text": ...} as the API expects.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: s.Op.String(), Text: s.Text})
}

// Diff computes a minimal edit script between reference and hypothesis,
// rune by rune (Myers). Common prefix and suffix come off first so the
// leading and trailing equal runs stay contiguous; adjacent segments of the
// same kind are merged, and within a run of edits deletions precede
// insertions. Identical inputs yield a single equal segment; an empty
// reference yields one insert, an empty hypothesis one delete, and two
// empty inputs an empty script.
func Diff(reference, hypothesis string) []Segment {
	a := []rune(reference)
	b := []rune(hypothesis)

	prefix := commonPrefix(a, b)
	a, b = a[prefix:], b[prefix:]
	suffix := commonSuffix(a, b)

	var segs []Segment
	if prefix > 0 {
		segs = append(segs, Segment{OpEqual, string([]rune(reference)[:prefix])})
	}
	segs = append(segs, myers(a[:len(a)-suffix], b[:len(b)-suffix])...)
	if suffix > 0 {
		segs = append(segs, Segment{OpEqual, string(a[len(a)-suffix:])})
	}
	return normalize(segs)
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// myers runs the greedy shortest-edit-script search and backtracks the
// recorded frontiers into segments.
func myers(a, b []rune) []Segment {
	n, m := len(a), len(b)
	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		return []Segment{{OpInsert, string(b)}}
	case m == 0:
		return []Segment{{OpDelete, string(a)}}
	}

	bound := n + m
	offset := bound
	v := make([]int, 2*bound+1)
	var trace [][]int

search:
	for d := 0; d <= bound; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Walk the trace backwards, emitting single-rune ops in reverse.
	var rev []Segment
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		frontier := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && frontier[offset+k-1] < frontier[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := frontier[offset+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			rev = append(rev, Segment{OpEqual, string(a[x-1])})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				rev = append(rev, Segment{OpInsert, string(b[prevY])})
			} else {
				rev = append(rev, Segment{OpDelete, string(a[prevX])})
			}
		}
		x, y = prevX, prevY
	}

	segs := make([]Segment, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		segs = append(segs, rev[i])
	}
	return segs
}

// normalize merges adjacent same-kind segments and orders each run of edits
// as delete-then-insert, the shape the display collapse relies on.
func normalize(segs []Segment) []Segment {
	var out []Segment
	var del, ins []byte
	flush := func() {
		if len(del) > 0 {
			out = append(out, Segment{OpDelete, string(del)})
			del = del[:0]
		}
		if len(ins) > 0 {
			out = append(out, Segment{OpInsert, string(ins)})
			ins = ins[:0]
		}
	}
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		switch s.Op {
		case OpEqual:
			flush()
			if n := len(out); n > 0 && out[n-1].Op == OpEqual {
				out[n-1].Text += s.Text
			} else {
				out = append(out, s)
			}
		case OpDelete:
			del = append(del, s.Text...)
		case OpInsert:
			ins = append(ins, s.Text...)
		}
	}
	flush()
	return out
}
