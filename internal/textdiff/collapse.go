package textdiff

import (
	"math"
	"unicode/utf8"
)

// DisplayKind classifies a collapsed segment for rendering.
type DisplayKind int

const (
	// DisplayMatch text matched the reference.
	DisplayMatch DisplayKind = iota
	// DisplayError text the speaker produced that the reference does not
	// have at this position (insertions and the hypothesis side of a
	// replacement).
	DisplayError
	// DisplayMissing reference text the speaker skipped entirely.
	DisplayMissing
)

func (k DisplayKind) String() string {
	switch k {
	case DisplayError:
		return "error"
	case DisplayMissing:
		return "missing"
	default:
		return "match"
	}
}

// DisplaySegment is a render-ready span. Derived data: recompute from the
// edit script on demand, never persist.
type DisplaySegment struct {
	Kind DisplayKind
	Text string
}

// Collapse folds an edit script into display spans. A delete immediately
// followed by an insert is a replacement: only the insert's text is shown,
// tagged as an error. A lone delete is missing text; a lone insert is an
// error; equal text is a match.
func Collapse(segs []Segment) []DisplaySegment {
	var out []DisplaySegment
	for i := 0; i < len(segs); i++ {
		switch segs[i].Op {
		case OpEqual:
			out = append(out, DisplaySegment{DisplayMatch, segs[i].Text})
		case OpDelete:
			if i+1 < len(segs) && segs[i+1].Op == OpInsert {
				out = append(out, DisplaySegment{DisplayError, segs[i+1].Text})
				i++
			} else {
				out = append(out, DisplaySegment{DisplayMissing, segs[i].Text})
			}
		case OpInsert:
			out = append(out, DisplaySegment{DisplayError, segs[i].Text})
		}
	}
	return out
}

// Similarity scores an edit script as a percentage in [0,100]. Insert and
// delete lengths both count toward the denominator, so a replacement is
// penalized twice: once as missing reference text, once as wrong hypothesis
// text. An empty script scores 0.
func Similarity(segs []Segment) int {
	matched, total := 0, 0
	for _, s := range segs {
		n := utf8.RuneCountInString(s.Text)
		total += n
		if s.Op == OpEqual {
			matched += n
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}
