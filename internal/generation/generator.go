package generation

import "fmt"

// Card is one generated pairing of a front line and a back line.
// Both sides are normalized content; in aligned mode one side may be empty.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// DiagnosticKind classifies the advisory produced alongside generated cards.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagnosticNone          DiagnosticKind = ""
	DiagnosticCountMismatch DiagnosticKind = "count_mismatch"
	DiagnosticEmptyInput    DiagnosticKind = "empty_input"
)

// Diagnostic is advisory text about the inputs. It never prevents the cards
// that can be paired from being generated.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind,omitempty"`
	Message    string         `json:"message,omitempty"`
	FrontCount int            `json:"front_count"`
	BackCount  int            `json:"back_count"`
}

// IsZero reports whether the diagnostic carries no advisory.
func (d Diagnostic) IsZero() bool {
	return d.Kind == DiagnosticNone
}

// Result is the outcome of GenerateCards.
type Result struct {
	Cards      []Card     `json:"cards"`
	Diagnostic Diagnostic `json:"diagnostic"`
}

const (
	emptyInputMessage      = "both inputs required"
	strictMismatchFormat   = "front and back have a different number of lines: front %d, back %d"
	alignedMismatchFormat  = "front and back produce a different number of card sides: front %d, back %d; check blank lines"
	persistMismatchMessage = "only the overlapping lines will be saved"
)

// GenerateCards pairs the lines of rawFront and rawBack into cards.
//
// In strict mode lines are paired by rank up to the shorter side; a count
// mismatch is reported but the overlapping prefix is still returned. In
// aligned mode lines are paired by position and a card is emitted for every
// row where at least one side has content.
func GenerateCards(rawFront, rawBack string, align bool) Result {
	front := SplitLines(rawFront, align)
	back := SplitLines(rawBack, align)

	if !hasContent(front) && !hasContent(back) {
		return Result{
			Cards: []Card{},
			Diagnostic: Diagnostic{
				Kind:    DiagnosticEmptyInput,
				Message: emptyInputMessage,
			},
		}
	}

	if align {
		return generateAligned(front, back)
	}
	return generateStrict(front, back)
}

func generateStrict(front, back []string) Result {
	n := min(len(front), len(back))
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, Card{Front: front[i], Back: back[i]})
	}

	res := Result{Cards: cards}
	if len(front) != len(back) {
		res.Diagnostic = mismatch(strictMismatchFormat, len(front), len(back))
	}
	return res
}

func generateAligned(front, back []string) Result {
	rows := max(len(front), len(back))
	cards := make([]Card, 0, rows)
	var frontCount, backCount int
	for i := 0; i < rows; i++ {
		f, b := at(front, i), at(back, i)
		if f == "" && b == "" {
			continue
		}
		if f != "" {
			frontCount++
		}
		if b != "" {
			backCount++
		}
		cards = append(cards, Card{Front: f, Back: b})
	}

	res := Result{Cards: cards}
	if frontCount != backCount {
		res.Diagnostic = mismatch(alignedMismatchFormat, frontCount, backCount)
	}
	return res
}

// PersistablePairs returns the strict-mode front and back lines truncated to
// their overlapping prefix, which is the shape a list is stored in. The
// diagnostic reports when lines were dropped because the sides differ.
func PersistablePairs(rawFront, rawBack string) (front, back []string, diag Diagnostic) {
	front = SplitLines(rawFront, false)
	back = SplitLines(rawBack, false)
	if len(front) != len(back) {
		diag = mismatch(strictMismatchFormat+"; "+persistMismatchMessage, len(front), len(back))
	}
	n := min(len(front), len(back))
	return front[:n], back[:n], diag
}

func mismatch(format string, frontCount, backCount int) Diagnostic {
	return Diagnostic{
		Kind:       DiagnosticCountMismatch,
		Message:    fmt.Sprintf(format, frontCount, backCount),
		FrontCount: frontCount,
		BackCount:  backCount,
	}
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if l != "" {
			return true
		}
	}
	return false
}
