package generation

import "strings"

// noLine marks a side that contributes no source line to a card.
const noLine = -1

// LocateCard maps the card at index, as produced by GenerateCards with the
// same inputs and mode, back to the source line positions that produced it.
// A side without a contributing line reports -1. An index with no card
// returns ErrIndexOutOfRange.
func LocateCard(rawFront, rawBack string, index int, align bool) (frontLine, backLine int, err error) {
	if index < 0 {
		return noLine, noLine, ErrIndexOutOfRange
	}

	front := strings.Split(rawFront, lineBreak)
	back := strings.Split(rawBack, lineBreak)

	if align {
		frontLine, backLine = locateAligned(front, back, index)
	} else {
		frontLine = locateStrict(front, index)
		backLine = locateStrict(back, index)
		// a card exists only where both sides have a line at that rank
		if frontLine == noLine || backLine == noLine {
			frontLine, backLine = noLine, noLine
		}
	}

	if frontLine == noLine && backLine == noLine {
		return noLine, noLine, ErrIndexOutOfRange
	}
	return frontLine, backLine, nil
}

// RemoveCardAt deletes the source lines behind the card at index from both
// raw blocks. Every other line, blank spacers included, keeps its relative
// order. When index has no card the inputs are returned unchanged.
func RemoveCardAt(rawFront, rawBack string, index int, align bool) (string, string) {
	frontLine, backLine, err := LocateCard(rawFront, rawBack, index, align)
	if err != nil {
		return rawFront, rawBack
	}
	return spliceLine(rawFront, frontLine), spliceLine(rawBack, backLine)
}

func locateStrict(lines []string, index int) int {
	rank := -1
	for pos, line := range lines {
		if Normalize(line) == "" {
			continue
		}
		rank++
		if rank == index {
			return pos
		}
	}
	return noLine
}

func locateAligned(front, back []string, index int) (int, int) {
	rows := max(len(front), len(back))
	rank := -1
	for pos := 0; pos < rows; pos++ {
		f := Normalize(at(front, pos))
		b := Normalize(at(back, pos))
		if f == "" && b == "" {
			continue
		}
		rank++
		if rank != index {
			continue
		}
		frontLine, backLine := noLine, noLine
		if pos < len(front) {
			frontLine = pos
		}
		if pos < len(back) {
			backLine = pos
		}
		return frontLine, backLine
	}
	return noLine, noLine
}

func spliceLine(raw string, pos int) string {
	if pos == noLine {
		return raw
	}
	lines := strings.Split(raw, lineBreak)
	lines = append(lines[:pos], lines[pos+1:]...)
	return strings.Join(lines, lineBreak)
}
