// Package generation turns two freely edited text blocks (front lines and back
// lines) into an ordered list of flashcards.
//
// Everything here is a pure function over strings: the package holds no state
// between calls, never mutates its inputs, and is safe to call on every
// keystroke. The alignment mode is always an explicit argument.
//
// Two alignment modes exist:
//
//   - strict (align=false): blank lines are discarded and lines are paired by
//     their rank among non-blank lines.
//   - aligned (align=true): lines are paired by their original position, so
//     blank lines can be used as deliberate padding; rows blank on both sides
//     produce no card.
package generation
