package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveCardAt_Strict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		front     string
		back      string
		index     int
		wantFront string
		wantBack  string
	}{
		{"middle card", "a\nb\nc", "x\ny\nz", 1, "a\nc", "x\nz"},
		{"first card", "a\nb", "x\ny", 0, "b", "y"},
		{"blank spacers kept", "a\n\nb\nc", "x\ny\n\nz", 1, "a\n\nc", "x\n\nz"},
		{"numbered lines", "1. a\n2. b", "1. x\n2. y", 1, "1. a", "1. x"},
		{"last content line", "a", "x", 0, "", ""},
		{"beyond shorter side", "a\nb\nc", "x\ny", 2, "a\nb\nc", "x\ny"},
		{"negative index", "a", "x", -1, "a", "x"},
		{"past the end", "a\nb", "x\ny", 2, "a\nb", "x\ny"},
		{"empty inputs", "", "", 0, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			front, back := RemoveCardAt(tc.front, tc.back, tc.index, false)
			assert.Equal(t, tc.wantFront, front)
			assert.Equal(t, tc.wantBack, back)
		})
	}
}

func TestRemoveCardAt_Aligned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		front     string
		back      string
		index     int
		wantFront string
		wantBack  string
	}{
		{"one sided card", "a\n\nb", "x\ny\nz", 1, "a\nb", "x\nz"},
		{"after skipped row", "a\n\nc", "x\n\nz", 1, "a\n", "x\n"},
		{"before skipped row", "a\n\nc", "x\n\nz", 0, "\nc", "\nz"},
		{"shorter side untouched", "a\nb\nc", "x", 2, "a\nb", "x"},
		{"out of range", "a\n\nc", "x\n\nz", 2, "a\n\nc", "x\n\nz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			front, back := RemoveCardAt(tc.front, tc.back, tc.index, true)
			assert.Equal(t, tc.wantFront, front)
			assert.Equal(t, tc.wantBack, back)
		})
	}
}

func TestRemoveCardAt_RemovesDisplayedCard(t *testing.T) {
	t.Parallel()

	for _, align := range []bool{false, true} {
		front, back := "1. a\n\n2. b\n3. c", "1. x\n2. y\n\n3. z"
		before := GenerateCards(front, back, align).Cards

		for i := range before {
			newFront, newBack := RemoveCardAt(front, back, i, align)
			after := GenerateCards(newFront, newBack, align).Cards
			want := append(append([]Card{}, before[:i]...), before[i+1:]...)
			assert.Equal(t, want, after, "align=%v index=%d", align, i)
		}
	}
}

func TestLocateCard(t *testing.T) {
	t.Parallel()

	f, b, err := LocateCard("a\n\nb", "x\ny", 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, f)
	assert.Equal(t, 1, b)

	f, b, err = LocateCard("a\nb\nc", "x", 2, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f)
	assert.Equal(t, -1, b)

	_, _, err = LocateCard("a", "x", 5, false)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
