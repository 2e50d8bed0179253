package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinSelectionLen = 3
	MaxSelectionLen = 49
)

// ErrSelectionOutOfBounds marks a selection too short or too long to
// define. It is never shown to the user.
var ErrSelectionOutOfBounds = errors.New("selection length out of bounds")

// Position is a cell in document coordinates: Top is the line, Left the
// display column.
type Position struct {
	Top  int
	Left int
}

// Rect bounds a selection. Rows are inclusive; Right is one past the last
// selected column on the widest line.
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Selection is a definable text range and where its action control sits.
type Selection struct {
	Text   string
	Anchor Position
}

// CheckSelection trims text and checks its length in characters.
func CheckSelection(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	if n < MinSelectionLen || n > MaxSelectionLen {
		return "", ErrSelectionOutOfBounds
	}
	return trimmed, nil
}

// AnchorFor returns the point one row above the selection, centred on it.
func AnchorFor(r Rect) Position {
	return Position{Top: r.Top - 1, Left: r.Left + (r.Right-r.Left)/2}
}
