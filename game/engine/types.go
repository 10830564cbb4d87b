package engine

import "fmt"

const (
	// DefaultSize is the side length of a board when none is configured.
	DefaultSize = 5
	// DefaultMines is the mine count of a board when none is configured.
	DefaultMines = 5
	// MaxSize is the largest side length a board may have.
	MaxSize = 1 << 10

	// Mine marks a cell holding a mine. Any other value is an adjacent-mine count.
	Mine Cell = 0xFF
)

// Cell holds either the Mine marker or the number of adjacent mines (0..8).
type Cell uint8

// IsMine reports whether the cell holds a mine.
func (c Cell) IsMine() bool {
	return c == Mine
}

// Count returns the number of adjacent mines, or -1 for a mine.
func (c Cell) Count() int {
	if c.IsMine() {
		return -1
	}
	return int(c)
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Outcome is the result of a single reveal.
type Outcome int

const (
	// Continue means the cell was revealed and the game goes on.
	Continue Outcome = iota
	// Loss means a mine was revealed.
	Loss
	// Win means every safe cell is now revealed.
	Win
	// Rejected means nothing changed: out of bounds, already revealed, or the game is over.
	Rejected
)

var outcomeNames = map[Outcome]string{
	Continue: "continue",
	Loss:     "loss",
	Win:      "win",
	Rejected: "rejected",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Terminal reports whether the outcome ended the game.
func (o Outcome) Terminal() bool {
	return o == Loss || o == Win
}

// MarshalText encodes the outcome by name for JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText decodes an outcome name produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	for value, name := range outcomeNames {
		if name == string(text) {
			*o = value
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}
