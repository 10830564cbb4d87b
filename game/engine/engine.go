package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Board is a square minesweeper grid together with its reveal state.
type Board struct {
	size     int
	mines    int
	cells    []Cell
	revealed []bool

	// safeHidden counts non-mine cells that are still hidden.
	safeHidden int
	over       bool
	won        bool
}

// Generate creates a board with exactly mines cells holding a mine, chosen
// uniformly at random without replacement. A nil rng uses a time-seeded source.
func Generate(size, mines int, rng *rand.Rand) (*Board, error) {
	if err := ValidateConfig(size, mines); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return newBoard(size, rng.Perm(size * size)[:mines]), nil
}

// NewBoardWithMines creates a board whose mines sit at the given flat indices
// (y*size+x). It is used to replay fixed layouts.
func NewBoardWithMines(size int, mineIndices []int) (*Board, error) {
	if err := ValidateConfig(size, len(mineIndices)); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(mineIndices))
	for _, idx := range mineIndices {
		if idx < 0 || idx >= size*size {
			return nil, fmt.Errorf("%w: mine index %d outside a %dx%d board", ErrInvalidConfig, idx, size, size)
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: duplicate mine index %d", ErrInvalidConfig, idx)
		}
		seen[idx] = true
	}

	return newBoard(size, mineIndices), nil
}

func newBoard(size int, mineIndices []int) *Board {
	b := &Board{
		size:       size,
		mines:      len(mineIndices),
		cells:      make([]Cell, size*size),
		revealed:   make([]bool, size*size),
		safeHidden: size*size - len(mineIndices),
	}

	for _, idx := range mineIndices {
		b.cells[idx] = Mine
	}
	b.calculateNumbers()

	return b
}

// calculateNumbers stores the adjacent-mine count of every non-mine cell.
func (b *Board) calculateNumbers() {
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			i := b.index(x, y)
			if b.cells[i].IsMine() {
				continue
			}
			b.cells[i] = Cell(countAdjacentMines(b.cells, b.size, x, y))
		}
	}
}

func (b *Board) index(x, y int) int {
	return y*b.size + x
}

// Size returns the side length of the board
func (b *Board) Size() int {
	return b.size
}

// Mines returns the number of mines on the board
func (b *Board) Mines() int {
	return b.mines
}

// InBounds reports whether x,y is a cell of the board
func (b *Board) InBounds(x, y int) bool {
	return inBounds(b.size, x, y)
}

// CellAt returns the value of the cell at x,y. ok is false when out of bounds.
func (b *Board) CellAt(x, y int) (cell Cell, ok bool) {
	if !b.InBounds(x, y) {
		return 0, false
	}
	return b.cells[b.index(x, y)], true
}

// IsRevealed reports whether the cell at x,y has been revealed
func (b *Board) IsRevealed(x, y int) bool {
	return b.InBounds(x, y) && b.revealed[b.index(x, y)]
}

// IsGameOver returns whether the board reached a terminal state
func (b *Board) IsGameOver() bool {
	return b.over
}

// IsVictory returns whether the board was won
func (b *Board) IsVictory() bool {
	return b.won
}

// RemainingSafe returns how many safe cells are still hidden
func (b *Board) RemainingSafe() int {
	return b.safeHidden
}
