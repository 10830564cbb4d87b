package engine

import (
	"strconv"
	"strings"
)

// CellState is what a renderer may know about a cell.
type CellState string

const (
	StateHidden CellState = "hidden"
	StateMine   CellState = "mine"
	StateEmpty  CellState = "empty"
	StateCount  CellState = "count"
)

// CellView is the renderable form of one cell. Count is set for StateCount only.
type CellView struct {
	State CellState `json:"state"`
	Count int       `json:"count,omitempty"`
}

// Snapshot is a full, read-only picture of a board. Hidden cells carry no
// information about their content.
type Snapshot struct {
	Size     int          `json:"size"`
	Mines    int          `json:"mines"`
	Cells    [][]CellView `json:"cells"` // indexed [y][x]
	GameOver bool         `json:"game_over"`
	Victory  bool         `json:"victory"`
}

// Snapshot captures the current board for rendering
func (b *Board) Snapshot() Snapshot {
	rows := make([][]CellView, b.size)
	for y := 0; y < b.size; y++ {
		rows[y] = make([]CellView, b.size)
		for x := 0; x < b.size; x++ {
			rows[y][x] = b.viewAt(x, y)
		}
	}

	return Snapshot{
		Size:     b.size,
		Mines:    b.mines,
		Cells:    rows,
		GameOver: b.over,
		Victory:  b.won,
	}
}

func (b *Board) viewAt(x, y int) CellView {
	i := b.index(x, y)
	if !b.revealed[i] {
		return CellView{State: StateHidden}
	}

	switch cell := b.cells[i]; {
	case cell.IsMine():
		return CellView{State: StateMine}
	case cell == 0:
		return CellView{State: StateEmpty}
	default:
		return CellView{State: StateCount, Count: cell.Count()}
	}
}

// At returns the view of the cell at x,y. Out-of-bounds cells read as hidden.
func (s Snapshot) At(x, y int) CellView {
	if !inBounds(s.Size, x, y) || len(s.Cells) != s.Size {
		return CellView{State: StateHidden}
	}
	return s.Cells[y][x]
}

// Revealed counts the cells that are not hidden
func (s Snapshot) Revealed() int {
	n := 0
	for _, row := range s.Cells {
		for _, cell := range row {
			if cell.State != StateHidden {
				n++
			}
		}
	}
	return n
}

// String renders the snapshot as a text grid with column and row numbers.
// Hidden cells are "-", mines "*", empty cells "." and counts their digit.
func (s Snapshot) String() string {
	var sb strings.Builder

	sb.WriteString("   ")
	for x := 0; x < s.Size; x++ {
		sb.WriteString(strconv.Itoa(x % 10))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	for y, row := range s.Cells {
		sb.WriteString(strconv.Itoa(y % 10))
		sb.WriteString(": ")
		for _, cell := range row {
			switch cell.State {
			case StateMine:
				sb.WriteString("* ")
			case StateEmpty:
				sb.WriteString(". ")
			case StateCount:
				sb.WriteString(strconv.Itoa(cell.Count))
				sb.WriteByte(' ')
			default:
				sb.WriteString("- ")
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
