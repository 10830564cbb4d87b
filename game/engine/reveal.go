package engine

// Reveal uncovers the cell at x,y.
//
// Out-of-bounds coordinates, an already revealed cell, or a finished board
// yield Rejected and leave the board untouched. A mine ends the game with
// Loss and nothing else is revealed. A cell with no adjacent mines uncovers
// its connected empty region and the numbered cells around it. Win is
// returned once every safe cell is revealed.
func (b *Board) Reveal(x, y int) Outcome {
	if b.over || !b.InBounds(x, y) {
		return Rejected
	}

	i := b.index(x, y)
	if b.revealed[i] {
		return Rejected
	}
	b.revealed[i] = true

	if b.cells[i].IsMine() {
		b.over = true
		return Loss
	}

	b.safeHidden--
	if b.cells[i] == 0 {
		b.floodFill(i)
	}

	if b.safeHidden == 0 {
		b.over = true
		b.won = true
		return Win
	}
	return Continue
}

// floodFill reveals the empty region containing start with an explicit stack.
// A cell enters the stack only when it flips from hidden to revealed, so each
// cell is processed at most once.
func (b *Board) floodFill(start int) {
	stack := []int{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		forEachNeighbor(b.size, current%b.size, current/b.size, func(nx, ny int) {
			j := b.index(nx, ny)
			if b.revealed[j] || b.cells[j].IsMine() {
				return
			}
			b.revealed[j] = true
			b.safeHidden--
			if b.cells[j] == 0 {
				stack = append(stack, j)
			}
		})
	}
}
