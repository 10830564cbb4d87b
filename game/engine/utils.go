package engine

// inBounds reports whether x,y lies on a board of the given size.
func inBounds(size, x, y int) bool {
	return x >= 0 && x < size && y >= 0 && y < size
}

// forEachNeighbor calls fn for every in-bounds cell of the 8-neighbourhood of x,y.
func forEachNeighbor(size, x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if inBounds(size, nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

// countAdjacentMines counts mines around x,y in a flat cell slice.
func countAdjacentMines(cells []Cell, size, x, y int) int {
	count := 0
	forEachNeighbor(size, x, y, func(nx, ny int) {
		if cells[ny*size+nx].IsMine() {
			count++
		}
	})
	return count
}
