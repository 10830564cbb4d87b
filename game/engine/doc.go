// Package engine provides the core minesweeper rules.
//
// The engine package implements:
//   - Board generation with an exact mine count and adjacency numbers
//   - The reveal operation, including the flood fill of empty regions
//   - Win and loss detection
//   - Renderable snapshots that never leak hidden cells
//
// Core Types:
//
// Board holds a square grid as two flat arrays indexed by y*size+x: the cell
// values (a mine marker or an adjacent-mine count) and the revealed flags.
// Reveal returns an Outcome describing what the move did. Snapshot is the
// read-only view handed to renderers.
//
// Usage:
//
//	board, err := engine.Generate(5, 5, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	switch board.Reveal(2, 3) {
//	case engine.Loss:
//		// a mine was uncovered
//	case engine.Win:
//		// every safe cell is revealed
//	}
//	view := board.Snapshot()
//
// Game Rules:
//
// Revealing a mine loses the game immediately. Revealing a cell with no
// adjacent mines uncovers its whole connected empty region together with the
// numbered cells bordering it. The game is won once every cell that is not a
// mine has been revealed. Boards are not safe for concurrent use; callers
// serialize access per board.
package engine
