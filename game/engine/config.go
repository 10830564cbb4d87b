package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when board dimensions or the mine count cannot
// produce a valid board.
var ErrInvalidConfig = errors.New("invalid board configuration")

// ValidateConfig checks that a board of the given size can hold the given mines.
// At least one cell must stay safe, so mines must be below size*size. The
// side length is capped at MaxSize so size*size never overflows.
func ValidateConfig(size, mines int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if size > MaxSize {
		return fmt.Errorf("%w: size must be at most %d, got %d", ErrInvalidConfig, MaxSize, size)
	}
	if mines < 0 {
		return fmt.Errorf("%w: mines must not be negative, got %d", ErrInvalidConfig, mines)
	}
	if mines >= size*size {
		return fmt.Errorf("%w: mines must be less than %d for a %dx%d board, got %d",
			ErrInvalidConfig, size*size, size, size, mines)
	}
	return nil
}
