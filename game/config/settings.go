package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/session"
)

var ErrInvalidSettings = errors.New("invalid settings")

// minDuration is the shortest idle timeout or sweep interval accepted.
const minDuration = time.Second

// Settings are the tunables of the game server.
type Settings struct {
	BoardSize     int           `mapstructure:"board_size" json:"board_size"`
	Mines         int           `mapstructure:"mines" json:"mines"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" json:"sweep_interval"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		BoardSize:     engine.DefaultSize,
		Mines:         engine.DefaultMines,
		IdleTimeout:   session.DefaultIdleTimeout,
		SweepInterval: session.DefaultSweepInterval,
	}
}

// Validate checks that a board can be generated and the sweeper can run.
// Durations shorter than a second are rejected.
func (s Settings) Validate() error {
	if err := engine.ValidateConfig(s.BoardSize, s.Mines); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if s.IdleTimeout < minDuration {
		return fmt.Errorf("%w: idle timeout must be at least %s, got %s", ErrInvalidSettings, minDuration, s.IdleTimeout)
	}
	if s.SweepInterval < minDuration {
		return fmt.Errorf("%w: sweep interval must be at least %s, got %s", ErrInvalidSettings, minDuration, s.SweepInterval)
	}
	return nil
}
