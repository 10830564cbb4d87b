// Package config loads the game settings and the channel allow-list.
//
// Settings come from three layers, later ones winning:
//   - built-in defaults (5x5 board, 5 mines, 30m idle timeout, 5m sweep)
//   - an optional minesweeper.{toml,yaml,json} file in the config directory
//   - MINESWEEPER_* environment variables (MINESWEEPER_BOARD_SIZE, ...)
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	settings := manager.Settings()
//
//	allowed := config.LoadAllowedChannels(os.Getenv("DEFAULT_CHANNEL_ID"), "allowed_channels.txt", logger)
//	if allowed.Allowed(channelID) {
//		...
//	}
//
// Settings are validated when loaded, so a board with more mines than cells
// fails at startup rather than on the first game.
package config
