// Package discord runs the minesweeper game as a Discord bot.
//
// A player types !play in an allowed channel and the bot answers with an
// embed and one button per cell. Clicking a button reveals that cell and the
// bot redraws the message in place. Only the player who started a game can
// click its buttons, and a board whose game was replaced, finished or evicted
// for inactivity no longer reacts.
//
// Button labels:
//
//	🟦 hidden   🟪 empty   💣 mine   1-8 adjacent mines
//
// Every button carries the owner, the game ID and the cell in its custom ID,
// so the bot keeps no per-message state of its own.
package discord
