package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/bwmarrin/discordgo"
)

// MaxBoardSize is the largest board that fits in a message: Discord allows
// five rows of five buttons.
const MaxBoardSize = 5

const (
	embedTitle = "**Minesweeper**"

	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c

	labelHidden = "🟦"
	labelEmpty  = "🟪"
	labelMine   = "💣"

	customIDPrefix = "ms"
)

var errBadCustomID = errors.New("not a minesweeper button")

// cellRef is what a button click refers to
type cellRef struct {
	Owner  string
	GameID string
	X, Y   int
}

func customID(owner, gameID string, x, y int) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d", customIDPrefix, owner, gameID, x, y)
}

func parseCustomID(id string) (cellRef, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 5 || parts[0] != customIDPrefix || parts[1] == "" || parts[2] == "" {
		return cellRef{}, errBadCustomID
	}

	x, err := strconv.Atoi(parts[3])
	if err != nil {
		return cellRef{}, fmt.Errorf("%w: %v", errBadCustomID, err)
	}
	y, err := strconv.Atoi(parts[4])
	if err != nil {
		return cellRef{}, fmt.Errorf("%w: %v", errBadCustomID, err)
	}

	return cellRef{Owner: parts[1], GameID: parts[2], X: x, Y: y}, nil
}

func cellButton(view engine.CellView) (string, discordgo.ButtonStyle) {
	switch view.State {
	case engine.StateMine:
		return labelMine, discordgo.DangerButton
	case engine.StateEmpty:
		return labelEmpty, discordgo.SecondaryButton
	case engine.StateCount:
		return strconv.Itoa(view.Count), discordgo.PrimaryButton
	default:
		return labelHidden, discordgo.PrimaryButton
	}
}

// boardComponents lays the board out as one action row per y
func boardComponents(owner, gameID string, board engine.Snapshot) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, board.Size)
	for y := 0; y < board.Size; y++ {
		buttons := make([]discordgo.MessageComponent, 0, board.Size)
		for x := 0; x < board.Size; x++ {
			label, style := cellButton(board.At(x, y))
			buttons = append(buttons, discordgo.Button{
				Label:    label,
				Style:    style,
				CustomID: customID(owner, gameID, x, y),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func boardEmbed(description string, color int, author *discordgo.User, member *discordgo.Member) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: description,
		Color:       color,
	}
	if author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: displayName(author, member)}
		if author.Avatar != "" {
			embed.Author.IconURL = author.AvatarURL("")
		}
	}
	return embed
}

// displayName prefers the server nickname, then the global display name
func displayName(u *discordgo.User, m *discordgo.Member) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// outcomeColor is red only for the move that hit a mine
func outcomeColor(o engine.Outcome) int {
	if o == engine.Loss {
		return colorRed
	}
	return colorGreen
}
