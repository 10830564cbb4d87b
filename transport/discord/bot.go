package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/config"
	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/Barkoczy/discord-minesweeper/game/session"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Player-facing rejections
const (
	MessageNotYourGame = "You can't interact with this game."
	MessageGameOver    = "The game is already over. Start a new game to play again."
	MessageFailed      = "Something went wrong, please try again."
)

// DefaultPrefix starts every bot command
const DefaultPrefix = "!"

const requestTimeout = 5 * time.Second

var ErrBoardTooLarge = errors.New("board does not fit in a Discord message")

// messenger is the part of *discordgo.Session the handlers use
type messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot connects the game service to a Discord gateway session
type Bot struct {
	session *discordgo.Session
	games   service.GameService
	allowed *config.AllowList
	prefix  string
	log     logrus.FieldLogger
}

// New creates a bot. Nothing is sent to Discord until Open.
func New(token string, games service.GameService, allowed *config.AllowList, log logrus.FieldLogger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord token is required")
	}

	b, err := newBot(games, allowed, log)
	if err != nil {
		return nil, err
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	s.AddHandler(b.onReady)
	s.AddHandler(b.onMessageCreate)
	s.AddHandler(b.onInteractionCreate)

	b.session = s
	return b, nil
}

func newBot(games service.GameService, allowed *config.AllowList, log logrus.FieldLogger) (*Bot, error) {
	if size := games.Settings().BoardSize; size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %dx%d, at most %dx%d", ErrBoardTooLarge, size, size, MaxBoardSize, MaxBoardSize)
	}
	if allowed == nil {
		allowed = config.NewAllowList()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Bot{
		games:   games,
		allowed: allowed,
		prefix:  DefaultPrefix,
		log:     log.WithField("component", "discord"),
	}, nil
}

// Open connects to the gateway
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.WithFields(logrus.Fields{
		"user":     r.User.String(),
		"channels": b.allowed.Len(),
	}).Info("connected to Discord")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i)
}

// handleMessage answers !play in allowed channels
func (b *Bot) handleMessage(api messenger, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	fields := strings.Fields(m.Content)
	if len(fields) == 0 || fields[0] != b.prefix+"play" {
		return
	}

	log := b.log.WithFields(logrus.Fields{
		"player":  m.Author.ID,
		"channel": m.ChannelID,
	})

	if !b.allowed.Allowed(m.ChannelID) {
		log.Debug("ignoring command outside allowed channels")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	game, err := b.games.StartGame(ctx, m.Author.ID)
	if err != nil {
		log.WithError(err).Error("failed to start game")
		return
	}

	_, err = api.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{boardEmbed(service.MessagePlaying, colorBlue, m.Author, m.Member)},
		Components: boardComponents(game.Player, game.GameID, game.Board),
	})
	if err != nil {
		log.WithError(err).Error("failed to send game board")
		return
	}

	log.WithField("game", game.GameID).Info("game started")
}

// handleInteraction reveals the clicked cell and redraws the board
func (b *Bot) handleInteraction(api messenger, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	ref, err := parseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return
	}

	user, member := interactionUser(i)
	if user == nil {
		b.log.WithField("guild", i.GuildID).Warn("could not determine user of interaction")
		return
	}

	log := b.log.WithFields(logrus.Fields{
		"player":    ref.Owner,
		"requester": user.ID,
		"game":      ref.GameID,
		"x":         ref.X,
		"y":         ref.Y,
	})

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := b.games.Reveal(ctx, service.RevealRequest{
		Player:    ref.Owner,
		Requester: user.ID,
		GameID:    ref.GameID,
		X:         ref.X,
		Y:         ref.Y,
	})
	switch {
	case errors.Is(err, session.ErrOwnership):
		b.respondEphemeral(api, i, MessageNotYourGame)
		return
	case errors.Is(err, session.ErrNoSession):
		b.respondEphemeral(api, i, MessageGameOver)
		return
	case err != nil:
		log.WithError(err).Error("reveal failed")
		b.respondEphemeral(api, i, MessageFailed)
		return
	}

	description := service.OutcomeMessage(result.Outcome)
	if result.Outcome == engine.Rejected {
		description = service.MessagePlaying
	}

	err = api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{boardEmbed(description, outcomeColor(result.Outcome), user, member)},
			Components: boardComponents(result.Player, result.GameID, result.Board),
		},
	})
	if err != nil {
		log.WithError(err).Error("failed to update game board")
		return
	}

	if result.GameOver {
		log.WithField("outcome", result.Outcome).Info("game finished")
	}
}

func (b *Bot) respondEphemeral(api messenger, i *discordgo.InteractionCreate, content string) {
	err := api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.WithError(err).Warn("failed to send ephemeral response")
	}
}

// interactionUser returns the clicking user; guild interactions carry it in
// Member, direct messages in User.
func interactionUser(i *discordgo.InteractionCreate) (*discordgo.User, *discordgo.Member) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User, i.Member
	}
	return i.User, nil
}
