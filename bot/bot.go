package bot

import (
	"fmt"
	"strings"
	"time"

	"parlay/application"
	"parlay/bot/features/board"
	"parlay/bot/features/leaderboard"
	"parlay/bot/features/profile"
	"parlay/bot/features/tickets"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	Location         *time.Location
	LeaderboardLimit int
}

// Bot manages the Discord session and routes interactions to features
type Bot struct {
	config  Config
	session *discordgo.Session

	// Feature modules
	board       *board.Feature
	tickets     *tickets.Feature
	leaderboard *leaderboard.Feature
	profile     *profile.Feature
}

// New creates a new bot instance with all features
func New(config Config, ledger *application.Ledger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:      config,
		session:     dg,
		board:       board.New(ledger, config.Location),
		tickets:     tickets.New(ledger),
		leaderboard: leaderboard.New(ledger, config.LeaderboardLimit),
		profile:     profile.New(ledger),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("guild", config.GuildID).Info("Discord bot connected")
	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "board":
		b.board.HandleCommand(s, i)
	case "ticket", "tickets", "claim", "claimall", "cancel":
		b.tickets.HandleCommand(s, i)
	case "leaderboard":
		b.leaderboard.HandleCommand(s, i)
	case "profile":
		b.profile.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	if strings.HasPrefix(i.MessageComponentData().CustomID, "ticket_") {
		b.tickets.HandleInteraction(s, i)
	}
}
