package discord

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/ratelimit"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// Bot represents the Discord gateway process.
type Bot struct {
	Session  *discordgo.Session
	Client   *APIClient
	AppID    string
	Registry *CommandRegistry
	Limiter  *ratelimit.Limiter
	Systems  *title.Detector
}

// Config holds the bot configuration
type Config struct {
	Token       string
	AppID       string
	APIURL      string
	APIKey      string
	SystemsPath string
}

// New creates a new Discord bot
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	// Thread create events require the guilds intent on top of the defaults.
	s.Identify.Intents |= discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	detector, err := loadDetector(cfg.SystemsPath)
	if err != nil {
		return nil, err
	}

	return &Bot{
		Session:  s,
		Client:   NewAPIClient(cfg.APIURL, cfg.APIKey),
		AppID:    cfg.AppID,
		Registry: NewCommandRegistry(),
		Limiter:  ratelimit.NewApplicationLimiter(),
		Systems:  detector,
	}, nil
}

func loadDetector(path string) (*title.Detector, error) {
	if path == "" {
		return title.NewDetector(title.DefaultSystems())
	}
	d, err := title.LoadDetector(path)
	if err != nil {
		slog.Warn("Failed to load systems config, using defaults", "path", path, "error", err)
		return title.NewDetector(title.DefaultSystems())
	}
	return d, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.threadCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	b.Session.Close()
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b)
	case discordgo.InteractionApplicationCommandAutocomplete:
		HandleAutocomplete(s, i, b)
	case discordgo.InteractionMessageComponent:
		HandleComponent(s, i, b)
	}
}
