package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// respondEphemeral sends an ephemeral text reply to an interaction.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("Failed to respond to interaction", "error", err)
	}
}

// respondFriendlyError translates an API error into a friendly ephemeral
// reply.
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	respondEphemeral(s, i, friendlyError(err))
}

func friendlyError(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgGenericError
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return MsgQuestNotFound
	case http.StatusForbidden:
		return MsgNotAuthorized
	case http.StatusTooManyRequests:
		return MsgTooManyApplies
	case http.StatusConflict:
		// The server's conflict messages are already user-facing.
		return "⚠️ " + apiErr.Message
	case http.StatusBadRequest:
		return "⚠️ " + apiErr.Message
	default:
		return MsgGenericError
	}
}

// interactionUser returns the invoking user for guild or DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// isModerator reports whether the invoking member can manage the server.
func isModerator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer != 0
}

// optionMap flattens interaction options (or a subcommand's options) by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// dmUser opens a DM channel and sends content, logging failures only. Users
// with DMs disabled are skipped silently.
func dmUser(s *discordgo.Session, userID, content string) {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		slog.Warn("Failed to open DM channel", "user_id", userID, "error", err)
		return
	}
	if _, err := s.ChannelMessageSend(ch.ID, content); err != nil {
		slog.Warn("Failed to send DM", "user_id", userID, "error", err)
	}
}

// dmUserComplex sends a rich DM (embeds and components). Unlike dmUser the
// error is returned so callers can react to undeliverable messages.
func dmUserComplex(s *discordgo.Session, userID string, msg *discordgo.MessageSend) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel for %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSendComplex(ch.ID, msg); err != nil {
		return fmt.Errorf("sending DM to %s: %w", userID, err)
	}
	return nil
}
