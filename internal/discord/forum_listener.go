package discord

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

// threadCreate registers new threads in the configured recruitment forum as
// quests automatically. Threads elsewhere are ignored.
func (b *Bot) threadCreate(s *discordgo.Session, t *discordgo.ThreadCreate) {
	if t.Type != discordgo.ChannelTypeGuildPublicThread || t.ParentID == "" {
		return
	}

	cfg, err := b.Client.GetGuildConfig(t.GuildID)
	if err != nil {
		// Unconfigured guilds simply never auto-register.
		return
	}
	if t.ParentID != cfg.ForumChannelID {
		return
	}

	// A forum thread's starter message shares the thread's ID.
	body := ""
	if starter, err := s.ChannelMessage(t.ID, t.ID); err == nil {
		body = starter.Content
	}

	q, err := b.Client.CreateQuest(handler.CreateQuestRequest{
		GuildID:  t.GuildID,
		ThreadID: t.ID,
		DMID:     t.OwnerID,
		Title:    t.Name,
		Body:     body,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 409 {
			// Already registered, e.g. via /quest register before the
			// gateway event arrived.
			return
		}
		slog.Error("Failed to auto-register forum thread", "thread_id", t.ID, "error", err)
		return
	}

	slog.Info("Registered quest from forum thread",
		"quest_id", q.QuestID, "thread_id", t.ID, "dm_id", t.OwnerID)

	renameThread(s, q)
	b.postRecruitEmbed(s, cfg, q)

	if q.System == domain.SystemUnknown {
		dmUser(s, t.OwnerID, fmt.Sprintf(MsgSystemUnknownDM, q.Title))
	}
}
