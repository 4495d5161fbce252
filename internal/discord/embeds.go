package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// Component custom ID prefixes. The quest id rides after the colon.
const (
	ComponentApply   = "quest_apply"
	ComponentLeave   = "quest_leave"
	ComponentAccept  = "quest_accept"
	ComponentDecline = "quest_decline"
)

func mentionList(ids []string) string {
	if len(ids) == 0 {
		return "*none yet*"
	}
	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		mentions = append(mentions, "<@"+id+">")
	}
	return strings.Join(mentions, "\n")
}

func capacityLabel(q *handler.QuestResponse) string {
	if q.MaxPlayers == 0 {
		return fmt.Sprintf("Players (%d)", len(q.Roster))
	}
	return fmt.Sprintf("Players (%d/%d)", len(q.Roster), q.MaxPlayers)
}

// recruitEmbed builds the status-coloured board embed for a quest.
func recruitEmbed(q *handler.QuestResponse) *discordgo.MessageEmbed {
	threadLink := fmt.Sprintf("https://discord.com/channels/%s/%s", q.GuildID, q.ThreadID)

	fields := []*discordgo.MessageEmbedField{
		{Name: "DM", Value: "<@" + q.DMID + ">", Inline: true},
		{Name: "System", Value: q.System, Inline: true},
		{Name: "Status", Value: string(q.Status), Inline: true},
	}
	if q.Mode != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Mode", Value: string(q.Mode), Inline: true})
	}
	if q.Type != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Type", Value: string(q.Type), Inline: true})
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: capacityLabel(q), Value: mentionList(q.Roster)},
	)
	if len(q.Waitlist) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Waitlist (%d)", len(q.Waitlist)),
			Value: mentionList(q.Waitlist),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       q.Title,
		URL:         threadLink,
		Description: fmt.Sprintf("[Open the quest thread](%s)", threadLink),
		Color:       title.StatusColor(q.Status),
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Quest " + q.QuestID,
		},
	}
}

// recruitComponents returns the Apply/Leave buttons for an open quest; closed
// quests get no buttons.
func recruitComponents(q *handler.QuestResponse) []discordgo.MessageComponent {
	if q.Status.Terminal() {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Apply",
					Style:    discordgo.SuccessButton,
					CustomID: ComponentApply + ":" + q.QuestID,
				},
				discordgo.Button{
					Label:    "Leave",
					Style:    discordgo.SecondaryButton,
					CustomID: ComponentLeave + ":" + q.QuestID,
				},
			},
		},
	}
}

// pingContent builds the role-ping line for a new recruit embed.
func pingContent(cfg *domain.GuildConfig, q *handler.QuestResponse) string {
	var pings []string
	if cfg.PingRoleOnline != "" && q.Mode == domain.ModeOnline {
		pings = append(pings, "<@&"+cfg.PingRoleOnline+">")
	}
	if cfg.PingRoleOffline != "" && q.Mode == domain.ModeOffline {
		pings = append(pings, "<@&"+cfg.PingRoleOffline+">")
	}
	if cfg.PingRoleOneshot != "" && q.Type == domain.TypeOneshot {
		pings = append(pings, "<@&"+cfg.PingRoleOneshot+">")
	}
	if cfg.PingRoleCampaign != "" && q.Type == domain.TypeCampaign {
		pings = append(pings, "<@&"+cfg.PingRoleCampaign+">")
	}
	return strings.Join(pings, " ")
}

// postRecruitEmbed publishes the board embed for a fresh quest and records
// the message so later mutations can refresh it.
func (b *Bot) postRecruitEmbed(s *discordgo.Session, cfg *domain.GuildConfig, q *handler.QuestResponse) {
	if cfg.EmbedChannelID == "" {
		return
	}

	msg, err := s.ChannelMessageSendComplex(cfg.EmbedChannelID, &discordgo.MessageSend{
		Content:    pingContent(cfg, q),
		Embeds:     []*discordgo.MessageEmbed{recruitEmbed(q)},
		Components: recruitComponents(q),
	})
	if err != nil {
		slog.Error("Failed to post recruit embed", "quest_id", q.QuestID, "error", err)
		return
	}

	if err := b.Client.SetEmbedMessage(q.QuestID, cfg.EmbedChannelID, msg.ID); err != nil {
		slog.Error("Failed to record embed message", "quest_id", q.QuestID, "error", err)
	}
}

// refreshEmbed re-renders the board embed after a quest mutation.
func (b *Bot) refreshEmbed(s *discordgo.Session, q *handler.QuestResponse) {
	if q.EmbedChannelID == "" || q.EmbedMessageID == "" {
		return
	}

	embeds := []*discordgo.MessageEmbed{recruitEmbed(q)}
	components := recruitComponents(q)
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    q.EmbedChannelID,
		ID:         q.EmbedMessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		slog.Warn("Failed to refresh recruit embed", "quest_id", q.QuestID, "error", err)
	}
}

// renameThread pushes the canonical title onto the forum thread.
func renameThread(s *discordgo.Session, q *handler.QuestResponse) {
	_, err := s.ChannelEdit(q.ThreadID, &discordgo.ChannelEdit{Name: q.CanonicalTitle})
	if err != nil {
		slog.Warn("Failed to rename thread", "thread_id", q.ThreadID, "error", err)
	}
}
