package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/metrics"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// HandleComponent dispatches button presses on recruitment embeds and on the
// application DMs sent to quest DMs.
func HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	customID := i.MessageComponentData().CustomID
	parts := strings.Split(customID, ":")

	switch parts[0] {
	case ComponentApply:
		if len(parts) == 2 {
			handleApply(s, i, b, parts[1])
		}
	case ComponentLeave:
		if len(parts) == 2 {
			handleLeaveButton(s, i, b, parts[1])
		}
	case ComponentAccept:
		if len(parts) == 3 {
			handleApplicationDecision(s, i, b, parts[1], parts[2], true)
		}
	case ComponentDecline:
		if len(parts) == 3 {
			handleApplicationDecision(s, i, b, parts[1], parts[2], false)
		}
	default:
		slog.Warn("Unknown component interaction", "custom_id", customID)
	}
}

// handleApply forwards an application to the quest DM for approval. Applicants
// are throttled so they cannot flood a DM's inbox.
func handleApply(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, questID string) {
	user := interactionUser(i)

	if !b.Limiter.Allow(user.ID, questID) {
		metrics.ApplicationsThrottled.Inc()
		respondEphemeral(s, i, MsgTooManyApplies)
		return
	}

	q, err := b.Client.GetQuest(questID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}
	if q.Status.Terminal() {
		respondEphemeral(s, i, MsgQuestClosed)
		return
	}
	for _, id := range q.Roster {
		if id == user.ID {
			respondEphemeral(s, i, MsgAlreadyOnQuest)
			return
		}
	}

	decision := ComponentAccept + ":" + q.QuestID + ":" + user.ID
	rejection := ComponentDecline + ":" + q.QuestID + ":" + user.ID

	err = dmUserComplex(s, q.DMID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "📬 New application",
				Description: fmt.Sprintf("<@%s> wants to join **%s**.", user.ID, q.Title),
				Color:       title.StatusColor(q.Status),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Accept",
						Style:    discordgo.SuccessButton,
						CustomID: decision,
					},
					discordgo.Button{
						Label:    "Decline",
						Style:    discordgo.DangerButton,
						CustomID: rejection,
					},
				},
			},
		},
	})
	if err != nil {
		slog.Error("Failed to DM quest owner about application",
			"quest_id", q.QuestID, "dm_id", q.DMID, "error", err)
		respondEphemeral(s, i, MsgGenericError)
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("📨 Application sent to the DM of **%s**.", q.Title))
}

// handleApplicationDecision runs in the quest DM's direct messages when they
// press Accept or Decline on an application.
func handleApplicationDecision(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, questID, applicantID string, accepted bool) {
	if !accepted {
		q, err := b.Client.GetQuest(questID)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}
		dmUser(s, applicantID, fmt.Sprintf("😔 Your application to **%s** was declined.", q.Title))
		resolveApplicationMessage(s, i, fmt.Sprintf("Declined <@%s>.", applicantID))
		return
	}

	res, err := b.Client.JoinQuest(questID, applicantID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, &res.QuestResponse)
	b.refreshEmbed(s, &res.QuestResponse)

	if res.Placement == domain.PlacementWaitlist {
		dmUser(s, applicantID, fmt.Sprintf(
			"✅ Your application to **%s** was accepted, but the roster is full. You are #%d on the waitlist.",
			res.Title, res.Position))
	} else {
		dmUser(s, applicantID, fmt.Sprintf("⚔️ You are on the roster for **%s**. Good luck!", res.Title))
	}

	resolveApplicationMessage(s, i, fmt.Sprintf("Accepted <@%s>.", applicantID))
}

func handleLeaveButton(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, questID string) {
	user := interactionUser(i)

	res, err := b.Client.LeaveQuest(questID, user.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, &res.QuestResponse)
	b.refreshEmbed(s, &res.QuestResponse)
	notifyPromotion(s, res)

	respondEphemeral(s, i, MsgLeftQuest)
}

// resolveApplicationMessage replaces the Accept/Decline buttons on the
// application DM with the outcome so it cannot be acted on twice.
func resolveApplicationMessage(s *discordgo.Session, i *discordgo.InteractionCreate, outcome string) {
	components := []discordgo.MessageComponent{}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    outcome,
			Components: components,
		},
	})
	if err != nil {
		slog.Error("Failed to resolve application message", "error", err)
	}
}
