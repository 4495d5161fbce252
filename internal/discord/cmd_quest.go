package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

const listPageSize = 10

// QuestCommand returns the /quest command definition and handler.
func QuestCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minZero := float64(0)
	cmd := &discordgo.ApplicationCommand{
		Name:        "quest",
		Description: "Manage quests on the recruitment board",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "register",
				Description: "Register this forum thread as a quest",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "max_players",
						Description: "Maximum roster size (0 = unlimited)",
						MinValue:    &minZero,
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Show this quest's roster and status",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Browse quests on the board",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "page",
						Description: "Page number",
						MinValue:    &minZero,
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "join",
				Description: "Join this quest's roster",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "leave",
				Description: "Leave this quest",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "kick",
				Description: "Remove a player from this quest (DM only)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "player",
						Description: "Player to remove",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "update",
				Description: "Update this quest's details (DM only)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "title",
						Description: "New quest title",
						Required:    false,
					},
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "system",
						Description:  "Game system",
						Required:     false,
						Autocomplete: true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "mode",
						Description: "Where the quest is played",
						Required:    false,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Online", Value: string(domain.ModeOnline)},
							{Name: "Offline", Value: string(domain.ModeOffline)},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "type",
						Description: "Oneshot or campaign",
						Required:    false,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Oneshot", Value: string(domain.TypeOneshot)},
							{Name: "Campaign", Value: string(domain.TypeCampaign)},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "max_players",
						Description: "Maximum roster size (0 = unlimited)",
						MinValue:    &minZero,
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "complete",
				Description: "Mark this quest completed (DM only)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cancel",
				Description: "Cancel this quest (DM only)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete this quest's record (DM only)",
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		sub := i.ApplicationCommandData().Options[0]

		switch sub.Name {
		case "register":
			handleQuestRegister(s, i, b, sub)
		case "info":
			handleQuestInfo(s, i, b)
		case "list":
			handleQuestList(s, i, b, sub)
		case "join":
			handleQuestJoin(s, i, b)
		case "leave":
			handleQuestLeave(s, i, b)
		case "kick":
			handleQuestKick(s, i, b, sub)
		case "update":
			handleQuestUpdate(s, i, b, sub)
		case "complete":
			handleQuestClose(s, i, b, true)
		case "cancel":
			handleQuestClose(s, i, b, false)
		case "delete":
			handleQuestDelete(s, i, b)
		}
	}

	return cmd, handlerFn
}

// threadQuest resolves the quest registered for the channel the command was
// invoked in.
func threadQuest(i *discordgo.InteractionCreate, b *Bot) (*handler.QuestResponse, error) {
	return b.Client.GetQuestByThread(i.ChannelID)
}

func handleQuestRegister(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)

	ch, err := s.Channel(i.ChannelID)
	if err != nil || ch.Type != discordgo.ChannelTypeGuildPublicThread {
		respondEphemeral(s, i, "⚠️ Run this inside the forum thread you want to register.")
		return
	}

	maxPlayers := 0
	if opt, ok := optionMap(sub.Options)["max_players"]; ok {
		maxPlayers = int(opt.IntValue())
	}

	// The starter message doubles as the quest description; scan it for a
	// game system when the title has none.
	body := ""
	if starter, err := s.ChannelMessage(i.ChannelID, i.ChannelID); err == nil {
		body = starter.Content
	}

	q, err := b.Client.CreateQuest(handler.CreateQuestRequest{
		GuildID:    i.GuildID,
		ThreadID:   i.ChannelID,
		DMID:       user.ID,
		Title:      ch.Name,
		Body:       body,
		MaxPlayers: maxPlayers,
	})
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, q)
	if cfg, err := b.Client.GetGuildConfig(i.GuildID); err == nil {
		b.postRecruitEmbed(s, cfg, q)
	}
	if q.System == domain.SystemUnknown {
		dmUser(s, user.ID, fmt.Sprintf(MsgSystemUnknownDM, q.Title))
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ Registered **%s** as quest `%s`.", q.Title, q.QuestID))
}

func handleQuestInfo(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{recruitEmbed(q)},
		},
	})
	if err != nil {
		slog.Error("Failed to respond with quest info", "error", err)
	}
}

func handleQuestList(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	quests, err := b.Client.ListQuests()
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	// Open quests first.
	open := make([]handler.QuestResponse, 0, len(quests))
	for _, q := range quests {
		if !q.Status.Terminal() {
			open = append(open, q)
		}
	}

	page := 1
	if opt, ok := optionMap(sub.Options)["page"]; ok && opt.IntValue() > 0 {
		page = int(opt.IntValue())
	}

	totalPages := (len(open) + listPageSize - 1) / listPageSize
	if totalPages == 0 {
		respondEphemeral(s, i, "The board is empty. Start a quest!")
		return
	}
	if page > totalPages {
		page = totalPages
	}

	var sb strings.Builder
	start := (page - 1) * listPageSize
	end := start + listPageSize
	if end > len(open) {
		end = len(open)
	}
	for _, q := range open[start:end] {
		fmt.Fprintf(&sb, "`%s` [%s] **%s** · <@%s> (%d players)\n",
			q.QuestID, q.Status, q.Title, q.DMID, len(q.Roster))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📜 Quest Board",
		Description: sb.String(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d · %d open quests", page, totalPages, len(open)),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("Failed to respond with quest list", "error", err)
	}
}

func handleQuestJoin(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	user := interactionUser(i)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	res, err := b.Client.JoinQuest(q.QuestID, user.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, &res.QuestResponse)
	b.refreshEmbed(s, &res.QuestResponse)

	if res.Placement == domain.PlacementWaitlist {
		respondEphemeral(s, i, fmt.Sprintf(MsgJoinedWaitlist, res.Position))
		return
	}
	respondEphemeral(s, i, MsgJoinedRoster)
}

func handleQuestLeave(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	user := interactionUser(i)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	res, err := b.Client.LeaveQuest(q.QuestID, user.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, &res.QuestResponse)
	b.refreshEmbed(s, &res.QuestResponse)
	notifyPromotion(s, res)

	respondEphemeral(s, i, MsgLeftQuest)
}

func handleQuestKick(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	caller := interactionUser(i)
	target := optionMap(sub.Options)["player"].UserValue(s)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	res, err := b.Client.KickFromQuest(q.QuestID, caller.ID, isModerator(i), target.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, &res.QuestResponse)
	b.refreshEmbed(s, &res.QuestResponse)
	notifyPromotion(s, res)

	respondEphemeral(s, i, fmt.Sprintf("👢 Removed <@%s> from the quest.", target.ID))
}

func handleQuestUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	caller := interactionUser(i)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	req := handler.UpdateQuestRequest{
		CallerRequest: handler.CallerRequest{CallerID: caller.ID, Admin: isModerator(i)},
	}
	for _, opt := range sub.Options {
		switch opt.Name {
		case "title":
			v := opt.StringValue()
			req.Title = &v
		case "system":
			v := opt.StringValue()
			req.System = &v
		case "mode":
			v := domain.Mode(opt.StringValue())
			req.Mode = &v
		case "type":
			v := domain.QuestType(opt.StringValue())
			req.Type = &v
		case "max_players":
			v := int(opt.IntValue())
			req.MaxPlayers = &v
		}
	}

	updated, err := b.Client.UpdateQuest(q.QuestID, req)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, updated)
	b.refreshEmbed(s, updated)

	respondEphemeral(s, i, "✅ Quest updated.")
}

func handleQuestClose(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, complete bool) {
	caller := interactionUser(i)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	var closed *handler.QuestResponse
	if complete {
		closed, err = b.Client.CompleteQuest(q.QuestID, caller.ID, isModerator(i))
	} else {
		closed, err = b.Client.CancelQuest(q.QuestID, caller.ID, isModerator(i))
	}
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	renameThread(s, closed)
	b.refreshEmbed(s, closed)

	if complete {
		respondEphemeral(s, i, "🏁 Quest marked completed. Well met, adventurers!")
		return
	}
	respondEphemeral(s, i, "🛑 Quest cancelled.")
}

func handleQuestDelete(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	caller := interactionUser(i)

	q, err := threadQuest(i, b)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	if err := b.Client.DeleteQuest(q.QuestID, caller.ID, isModerator(i)); err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	respondEphemeral(s, i, "🗑️ Quest record deleted.")
}

// notifyPromotion DMs a player who was pulled off the waitlist.
func notifyPromotion(s *discordgo.Session, res *handler.LeaveResponse) {
	if res.Promoted == "" {
		return
	}
	dmUser(s, res.Promoted, fmt.Sprintf(MsgPromoted, res.Title))
}
