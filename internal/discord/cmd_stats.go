package discord

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

// StatsCommand returns the /queststats command definition and handler.
func StatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "queststats",
		Description: "Show board-wide quest statistics",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "field",
				Description: "Filter quests by this field",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Status", Value: string(domain.FieldStatus)},
					{Name: "Mode", Value: string(domain.FieldMode)},
					{Name: "Type", Value: string(domain.FieldType)},
					{Name: "System", Value: string(domain.FieldSystem)},
				},
			},
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "value",
				Description:  "Value to filter on",
				Required:     false,
				Autocomplete: true,
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		opts := optionMap(i.ApplicationCommandData().Options)

		field, value := "", ""
		if opt, ok := opts["field"]; ok {
			field = opt.StringValue()
		}
		if opt, ok := opts["value"]; ok {
			value = opt.StringValue()
		}
		if field != "" && value == "" {
			respondEphemeral(s, i, "⚠️ A filter field needs a value to go with it.")
			return
		}

		stats, err := b.Client.GetStats(field, value)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{statsEmbed(stats)},
			},
		})
		if err != nil {
			slog.Error("Failed to respond with stats", "error", err)
		}
	}

	return cmd, handlerFn
}

func statsEmbed(stats *domain.BoardStats) *discordgo.MessageEmbed {
	embedTitle := "📊 Quest Board Statistics"
	if stats.FilterField != "" {
		embedTitle = fmt.Sprintf("📊 Quest Board Statistics (%s: %s)", stats.FilterField, stats.FilterValue)
	}

	return &discordgo.MessageEmbed{
		Title: embedTitle,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Quests", Value: fmt.Sprintf("%d", stats.TotalQuests), Inline: true},
			{Name: "Players", Value: fmt.Sprintf("%d", stats.TotalPlayers), Inline: true},
			{Name: "Waitlisted", Value: fmt.Sprintf("%d", stats.TotalWaitlisted), Inline: true},
			{Name: "By status", Value: countField(stats.ByStatus), Inline: false},
			{Name: "By mode", Value: countField(stats.ByMode), Inline: true},
			{Name: "By type", Value: countField(stats.ByType), Inline: true},
			{Name: "By system", Value: countField(stats.BySystem), Inline: false},
		},
	}
}

// countField renders a count map as sorted "name: n" lines.
func countField(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %d\n", k, counts[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}
