package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sahilm/fuzzy"
)

const maxAutocompleteChoices = 25

// HandleAutocomplete serves game-system suggestions for the /quest update and
// /queststats commands.
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	focused := focusedOption(i.ApplicationCommandData().Options)
	if focused == nil {
		return
	}

	names := b.Systems.Names()
	typed := focused.StringValue()

	var choices []*discordgo.ApplicationCommandOptionChoice
	if typed == "" {
		for _, name := range names {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
			if len(choices) == maxAutocompleteChoices {
				break
			}
		}
	} else {
		for _, m := range fuzzy.Find(typed, names) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: m.Str, Value: m.Str})
			if len(choices) == maxAutocompleteChoices {
				break
			}
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		slog.Error("Failed to respond to autocomplete", "error", err)
	}
}

// focusedOption walks the option tree (subcommands included) for the option
// currently being typed.
func focusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range opts {
		if opt.Focused {
			return opt
		}
		if len(opt.Options) > 0 {
			if nested := focusedOption(opt.Options); nested != nil {
				return nested
			}
		}
	}
	return nil
}
