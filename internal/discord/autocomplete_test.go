package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autocompleteInteraction(typed string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:    "interaction-id",
			Token: "interaction-token",
			Type:  discordgo.InteractionApplicationCommandAutocomplete,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "quest",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Name: "update",
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{
								Type:    discordgo.ApplicationCommandOptionString,
								Name:    "system",
								Value:   typed,
								Focused: true,
							},
						},
					},
				},
			},
			Member: &discordgo.Member{User: &discordgo.User{ID: "401"}},
		},
	}
}

func TestHandleAutocomplete_FuzzyMatch(t *testing.T) {
	ctx := SetupTestContext(t)

	captured := ctx.CaptureResponses()
	HandleAutocomplete(ctx.Session, autocompleteInteraction("pathf"), ctx.Bot)

	require.NotEmpty(t, *captured)
	choices := (*captured)[0].Data.Choices
	require.NotEmpty(t, choices)
	assert.Equal(t, "PATHFINDER", choices[0].Name)
}

func TestHandleAutocomplete_EmptyInputListsAll(t *testing.T) {
	ctx := SetupTestContext(t)

	captured := ctx.CaptureResponses()
	HandleAutocomplete(ctx.Session, autocompleteInteraction(""), ctx.Bot)

	require.NotEmpty(t, *captured)
	choices := (*captured)[0].Data.Choices
	assert.Equal(t, len(ctx.Bot.Systems.Names()), len(choices))
	assert.LessOrEqual(t, len(choices), maxAutocompleteChoices)
}

func TestFocusedOption_Nested(t *testing.T) {
	i := autocompleteInteraction("dnd")
	opt := focusedOption(i.ApplicationCommandData().Options)
	require.NotNil(t, opt)
	assert.Equal(t, "system", opt.Name)

	assert.Nil(t, focusedOption(nil))
}
