package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

func boardQuest() *handler.QuestResponse {
	return &handler.QuestResponse{
		Quest: domain.Quest{
			QuestID:    "strahd-0001-010126",
			GuildID:    "100",
			ThreadID:   "200",
			DMID:       "300",
			Title:      "Curse of Strahd",
			System:     "D&D",
			Status:     domain.StatusRecruiting,
			Mode:       domain.ModeOnline,
			Type:       domain.TypeCampaign,
			MaxPlayers: 4,
			Roster:     []string{"401", "402"},
			Waitlist:   []string{"403"},
		},
		CanonicalTitle: "[RECRUITING] [ONLINE] [CAMPAIGN] [D&D] Curse of Strahd",
	}
}

func TestRecruitEmbed(t *testing.T) {
	q := boardQuest()
	embed := recruitEmbed(q)

	assert.Equal(t, "Curse of Strahd", embed.Title)
	assert.Equal(t, "https://discord.com/channels/100/200", embed.URL)
	assert.Equal(t, "Quest strahd-0001-010126", embed.Footer.Text)

	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "<@300>", byName["DM"])
	assert.Equal(t, "D&D", byName["System"])
	assert.Equal(t, "RECRUITING", byName["Status"])
	assert.Equal(t, "ONLINE", byName["Mode"])
	assert.Equal(t, "CAMPAIGN", byName["Type"])
	assert.Equal(t, "<@401>\n<@402>", byName["Players (2/4)"])
	assert.Equal(t, "<@403>", byName["Waitlist (1)"])
}

func TestRecruitEmbed_UnboundedNoWaitlist(t *testing.T) {
	q := boardQuest()
	q.MaxPlayers = 0
	q.Waitlist = nil

	embed := recruitEmbed(q)

	for _, f := range embed.Fields {
		assert.NotContains(t, f.Name, "Waitlist")
	}
	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	assert.Contains(t, byName, "Players (2)")
}

func TestRecruitComponents(t *testing.T) {
	q := boardQuest()

	components := recruitComponents(q)
	require.Len(t, components, 1)

	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	apply := row.Components[0].(discordgo.Button)
	assert.Equal(t, "quest_apply:strahd-0001-010126", apply.CustomID)
	leave := row.Components[1].(discordgo.Button)
	assert.Equal(t, "quest_leave:strahd-0001-010126", leave.CustomID)
}

func TestRecruitComponents_TerminalQuestHasNone(t *testing.T) {
	q := boardQuest()
	q.Status = domain.StatusCompleted
	assert.Nil(t, recruitComponents(q))

	q.Status = domain.StatusCancelled
	assert.Nil(t, recruitComponents(q))
}

func TestPingContent(t *testing.T) {
	cfg := &domain.GuildConfig{
		PingRoleOnline:   "1",
		PingRoleOffline:  "2",
		PingRoleOneshot:  "3",
		PingRoleCampaign: "4",
	}

	q := boardQuest()
	assert.Equal(t, "<@&1> <@&4>", pingContent(cfg, q))

	q.Mode = domain.ModeOffline
	q.Type = domain.TypeOneshot
	assert.Equal(t, "<@&2> <@&3>", pingContent(cfg, q))

	assert.Equal(t, "", pingContent(&domain.GuildConfig{}, q))
}

func TestMentionList_Empty(t *testing.T) {
	assert.Equal(t, "*none yet*", mentionList(nil))
}
