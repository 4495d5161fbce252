package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

// SetupCommand returns the /questsetup command definition and handler. Only
// members with Manage Server may run it.
func SetupCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	manageServer := int64(discordgo.PermissionManageServer)
	cmd := &discordgo.ApplicationCommand{
		Name:                     "questsetup",
		Description:              "Configure the quest board for this server",
		DefaultMemberPermissions: &manageServer,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "forum",
				Description: "Forum channel where quest threads are created",
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildForum,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "board",
				Description: "Text channel where recruitment embeds are posted",
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "ping_online",
				Description: "Role pinged for online quests",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "ping_offline",
				Description: "Role pinged for offline quests",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "ping_oneshot",
				Description: "Role pinged for oneshots",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "ping_campaign",
				Description: "Role pinged for campaigns",
				Required:    false,
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !isModerator(i) {
			respondEphemeral(s, i, MsgNotAuthorized)
			return
		}

		opts := optionMap(i.ApplicationCommandData().Options)

		req := handler.GuildConfigRequest{
			ForumChannelID: opts["forum"].ChannelValue(nil).ID,
			EmbedChannelID: opts["board"].ChannelValue(nil).ID,
		}
		if opt, ok := opts["ping_online"]; ok {
			req.PingRoleOnline = opt.RoleValue(nil, "").ID
		}
		if opt, ok := opts["ping_offline"]; ok {
			req.PingRoleOffline = opt.RoleValue(nil, "").ID
		}
		if opt, ok := opts["ping_oneshot"]; ok {
			req.PingRoleOneshot = opt.RoleValue(nil, "").ID
		}
		if opt, ok := opts["ping_campaign"]; ok {
			req.PingRoleCampaign = opt.RoleValue(nil, "").ID
		}

		cfg, err := b.Client.PutGuildConfig(i.GuildID, req)
		if err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		respondEphemeral(s, i, fmt.Sprintf(
			"✅ Quest board configured. Threads in <#%s> will be tracked and embeds posted to <#%s>.",
			cfg.ForumChannelID, cfg.EmbedChannelID))
	}

	return cmd, handlerFn
}
