package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
)

// GuildConfigRequest stores the board settings for one guild.
type GuildConfigRequest struct {
	ForumChannelID   string `json:"forum_channel_id" validate:"required,snowflake"`
	EmbedChannelID   string `json:"embed_channel_id" validate:"required,snowflake"`
	PingRoleOnline   string `json:"ping_role_online" validate:"snowflake"`
	PingRoleOffline  string `json:"ping_role_offline" validate:"snowflake"`
	PingRoleOneshot  string `json:"ping_role_oneshot" validate:"snowflake"`
	PingRoleCampaign string `json:"ping_role_campaign" validate:"snowflake"`
}

// HandleGetGuildConfig handles GET /guild/{guildID}/config
func HandleGetGuildConfig(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.GetGuildConfig(r.Context(), chi.URLParam(r, "guildID"))
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, cfg)
	}
}

// HandlePutGuildConfig handles PUT /guild/{guildID}/config
func HandlePutGuildConfig(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req GuildConfigRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		cfg := &domain.GuildConfig{
			GuildID:          chi.URLParam(r, "guildID"),
			ForumChannelID:   req.ForumChannelID,
			EmbedChannelID:   req.EmbedChannelID,
			PingRoleOnline:   req.PingRoleOnline,
			PingRoleOffline:  req.PingRoleOffline,
			PingRoleOneshot:  req.PingRoleOneshot,
			PingRoleCampaign: req.PingRoleCampaign,
		}
		if err := svc.PutGuildConfig(r.Context(), cfg); err != nil {
			log.Error("Failed to store guild config", "error", err, "guild_id", cfg.GuildID)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, cfg)
	}
}
