package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// CreateQuestRequest registers a forum thread as a quest.
type CreateQuestRequest struct {
	GuildID    string `json:"guild_id" validate:"required,snowflake"`
	ThreadID   string `json:"thread_id" validate:"required,snowflake"`
	DMID       string `json:"dm_id" validate:"required,snowflake"`
	Title      string `json:"title" validate:"max=200"`
	Body       string `json:"body" validate:"max=4000"`
	MaxPlayers int    `json:"max_players" validate:"gte=0,lte=100"`
}

// MemberRequest identifies the user a roster operation applies to.
type MemberRequest struct {
	UserID string `json:"user_id" validate:"required,snowflake"`
}

// CallerRequest identifies who invoked a privileged operation.
type CallerRequest struct {
	CallerID string `json:"caller_id" validate:"required,snowflake"`
	Admin    bool   `json:"admin"`
}

// KickRequest removes a target from a quest on the caller's authority.
type KickRequest struct {
	CallerRequest
	TargetID string `json:"target_id" validate:"required,snowflake"`
}

// UpdateQuestRequest is a field-subset quest update.
type UpdateQuestRequest struct {
	CallerRequest
	Status     *domain.Status    `json:"status,omitempty"`
	Mode       *domain.Mode      `json:"mode,omitempty"`
	Type       *domain.QuestType `json:"type,omitempty"`
	System     *string           `json:"system,omitempty"`
	Title      *string           `json:"title,omitempty"`
	MaxPlayers *int              `json:"max_players,omitempty"`
}

// SetEmbedRequest records where the recruit embed was posted.
type SetEmbedRequest struct {
	ChannelID string `json:"channel_id" validate:"required,snowflake"`
	MessageID string `json:"message_id" validate:"required,snowflake"`
}

// QuestResponse is a quest record plus its canonical thread title.
type QuestResponse struct {
	domain.Quest
	CanonicalTitle string `json:"canonical_title"`
}

// JoinResponse reports where a joining user landed.
type JoinResponse struct {
	QuestResponse
	Placement domain.Placement `json:"placement"`
	Position  int              `json:"position"`
}

// LeaveResponse reports a departure and any resulting promotion.
type LeaveResponse struct {
	QuestResponse
	RemovedFrom domain.Placement `json:"removed_from"`
	Promoted    string           `json:"promoted,omitempty"`
}

func questResponse(q *domain.Quest) QuestResponse {
	return QuestResponse{Quest: *q, CanonicalTitle: title.RenderQuest(q)}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("Failed to decode request body", "error", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := GetValidator().ValidateStruct(dst); err != nil {
		log.Warn("Invalid request", "error", err)
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
		return false
	}
	return true
}

// HandleCreateQuest handles POST /quest
func HandleCreateQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateQuestRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		q, err := svc.Create(r.Context(), quest.NewQuest{
			GuildID:    req.GuildID,
			ThreadID:   req.ThreadID,
			DMID:       req.DMID,
			RawTitle:   req.Title,
			Body:       req.Body,
			MaxPlayers: req.MaxPlayers,
		})
		if err != nil {
			log.Error("Failed to create quest", "error", err, "thread_id", req.ThreadID)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusCreated, questResponse(q))
	}
}

// HandleGetQuest handles GET /quest/{questID}
func HandleGetQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.Get(r.Context(), chi.URLParam(r, "questID"))
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, questResponse(q))
	}
}

// HandleLookupQuest handles GET /quest?thread_id=...|embed_message_id=...
func HandleLookupQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			q   *domain.Quest
			err error
		)
		switch {
		case r.URL.Query().Get("thread_id") != "":
			q, err = svc.GetByThread(r.Context(), r.URL.Query().Get("thread_id"))
		case r.URL.Query().Get("embed_message_id") != "":
			q, err = svc.GetByEmbedMessage(r.Context(), r.URL.Query().Get("embed_message_id"))
		default:
			respondError(w, http.StatusBadRequest, "thread_id or embed_message_id is required")
			return
		}
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, questResponse(q))
	}
}

// HandleListQuests handles GET /quests
func HandleListQuests(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quests, err := svc.List(r.Context())
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		out := make([]QuestResponse, 0, len(quests))
		for i := range quests {
			out = append(out, questResponse(&quests[i]))
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// HandleJoinQuest handles POST /quest/{questID}/join
func HandleJoinQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req MemberRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		questID := chi.URLParam(r, "questID")
		q, res, err := svc.Join(r.Context(), questID, req.UserID)
		if err != nil {
			log.Warn("Join rejected", "error", err, "quest_id", questID, "user_id", req.UserID)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, JoinResponse{
			QuestResponse: questResponse(q),
			Placement:     res.Placement,
			Position:      res.Position,
		})
	}
}

// HandleLeaveQuest handles POST /quest/{questID}/leave
func HandleLeaveQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MemberRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		q, res, err := svc.Leave(r.Context(), chi.URLParam(r, "questID"), req.UserID)
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, LeaveResponse{
			QuestResponse: questResponse(q),
			RemovedFrom:   res.RemovedFrom,
			Promoted:      res.Promoted,
		})
	}
}

// HandleKickFromQuest handles POST /quest/{questID}/kick
func HandleKickFromQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req KickRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		caller := domain.Caller{UserID: req.CallerID, Admin: req.Admin}
		q, res, err := svc.Kick(r.Context(), chi.URLParam(r, "questID"), caller, req.TargetID)
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, LeaveResponse{
			QuestResponse: questResponse(q),
			RemovedFrom:   res.RemovedFrom,
			Promoted:      res.Promoted,
		})
	}
}

// HandleUpdateQuest handles PATCH /quest/{questID}
func HandleUpdateQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateQuestRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		caller := domain.Caller{UserID: req.CallerID, Admin: req.Admin}
		patch := domain.QuestPatch{
			Status:     req.Status,
			Mode:       req.Mode,
			Type:       req.Type,
			System:     req.System,
			Title:      req.Title,
			MaxPlayers: req.MaxPlayers,
		}

		q, err := svc.Update(r.Context(), chi.URLParam(r, "questID"), caller, patch)
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, questResponse(q))
	}
}

// HandleCompleteQuest handles POST /quest/{questID}/complete
func HandleCompleteQuest(svc quest.Service) http.HandlerFunc {
	return closeHandler(svc.Complete)
}

// HandleCancelQuest handles POST /quest/{questID}/cancel
func HandleCancelQuest(svc quest.Service) http.HandlerFunc {
	return closeHandler(svc.Cancel)
}

func closeHandler(close func(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CallerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		q, err := close(r.Context(), chi.URLParam(r, "questID"), domain.Caller{UserID: req.CallerID, Admin: req.Admin})
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, questResponse(q))
	}
}

// HandleDeleteQuest handles DELETE /quest/{questID}
func HandleDeleteQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CallerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "questID"), domain.Caller{UserID: req.CallerID, Admin: req.Admin})
		if err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Quest deleted"})
	}
}

// HandleSetEmbedMessage handles POST /quest/{questID}/embed
func HandleSetEmbedMessage(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetEmbedRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.SetEmbedMessage(r.Context(), chi.URLParam(r, "questID"), req.ChannelID, req.MessageID); err != nil {
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Embed recorded"})
	}
}
