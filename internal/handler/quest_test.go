package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
)

// mockQuestService implements quest.Service with overridable functions.
type mockQuestService struct {
	createFn func(ctx context.Context, req quest.NewQuest) (*domain.Quest, error)
	getFn    func(ctx context.Context, questID string) (*domain.Quest, error)
	joinFn   func(ctx context.Context, questID, userID string) (*domain.Quest, domain.JoinResult, error)
	leaveFn  func(ctx context.Context, questID, userID string) (*domain.Quest, domain.LeaveResult, error)
	updateFn func(ctx context.Context, questID string, caller domain.Caller, patch domain.QuestPatch) (*domain.Quest, error)
	listFn   func(ctx context.Context) ([]domain.Quest, error)
}

func (m *mockQuestService) Create(ctx context.Context, req quest.NewQuest) (*domain.Quest, error) {
	return m.createFn(ctx, req)
}

func (m *mockQuestService) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	return m.getFn(ctx, questID)
}

func (m *mockQuestService) GetByThread(ctx context.Context, threadID string) (*domain.Quest, error) {
	return m.getFn(ctx, threadID)
}

func (m *mockQuestService) GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error) {
	return m.getFn(ctx, messageID)
}

func (m *mockQuestService) List(ctx context.Context) ([]domain.Quest, error) {
	return m.listFn(ctx)
}

func (m *mockQuestService) Join(ctx context.Context, questID, userID string) (*domain.Quest, domain.JoinResult, error) {
	return m.joinFn(ctx, questID, userID)
}

func (m *mockQuestService) Leave(ctx context.Context, questID, userID string) (*domain.Quest, domain.LeaveResult, error) {
	return m.leaveFn(ctx, questID, userID)
}

func (m *mockQuestService) Kick(ctx context.Context, questID string, caller domain.Caller, targetID string) (*domain.Quest, domain.LeaveResult, error) {
	return m.leaveFn(ctx, questID, targetID)
}

func (m *mockQuestService) Update(ctx context.Context, questID string, caller domain.Caller, patch domain.QuestPatch) (*domain.Quest, error) {
	return m.updateFn(ctx, questID, caller, patch)
}

func (m *mockQuestService) Complete(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error) {
	return m.updateFn(ctx, questID, caller, domain.QuestPatch{})
}

func (m *mockQuestService) Cancel(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error) {
	return m.updateFn(ctx, questID, caller, domain.QuestPatch{})
}

func (m *mockQuestService) Delete(context.Context, string, domain.Caller) error { return nil }

func (m *mockQuestService) SetEmbedMessage(context.Context, string, string, string) error {
	return nil
}

func (m *mockQuestService) GetGuildConfig(_ context.Context, guildID string) (*domain.GuildConfig, error) {
	return &domain.GuildConfig{GuildID: guildID}, nil
}

func (m *mockQuestService) PutGuildConfig(context.Context, *domain.GuildConfig) error { return nil }

func (m *mockQuestService) Shutdown(context.Context) error { return nil }

func sampleQuest() *domain.Quest {
	return &domain.Quest{
		QuestID:    "010926-0001",
		GuildID:    "100",
		ThreadID:   "200",
		DMID:       "300",
		Title:      "Curse of Strahd",
		Status:     domain.StatusRecruiting,
		Mode:       domain.ModeOnline,
		Type:       domain.TypeCampaign,
		System:     "D&D",
		MaxPlayers: 5,
		Roster:     []string{"400"},
		Waitlist:   []string{},
	}
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreateQuest(t *testing.T) {
	svc := &mockQuestService{
		createFn: func(_ context.Context, req quest.NewQuest) (*domain.Quest, error) {
			assert.Equal(t, "200", req.ThreadID)
			return sampleQuest(), nil
		},
	}

	body, _ := json.Marshal(CreateQuestRequest{
		GuildID:    "100",
		ThreadID:   "200",
		DMID:       "300",
		Title:      "[ONLINE] [CAMPAIGN] [D&D] Curse of Strahd",
		MaxPlayers: 5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quest", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleCreateQuest(svc)(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp QuestResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "010926-0001", resp.QuestID)
	assert.Equal(t, "[RECRUITING] [ONLINE] [CAMPAIGN] [D&D] Curse of Strahd", resp.CanonicalTitle)
}

func TestHandleCreateQuest_ValidationFailure(t *testing.T) {
	svc := &mockQuestService{}

	tests := []struct {
		name string
		req  CreateQuestRequest
	}{
		{"missing thread", CreateQuestRequest{GuildID: "100", DMID: "300"}},
		{"non-numeric ids", CreateQuestRequest{GuildID: "guild", ThreadID: "200", DMID: "300"}},
		{"negative cap", CreateQuestRequest{GuildID: "100", ThreadID: "200", DMID: "300", MaxPlayers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/quest", bytes.NewReader(body))
			w := httptest.NewRecorder()

			HandleCreateQuest(svc)(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleCreateQuest_DuplicateThread(t *testing.T) {
	svc := &mockQuestService{
		createFn: func(context.Context, quest.NewQuest) (*domain.Quest, error) {
			return nil, domain.ErrThreadRegistered
		},
	}

	body, _ := json.Marshal(CreateQuestRequest{GuildID: "100", ThreadID: "200", DMID: "300"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quest", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleCreateQuest(svc)(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleGetQuest_NotFound(t *testing.T) {
	svc := &mockQuestService{
		getFn: func(context.Context, string) (*domain.Quest, error) {
			return nil, domain.ErrQuestNotFound
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/quest/xxx", nil), "questID", "xxx")
	w := httptest.NewRecorder()

	HandleGetQuest(svc)(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrMsgQuestNotFoundError, resp.Error)
}

func TestHandleJoinQuest(t *testing.T) {
	svc := &mockQuestService{
		joinFn: func(_ context.Context, questID, userID string) (*domain.Quest, domain.JoinResult, error) {
			assert.Equal(t, "010926-0001", questID)
			assert.Equal(t, "500", userID)
			q := sampleQuest()
			q.Roster = append(q.Roster, userID)
			return q, domain.JoinResult{Placement: domain.PlacementRoster, Position: 2}, nil
		},
	}

	body, _ := json.Marshal(MemberRequest{UserID: "500"})
	req := withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/v1/quest/010926-0001/join", bytes.NewReader(body)),
		"questID", "010926-0001")
	w := httptest.NewRecorder()

	HandleJoinQuest(svc)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp JoinResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, domain.PlacementRoster, resp.Placement)
	assert.Equal(t, 2, resp.Position)
}

func TestHandleJoinQuest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already member", domain.ErrAlreadyMember, http.StatusConflict},
		{"quest closed", domain.ErrQuestClosed, http.StatusConflict},
		{"dm cannot join", domain.ErrDMCannotJoin, http.StatusConflict},
		{"not found", domain.ErrQuestNotFound, http.StatusNotFound},
		{"storage down", domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockQuestService{
				joinFn: func(context.Context, string, string) (*domain.Quest, domain.JoinResult, error) {
					return nil, domain.JoinResult{}, tt.err
				},
			}

			body, _ := json.Marshal(MemberRequest{UserID: "500"})
			req := withURLParam(
				httptest.NewRequest(http.MethodPost, "/api/v1/quest/x/join", bytes.NewReader(body)),
				"questID", "x")
			w := httptest.NewRecorder()

			HandleJoinQuest(svc)(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleLeaveQuest_ReportsPromotion(t *testing.T) {
	svc := &mockQuestService{
		leaveFn: func(context.Context, string, string) (*domain.Quest, domain.LeaveResult, error) {
			return sampleQuest(), domain.LeaveResult{RemovedFrom: domain.PlacementRoster, Promoted: "600"}, nil
		},
	}

	body, _ := json.Marshal(MemberRequest{UserID: "400"})
	req := withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/v1/quest/010926-0001/leave", bytes.NewReader(body)),
		"questID", "010926-0001")
	w := httptest.NewRecorder()

	HandleLeaveQuest(svc)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LeaveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "600", resp.Promoted)
}

func TestHandleUpdateQuest_Forbidden(t *testing.T) {
	svc := &mockQuestService{
		updateFn: func(context.Context, string, domain.Caller, domain.QuestPatch) (*domain.Quest, error) {
			return nil, domain.ErrForbidden
		},
	}

	cap := 3
	body, _ := json.Marshal(UpdateQuestRequest{
		CallerRequest: CallerRequest{CallerID: "999"},
		MaxPlayers:    &cap,
	})
	req := withURLParam(
		httptest.NewRequest(http.MethodPatch, "/api/v1/quest/010926-0001", bytes.NewReader(body)),
		"questID", "010926-0001")
	w := httptest.NewRecorder()

	HandleUpdateQuest(svc)(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleListQuests(t *testing.T) {
	svc := &mockQuestService{
		listFn: func(context.Context) ([]domain.Quest, error) {
			return []domain.Quest{*sampleQuest()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quests", nil)
	w := httptest.NewRecorder()

	HandleListQuests(svc)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []QuestResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.NotEmpty(t, resp[0].CanonicalTitle)
}
