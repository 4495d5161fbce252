package discord

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

func TestAPIClient_SendsAPIKey(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Mux.HandleFunc("/api/v1/quest/q1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("X-API-Key"))
		WriteJSON(w, boardQuest())
	})

	q, err := ctx.Bot.Client.GetQuest("q1")
	require.NoError(t, err)
	assert.Equal(t, "Curse of Strahd", q.Title)
}

func TestAPIClient_DecodesErrorResponse(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Mux.HandleFunc("/api/v1/quest/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		WriteJSON(w, handler.ErrorResponse{Error: "Quest not found"})
	})

	_, err := ctx.Bot.Client.GetQuest("missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Quest not found", apiErr.Message)
}

func TestAPIClient_RetriesServerErrors(t *testing.T) {
	ctx := SetupTestContext(t)

	var calls int32
	ctx.Mux.HandleFunc("/api/v1/quests", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		WriteJSON(w, []handler.QuestResponse{*boardQuest()})
	})

	quests, err := ctx.Bot.Client.ListQuests()
	require.NoError(t, err)
	assert.Len(t, quests, 1)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestAPIClient_DoesNotRetryClientErrors(t *testing.T) {
	ctx := SetupTestContext(t)

	var calls int32
	ctx.Mux.HandleFunc("/api/v1/quest/q1/join", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusConflict)
		WriteJSON(w, handler.ErrorResponse{Error: "You are already on this quest"})
	})

	_, err := ctx.Bot.Client.JoinQuest("q1", "401")
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
