package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/meridwen/QuestBoard_Go/internal/ratelimit"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// MockRoundTripper intercepts the session's outbound Discord API calls.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// TestContext wires a Bot against a mock backend API and a Discord session
// whose HTTP transport is intercepted.
type TestContext struct {
	Server       *httptest.Server
	Mux          *http.ServeMux
	Bot          *Bot
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)

	session, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("Failed to create mock session: %v", err)
	}

	detector, err := title.NewDetector(title.DefaultSystems())
	if err != nil {
		t.Fatalf("Failed to build detector: %v", err)
	}

	ctx := &TestContext{
		Server:  server,
		Mux:     mux,
		Session: session,
		Bot: &Bot{
			Session:  session,
			Client:   NewAPIClient(server.URL, "test-api-key"),
			AppID:    "test-app",
			Registry: NewCommandRegistry(),
			Limiter:  ratelimit.NewApplicationLimiter(),
			Systems:  detector,
		},
	}

	ctx.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString("{}")),
				Header:     make(http.Header),
			}, nil
		},
	}
	session.Client = &http.Client{Transport: ctx.DiscordMocks}

	t.Cleanup(func() {
		server.Close()
	})

	return ctx
}

// CaptureResponses swaps the Discord transport for one that records every
// interaction callback body. Returns the slice the captures land in.
func (ctx *TestContext) CaptureResponses() *[]discordgo.InteractionResponse {
	captured := &[]discordgo.InteractionResponse{}
	ctx.DiscordMocks.RoundTripFunc = func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodPost && req.Body != nil {
			var resp discordgo.InteractionResponse
			if err := json.NewDecoder(req.Body).Decode(&resp); err == nil {
				*captured = append(*captured, resp)
			}
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString("{}")),
			Header:     make(http.Header),
		}, nil
	}
	return captured
}

// jsonOK is a stock empty-object Discord API response.
func jsonOK() (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
	}, nil
}

// WriteJSON responds with the encoded payload, for mock backend handlers.
func WriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// readJSONBody decodes a mock backend request body.
func readJSONBody(t *testing.T, r *http.Request, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode request body: %v", err)
	}
}
