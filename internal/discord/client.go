package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
)

// APIClient handles communication with the QuestBoard Core API
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIKey: apiKey,
	}
}

// APIError carries the status and user-facing message from a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// doRequest performs an HTTP request with retry on server errors.
func (c *APIClient) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s%s", c.BaseURL, path)

	maxRetries := 3
	retryDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := retryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			time.Sleep(delay)
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
		}

		req, err := http.NewRequest(method, reqURL, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		// Success or non-retryable client error
		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// call runs a request and decodes the response into out (unless out is nil).
// Non-2xx responses become an *APIError with the server's message.
func (c *APIClient) call(method, path string, body, out interface{}) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr handler.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Error == "" {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("API returned status %d", resp.StatusCode)}
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateQuest registers a forum thread as a quest.
func (c *APIClient) CreateQuest(req handler.CreateQuestRequest) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	if err := c.call(http.MethodPost, "/api/v1/quest", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuest fetches a quest by id.
func (c *APIClient) GetQuest(questID string) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	if err := c.call(http.MethodGet, "/api/v1/quest/"+url.PathEscape(questID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuestByThread fetches the quest registered for a thread.
func (c *APIClient) GetQuestByThread(threadID string) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	if err := c.call(http.MethodGet, "/api/v1/quest?thread_id="+url.QueryEscape(threadID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuestByEmbedMessage fetches the quest whose recruit embed is the message.
func (c *APIClient) GetQuestByEmbedMessage(messageID string) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	if err := c.call(http.MethodGet, "/api/v1/quest?embed_message_id="+url.QueryEscape(messageID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuests fetches every quest on the board.
func (c *APIClient) ListQuests() ([]handler.QuestResponse, error) {
	var out []handler.QuestResponse
	if err := c.call(http.MethodGet, "/api/v1/quests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JoinQuest adds a user to the quest roster or waitlist.
func (c *APIClient) JoinQuest(questID, userID string) (*handler.JoinResponse, error) {
	var out handler.JoinResponse
	err := c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/join", handler.MemberRequest{UserID: userID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaveQuest removes a user from the quest.
func (c *APIClient) LeaveQuest(questID, userID string) (*handler.LeaveResponse, error) {
	var out handler.LeaveResponse
	err := c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/leave", handler.MemberRequest{UserID: userID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// KickFromQuest removes a target on the caller's authority.
func (c *APIClient) KickFromQuest(questID, callerID string, admin bool, targetID string) (*handler.LeaveResponse, error) {
	req := handler.KickRequest{
		CallerRequest: handler.CallerRequest{CallerID: callerID, Admin: admin},
		TargetID:      targetID,
	}
	var out handler.LeaveResponse
	if err := c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/kick", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuest applies a field-subset update.
func (c *APIClient) UpdateQuest(questID string, req handler.UpdateQuestRequest) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	if err := c.call(http.MethodPatch, "/api/v1/quest/"+url.PathEscape(questID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteQuest marks a quest completed.
func (c *APIClient) CompleteQuest(questID, callerID string, admin bool) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	err := c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/complete",
		handler.CallerRequest{CallerID: callerID, Admin: admin}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelQuest marks a quest cancelled.
func (c *APIClient) CancelQuest(questID, callerID string, admin bool) (*handler.QuestResponse, error) {
	var out handler.QuestResponse
	err := c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/cancel",
		handler.CallerRequest{CallerID: callerID, Admin: admin}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuest removes a quest record entirely.
func (c *APIClient) DeleteQuest(questID, callerID string, admin bool) error {
	return c.call(http.MethodDelete, "/api/v1/quest/"+url.PathEscape(questID),
		handler.CallerRequest{CallerID: callerID, Admin: admin}, nil)
}

// SetEmbedMessage records where the recruit embed was posted.
func (c *APIClient) SetEmbedMessage(questID, channelID, messageID string) error {
	return c.call(http.MethodPost, "/api/v1/quest/"+url.PathEscape(questID)+"/embed",
		handler.SetEmbedRequest{ChannelID: channelID, MessageID: messageID}, nil)
}

// GetStats fetches board statistics, optionally filtered.
func (c *APIClient) GetStats(field, value string) (*domain.BoardStats, error) {
	path := "/api/v1/stats"
	if field != "" {
		path += "?field=" + url.QueryEscape(field) + "&value=" + url.QueryEscape(value)
	}
	var out domain.BoardStats
	if err := c.call(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGuildConfig fetches the board settings for a guild.
func (c *APIClient) GetGuildConfig(guildID string) (*domain.GuildConfig, error) {
	var out domain.GuildConfig
	if err := c.call(http.MethodGet, "/api/v1/guild/"+url.PathEscape(guildID)+"/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutGuildConfig stores the board settings for a guild.
func (c *APIClient) PutGuildConfig(guildID string, req handler.GuildConfigRequest) (*domain.GuildConfig, error) {
	var out domain.GuildConfig
	if err := c.call(http.MethodPut, "/api/v1/guild/"+url.PathEscape(guildID)+"/config", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
