package quest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/concurrency"
	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/event"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
	"github.com/meridwen/QuestBoard_Go/internal/repository"
	"github.com/meridwen/QuestBoard_Go/internal/roster"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// Service defines the interface for quest lifecycle operations
type Service interface {
	Create(ctx context.Context, req NewQuest) (*domain.Quest, error)
	Get(ctx context.Context, questID string) (*domain.Quest, error)
	GetByThread(ctx context.Context, threadID string) (*domain.Quest, error)
	GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error)
	List(ctx context.Context) ([]domain.Quest, error)
	Join(ctx context.Context, questID, userID string) (*domain.Quest, domain.JoinResult, error)
	Leave(ctx context.Context, questID, userID string) (*domain.Quest, domain.LeaveResult, error)
	Kick(ctx context.Context, questID string, caller domain.Caller, targetID string) (*domain.Quest, domain.LeaveResult, error)
	Update(ctx context.Context, questID string, caller domain.Caller, patch domain.QuestPatch) (*domain.Quest, error)
	Complete(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error)
	Cancel(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error)
	Delete(ctx context.Context, questID string, caller domain.Caller) error
	SetEmbedMessage(ctx context.Context, questID, channelID, messageID string) error
	GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error
	Shutdown(ctx context.Context) error
}

// NewQuest is the registration request for a forum thread. RawTitle is the
// thread title as typed; Body is the starter message, scanned for a game
// system when the title does not carry one.
type NewQuest struct {
	GuildID    string
	ThreadID   string
	DMID       string
	RawTitle   string
	Body       string
	MaxPlayers int
}

type service struct {
	repo      repository.QuestRepository
	publisher *event.ResilientPublisher
	locks     *concurrency.LockManager
	detector  *title.Detector
	policy    roster.Policy
	now       func() time.Time
}

// NewService creates a new quest lifecycle service
func NewService(repo repository.QuestRepository, publisher *event.ResilientPublisher, detector *title.Detector) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		locks:     concurrency.NewLockManager(),
		detector:  detector,
		policy:    roster.DefaultPolicy,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, req NewQuest) (*domain.Quest, error) {
	log := logger.FromContext(ctx)

	if req.ThreadID == "" || req.DMID == "" {
		return nil, fmt.Errorf("%w: thread_id and dm_id are required", domain.ErrInvalidInput)
	}
	if req.MaxPlayers < 0 {
		return nil, fmt.Errorf("%w: max_players must not be negative", domain.ErrInvalidInput)
	}

	if existing, err := s.repo.GetByThread(ctx, req.ThreadID); err == nil {
		return nil, fmt.Errorf("%w: thread %s is quest %s", domain.ErrThreadRegistered, req.ThreadID, existing.QuestID)
	}

	parsed := title.Parse(req.RawTitle)

	systemUnresolved := false
	if parsed.System == "" {
		if detected, ok := s.detector.Detect(req.Body); ok {
			parsed.System = detected
		} else {
			parsed.System = domain.SystemUnknown
			systemUnresolved = true
		}
	}
	if parsed.Status == "" {
		parsed.Status = domain.StatusRecruiting
	}

	now := s.now().UTC()
	id, err := s.repo.GenerateID(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quest id: %w", err)
	}

	q := &domain.Quest{
		QuestID:    id,
		GuildID:    req.GuildID,
		ThreadID:   req.ThreadID,
		DMID:       req.DMID,
		Title:      parsed.Title,
		Status:     parsed.Status,
		Mode:       parsed.Mode,
		Type:       parsed.Type,
		System:     parsed.System,
		MaxPlayers: req.MaxPlayers,
		Roster:     []string{},
		Waitlist:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	roster.RecomputeStatus(q)

	if err := s.repo.Put(ctx, q); err != nil {
		return nil, err
	}

	log.Info("quest registered",
		"quest_id", q.QuestID,
		"thread_id", q.ThreadID,
		"dm_id", q.DMID,
		"system", q.System)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.QuestCreated,
		Payload: event.QuestStatePayloadV1{QuestID: q.QuestID, Status: string(q.Status)},
	})
	s.publishTitleChanged(ctx, q)
	if systemUnresolved {
		s.publisher.PublishWithRetry(ctx, event.NewSystemUnresolvedEvent(q.QuestID, q.DMID, q.Title))
	}

	return q, nil
}

func (s *service) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	return s.repo.Get(ctx, questID)
}

func (s *service) GetByThread(ctx context.Context, threadID string) (*domain.Quest, error) {
	return s.repo.GetByThread(ctx, threadID)
}

func (s *service) GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error) {
	return s.repo.GetByEmbedMessage(ctx, messageID)
}

func (s *service) List(ctx context.Context) ([]domain.Quest, error) {
	return s.repo.List(ctx)
}

func (s *service) Join(ctx context.Context, questID, userID string) (*domain.Quest, domain.JoinResult, error) {
	log := logger.FromContext(ctx)

	var (
		q   *domain.Quest
		res domain.JoinResult
	)
	err := s.locks.WithLock(questID, func() error {
		var err error
		q, err = s.repo.Get(ctx, questID)
		if err != nil {
			return err
		}
		res, err = roster.Join(q, userID, s.policy)
		if err != nil {
			return err
		}
		q.UpdatedAt = s.now().UTC()
		return s.repo.Put(ctx, q)
	})
	if err != nil {
		return nil, domain.JoinResult{}, err
	}

	log.Info("user joined quest",
		"quest_id", questID,
		"user_id", userID,
		"placement", res.Placement)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.RosterJoined,
		Payload: event.RosterChangedPayloadV1{QuestID: questID, UserID: userID, Placement: string(res.Placement)},
	})
	s.publishTitleChanged(ctx, q)

	return q, res, nil
}

func (s *service) Leave(ctx context.Context, questID, userID string) (*domain.Quest, domain.LeaveResult, error) {
	q, res, err := s.removeMember(ctx, questID, userID)
	if err != nil {
		return nil, domain.LeaveResult{}, err
	}

	logger.FromContext(ctx).Info("user left quest",
		"quest_id", questID,
		"user_id", userID,
		"removed_from", res.RemovedFrom,
		"promoted", res.Promoted)

	return q, res, nil
}

func (s *service) Kick(ctx context.Context, questID string, caller domain.Caller, targetID string) (*domain.Quest, domain.LeaveResult, error) {
	q, err := s.repo.Get(ctx, questID)
	if err != nil {
		return nil, domain.LeaveResult{}, err
	}
	if !caller.CanManage(q) {
		return nil, domain.LeaveResult{}, fmt.Errorf("%w: only the quest DM or an admin may kick", domain.ErrForbidden)
	}

	q, res, err := s.removeMember(ctx, questID, targetID)
	if err != nil {
		return nil, domain.LeaveResult{}, err
	}

	logger.FromContext(ctx).Info("user kicked from quest",
		"quest_id", questID,
		"user_id", targetID,
		"caller_id", caller.UserID,
		"promoted", res.Promoted)

	return q, res, nil
}

// removeMember is the shared leave/kick path: remove under the quest lock,
// persist, then emit roster events.
func (s *service) removeMember(ctx context.Context, questID, userID string) (*domain.Quest, domain.LeaveResult, error) {
	var (
		q   *domain.Quest
		res domain.LeaveResult
	)
	err := s.locks.WithLock(questID, func() error {
		var err error
		q, err = s.repo.Get(ctx, questID)
		if err != nil {
			return err
		}
		res, err = roster.Leave(q, userID)
		if err != nil {
			return err
		}
		q.UpdatedAt = s.now().UTC()
		return s.repo.Put(ctx, q)
	})
	if err != nil {
		return nil, domain.LeaveResult{}, err
	}

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.RosterLeft,
		Payload: event.RosterChangedPayloadV1{QuestID: questID, UserID: userID, Placement: string(res.RemovedFrom)},
	})
	if res.Promoted != "" {
		s.publisher.PublishWithRetry(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.RosterPromoted,
			Payload: event.RosterChangedPayloadV1{QuestID: questID, UserID: res.Promoted, Placement: string(domain.PlacementRoster), Promoted: true},
		})
	}
	s.publishTitleChanged(ctx, q)

	return q, res, nil
}

func (s *service) Update(ctx context.Context, questID string, caller domain.Caller, patch domain.QuestPatch) (*domain.Quest, error) {
	log := logger.FromContext(ctx)

	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var q *domain.Quest
	err := s.locks.WithLock(questID, func() error {
		var err error
		q, err = s.repo.Get(ctx, questID)
		if err != nil {
			return err
		}
		if !caller.CanManage(q) {
			return fmt.Errorf("%w: only the quest DM or an admin may update", domain.ErrForbidden)
		}
		if q.Status.Terminal() {
			return fmt.Errorf("%w: %s is %s", domain.ErrQuestClosed, q.QuestID, q.Status)
		}

		applyPatch(q, patch)
		roster.RecomputeStatus(q)
		q.UpdatedAt = s.now().UTC()
		return s.repo.Put(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	log.Info("quest updated", "quest_id", questID, "caller_id", caller.UserID, "status", q.Status)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.QuestUpdated,
		Payload: event.QuestStatePayloadV1{QuestID: q.QuestID, Status: string(q.Status)},
	})
	s.publishTitleChanged(ctx, q)

	return q, nil
}

func (s *service) Complete(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error) {
	return s.close(ctx, questID, caller, domain.StatusCompleted, event.QuestCompleted)
}

func (s *service) Cancel(ctx context.Context, questID string, caller domain.Caller) (*domain.Quest, error) {
	return s.close(ctx, questID, caller, domain.StatusCancelled, event.QuestCancelled)
}

func (s *service) close(ctx context.Context, questID string, caller domain.Caller, status domain.Status, eventType event.Type) (*domain.Quest, error) {
	var q *domain.Quest
	err := s.locks.WithLock(questID, func() error {
		var err error
		q, err = s.repo.Get(ctx, questID)
		if err != nil {
			return err
		}
		if !caller.CanManage(q) {
			return fmt.Errorf("%w: only the quest DM or an admin may close", domain.ErrForbidden)
		}
		if q.Status.Terminal() {
			return fmt.Errorf("%w: %s is already %s", domain.ErrQuestClosed, q.QuestID, q.Status)
		}

		q.Status = status
		q.UpdatedAt = s.now().UTC()
		return s.repo.Put(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("quest closed",
		"quest_id", questID,
		"caller_id", caller.UserID,
		"status", status)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    eventType,
		Payload: event.QuestStatePayloadV1{QuestID: q.QuestID, Status: string(q.Status)},
	})
	s.publishTitleChanged(ctx, q)

	return q, nil
}

func (s *service) Delete(ctx context.Context, questID string, caller domain.Caller) error {
	q, err := s.repo.Get(ctx, questID)
	if err != nil {
		return err
	}
	if !caller.CanManage(q) {
		return fmt.Errorf("%w: only the quest DM or an admin may delete", domain.ErrForbidden)
	}

	err = s.locks.WithLock(questID, func() error {
		return s.repo.Delete(ctx, questID)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("quest deleted", "quest_id", questID, "caller_id", caller.UserID)
	return nil
}

func (s *service) SetEmbedMessage(ctx context.Context, questID, channelID, messageID string) error {
	return s.locks.WithLock(questID, func() error {
		q, err := s.repo.Get(ctx, questID)
		if err != nil {
			return err
		}
		q.EmbedChannelID = channelID
		q.EmbedMessageID = messageID
		q.UpdatedAt = s.now().UTC()
		return s.repo.Put(ctx, q)
	})
}

func (s *service) GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	return s.repo.GetGuildConfig(ctx, guildID)
}

func (s *service) PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error {
	if cfg.GuildID == "" {
		return fmt.Errorf("%w: guild_id is required", domain.ErrInvalidInput)
	}
	if err := s.repo.PutGuildConfig(ctx, cfg); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("guild config updated",
		"guild_id", cfg.GuildID,
		"forum_channel_id", cfg.ForumChannelID,
		"embed_channel_id", cfg.EmbedChannelID)
	return nil
}

// Shutdown drains pending event retries.
func (s *service) Shutdown(ctx context.Context) error {
	return s.publisher.Flush(ctx)
}

func (s *service) publishTitleChanged(ctx context.Context, q *domain.Quest) {
	s.publisher.PublishWithRetry(ctx, event.NewTitleChangedEvent(q.QuestID, q.ThreadID, title.RenderQuest(q)))
}

func validatePatch(patch domain.QuestPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
	}
	if patch.Mode != nil && !patch.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, *patch.Mode)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidInput, *patch.Type)
	}
	if patch.MaxPlayers != nil && *patch.MaxPlayers < 0 {
		return fmt.Errorf("%w: max_players must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func applyPatch(q *domain.Quest, patch domain.QuestPatch) {
	if patch.Status != nil {
		q.Status = *patch.Status
	}
	if patch.Mode != nil {
		q.Mode = *patch.Mode
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.System != nil {
		q.System = strings.ToUpper(strings.TrimSpace(*patch.System))
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			t = domain.UntitledQuest
		}
		q.Title = t
	}
	if patch.MaxPlayers != nil {
		q.MaxPlayers = *patch.MaxPlayers
	}
}
