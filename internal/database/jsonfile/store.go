// Package jsonfile implements the quest repository as an in-memory index
// with write-through snapshots to a single JSON file. Every successful write
// rewrites the full snapshot atomically (temp file + rename); a failed write
// leaves the in-memory state unchanged and surfaces ErrStorageUnavailable.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

type snapshot struct {
	Quests       map[string]*domain.Quest       `json:"quests"`
	DailyCounter map[string]int                 `json:"daily_counter"`
	GuildConfigs map[string]*domain.GuildConfig `json:"guild_configs"`
}

// Store is a file-backed quest repository.
type Store struct {
	path string

	mu   sync.Mutex
	data snapshot
}

// Open loads the snapshot at path, creating an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: snapshot{
			Quests:       make(map[string]*domain.Quest),
			DailyCounter: make(map[string]int),
			GuildConfigs: make(map[string]*domain.GuildConfig),
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if s.data.Quests == nil {
		s.data.Quests = make(map[string]*domain.Quest)
	}
	if s.data.DailyCounter == nil {
		s.data.DailyCounter = make(map[string]int)
	}
	if s.data.GuildConfigs == nil {
		s.data.GuildConfigs = make(map[string]*domain.GuildConfig)
	}
	return s, nil
}

// persistLocked writes the full snapshot. Callers hold s.mu and must roll
// back their in-memory change when this fails.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", domain.ErrStorageUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the quest with the given id.
func (s *Store) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.data.Quests[questID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}
	return q.Clone(), nil
}

// GetByThread returns the quest backed by the given forum thread.
func (s *Store) GetByThread(ctx context.Context, threadID string) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.data.Quests {
		if q.ThreadID == threadID {
			return q.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: thread %s", domain.ErrQuestNotFound, threadID)
}

// GetByEmbedMessage returns the quest whose recruit embed is the given message.
func (s *Store) GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.data.Quests {
		if q.EmbedMessageID == messageID {
			return q.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: embed message %s", domain.ErrQuestNotFound, messageID)
}

// List returns all quests ordered by id.
func (s *Store) List(ctx context.Context) ([]domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests := make([]domain.Quest, 0, len(s.data.Quests))
	for _, q := range s.data.Quests {
		quests = append(quests, *q.Clone())
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].QuestID < quests[j].QuestID })
	return quests, nil
}

// Put upserts the full record and rewrites the snapshot.
func (s *Store) Put(ctx context.Context, q *domain.Quest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data.Quests[q.QuestID]
	s.data.Quests[q.QuestID] = q.Clone()
	if err := s.persistLocked(); err != nil {
		if existed {
			s.data.Quests[q.QuestID] = prev
		} else {
			delete(s.data.Quests, q.QuestID)
		}
		return err
	}
	return nil
}

// GenerateID allocates the next id for the creation date, ddmmyy-xxxx with a
// per-day counter. The counter advance is persisted before the id is handed
// out so a crash cannot reissue it.
func (s *Store) GenerateID(ctx context.Context, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dateKey := at.UTC().Format("020106")
	next := s.data.DailyCounter[dateKey]

	var id string
	for {
		next++
		id = fmt.Sprintf("%s-%04d", dateKey, next)
		if _, taken := s.data.Quests[id]; !taken {
			break
		}
	}

	prev := s.data.DailyCounter[dateKey]
	s.data.DailyCounter[dateKey] = next
	if err := s.persistLocked(); err != nil {
		s.data.DailyCounter[dateKey] = prev
		return "", err
	}
	return id, nil
}

// Delete removes a quest record. Used by the reset tooling only.
func (s *Store) Delete(ctx context.Context, questID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.data.Quests[questID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}
	delete(s.data.Quests, questID)
	if err := s.persistLocked(); err != nil {
		s.data.Quests[questID] = prev
		return err
	}
	return nil
}

// PurgeGuild removes every quest belonging to a guild and returns the count.
func (s *Store) PurgeGuild(ctx context.Context, guildID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]*domain.Quest)
	for id, q := range s.data.Quests {
		if q.GuildID == guildID {
			removed[id] = q
			delete(s.data.Quests, id)
		}
	}
	if len(removed) == 0 {
		return 0, nil
	}
	if err := s.persistLocked(); err != nil {
		for id, q := range removed {
			s.data.Quests[id] = q
		}
		return 0, err
	}
	return len(removed), nil
}

// GetGuildConfig returns the board configuration for a guild, or an empty
// config when none has been saved yet.
func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.data.GuildConfigs[guildID]
	if !ok {
		return &domain.GuildConfig{GuildID: guildID}, nil
	}
	c := *cfg
	return &c, nil
}

// Ping verifies the snapshot directory is still writable.
func (s *Store) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// PutGuildConfig saves the board configuration for a guild.
func (s *Store) PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data.GuildConfigs[cfg.GuildID]
	c := *cfg
	s.data.GuildConfigs[cfg.GuildID] = &c
	if err := s.persistLocked(); err != nil {
		if existed {
			s.data.GuildConfigs[cfg.GuildID] = prev
		} else {
			delete(s.data.GuildConfigs, cfg.GuildID)
		}
		return err
	}
	return nil
}
