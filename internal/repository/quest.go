// Package repository defines the persistence contracts the quest services
// depend on. Concrete implementations live under internal/database.
package repository

import (
	"context"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

// QuestRepository is durable keyed storage for quest records. Put overwrites
// the entire record; writes are visible to every subsequent read. The store
// does not lock per key - callers must serialize read-modify-write cycles on
// a single quest (see internal/concurrency).
type QuestRepository interface {
	// Lookups. Get and the GetBy* methods return domain.ErrQuestNotFound
	// for unknown identifiers.
	Get(ctx context.Context, questID string) (*domain.Quest, error)
	GetByThread(ctx context.Context, threadID string) (*domain.Quest, error)
	GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error)
	List(ctx context.Context) ([]domain.Quest, error)

	// Put upserts the full record by quest id.
	Put(ctx context.Context, q *domain.Quest) error

	// GenerateID returns a new unique id in ddmmyy-xxxx form for the given
	// creation time, never colliding with an existing record.
	GenerateID(ctx context.Context, at time.Time) (string, error)

	// Delete and PurgeGuild exist for the data-reset tooling only; the
	// lifecycle service never deletes a quest, it marks it terminal.
	Delete(ctx context.Context, questID string) error
	PurgeGuild(ctx context.Context, guildID string) (int, error)

	// Guild board configuration written by /setup.
	GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error
}
