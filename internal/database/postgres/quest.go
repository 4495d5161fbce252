// Package postgres implements the quest repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/repository"
)

const questColumns = `quest_id, guild_id, thread_id, dm_id, title, status, mode, quest_type,
		system, max_players, roster, waitlist, embed_channel_id, embed_message_id,
		created_at, updated_at`

// QuestRepository implements repository.QuestRepository for PostgreSQL
type QuestRepository struct {
	db *pgxpool.Pool
}

// NewQuestRepository creates a new QuestRepository
func NewQuestRepository(db *pgxpool.Pool) repository.QuestRepository {
	return &QuestRepository{db: db}
}

// Get returns the quest with the given id
func (r *QuestRepository) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests WHERE quest_id = $1`, questColumns)
	return r.getOne(ctx, query, questID)
}

// GetByThread returns the quest backed by the given forum thread
func (r *QuestRepository) GetByThread(ctx context.Context, threadID string) (*domain.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests WHERE thread_id = $1`, questColumns)
	return r.getOne(ctx, query, threadID)
}

// GetByEmbedMessage returns the quest whose recruit embed is the given message
func (r *QuestRepository) GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests WHERE embed_message_id = $1`, questColumns)
	return r.getOne(ctx, query, messageID)
}

func (r *QuestRepository) getOne(ctx context.Context, query string, arg any) (*domain.Quest, error) {
	row := r.db.QueryRow(ctx, query, arg)
	q, err := scanQuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v", domain.ErrQuestNotFound, arg)
		}
		return nil, fmt.Errorf("failed to query quest: %w", err)
	}
	return q, nil
}

// List returns all quests ordered by id
func (r *QuestRepository) List(ctx context.Context) ([]domain.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests ORDER BY quest_id`, questColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

// Put upserts the full quest record by id
func (r *QuestRepository) Put(ctx context.Context, q *domain.Quest) error {
	query := `
		INSERT INTO quests (quest_id, guild_id, thread_id, dm_id, title, status, mode,
			quest_type, system, max_players, roster, waitlist,
			embed_channel_id, embed_message_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (quest_id) DO UPDATE SET
			guild_id = EXCLUDED.guild_id,
			thread_id = EXCLUDED.thread_id,
			dm_id = EXCLUDED.dm_id,
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			mode = EXCLUDED.mode,
			quest_type = EXCLUDED.quest_type,
			system = EXCLUDED.system,
			max_players = EXCLUDED.max_players,
			roster = EXCLUDED.roster,
			waitlist = EXCLUDED.waitlist,
			embed_channel_id = EXCLUDED.embed_channel_id,
			embed_message_id = EXCLUDED.embed_message_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		q.QuestID, q.GuildID, q.ThreadID, q.DMID, q.Title,
		string(q.Status), nullable(string(q.Mode)), nullable(string(q.Type)), nullable(q.System),
		q.MaxPlayers, q.Roster, q.Waitlist,
		nullable(q.EmbedChannelID), nullable(q.EmbedMessageID),
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: put quest: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// GenerateID allocates the next ddmmyy-xxxx id for the creation date using an
// atomic per-day counter upsert
func (r *QuestRepository) GenerateID(ctx context.Context, at time.Time) (string, error) {
	query := `
		INSERT INTO quest_id_counters (date_key, counter)
		VALUES ($1, 1)
		ON CONFLICT (date_key) DO UPDATE SET counter = quest_id_counters.counter + 1
		RETURNING counter
	`

	dateKey := at.UTC().Format("020106")
	var counter int
	if err := r.db.QueryRow(ctx, query, dateKey).Scan(&counter); err != nil {
		return "", fmt.Errorf("%w: generate id: %v", domain.ErrStorageUnavailable, err)
	}
	return fmt.Sprintf("%s-%04d", dateKey, counter), nil
}

// Delete removes a quest record. Used by the reset tooling only
func (r *QuestRepository) Delete(ctx context.Context, questID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quests WHERE quest_id = $1`, questID)
	if err != nil {
		return fmt.Errorf("%w: delete quest: %v", domain.ErrStorageUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}
	return nil
}

// PurgeGuild removes every quest belonging to a guild and returns the count
func (r *QuestRepository) PurgeGuild(ctx context.Context, guildID string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM quests WHERE guild_id = $1`, guildID)
	if err != nil {
		return 0, fmt.Errorf("%w: purge guild: %v", domain.ErrStorageUnavailable, err)
	}
	return int(tag.RowsAffected()), nil
}

// GetGuildConfig returns the board configuration for a guild, or an empty
// config when none has been saved yet
func (r *QuestRepository) GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	query := `
		SELECT guild_id, forum_channel_id, embed_channel_id, ping_role_online,
			ping_role_offline, ping_role_oneshot, ping_role_campaign
		FROM guild_configs
		WHERE guild_id = $1
	`

	var cfg domain.GuildConfig
	var forum, embed, online, offline, oneshot, campaign *string
	err := r.db.QueryRow(ctx, query, guildID).Scan(
		&cfg.GuildID, &forum, &embed, &online, &offline, &oneshot, &campaign,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.GuildConfig{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guild config: %w", err)
	}

	cfg.ForumChannelID = deref(forum)
	cfg.EmbedChannelID = deref(embed)
	cfg.PingRoleOnline = deref(online)
	cfg.PingRoleOffline = deref(offline)
	cfg.PingRoleOneshot = deref(oneshot)
	cfg.PingRoleCampaign = deref(campaign)
	return &cfg, nil
}

// PutGuildConfig saves the board configuration for a guild
func (r *QuestRepository) PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (guild_id, forum_channel_id, embed_channel_id,
			ping_role_online, ping_role_offline, ping_role_oneshot, ping_role_campaign)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guild_id) DO UPDATE SET
			forum_channel_id = EXCLUDED.forum_channel_id,
			embed_channel_id = EXCLUDED.embed_channel_id,
			ping_role_online = EXCLUDED.ping_role_online,
			ping_role_offline = EXCLUDED.ping_role_offline,
			ping_role_oneshot = EXCLUDED.ping_role_oneshot,
			ping_role_campaign = EXCLUDED.ping_role_campaign
	`

	_, err := r.db.Exec(ctx, query,
		cfg.GuildID, nullable(cfg.ForumChannelID), nullable(cfg.EmbedChannelID),
		nullable(cfg.PingRoleOnline), nullable(cfg.PingRoleOffline),
		nullable(cfg.PingRoleOneshot), nullable(cfg.PingRoleCampaign),
	)
	if err != nil {
		return fmt.Errorf("%w: put guild config: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuest(row rowScanner) (*domain.Quest, error) {
	var q domain.Quest
	var mode, questType, system, embedCh, embedMsg *string

	err := row.Scan(
		&q.QuestID, &q.GuildID, &q.ThreadID, &q.DMID, &q.Title,
		&q.Status, &mode, &questType, &system,
		&q.MaxPlayers, &q.Roster, &q.Waitlist,
		&embedCh, &embedMsg,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Mode = domain.Mode(deref(mode))
	q.Type = domain.QuestType(deref(questType))
	q.System = deref(system)
	q.EmbedChannelID = deref(embedCh)
	q.EmbedMessageID = deref(embedMsg)
	if q.Roster == nil {
		q.Roster = []string{}
	}
	if q.Waitlist == nil {
		q.Waitlist = []string{}
	}
	return &q, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
