package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

func testQuest(id string) *domain.Quest {
	return &domain.Quest{
		QuestID:    id,
		GuildID:    "guild-1",
		ThreadID:   "thread-" + id,
		DMID:       "dm-1",
		Title:      "Curse of Strahd",
		Status:     domain.StatusRecruiting,
		MaxPlayers: 4,
		Roster:     []string{"alice"},
		CreatedAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quests.json")

	s, err := Open(path)
	require.NoError(t, err)

	q := testQuest("010126-0001")
	require.NoError(t, s.Put(ctx, q))

	got, err := s.Get(ctx, "010126-0001")
	require.NoError(t, err)
	assert.Equal(t, q, got)

	byThread, err := s.GetByThread(ctx, "thread-010126-0001")
	require.NoError(t, err)
	assert.Equal(t, q.QuestID, byThread.QuestID)
}

func TestStore_GetUnknown(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	_, err = s.GetByThread(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	_, err = s.GetByEmbedMessage(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quests.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testQuest("010126-0001")))
	require.NoError(t, s.PutGuildConfig(ctx, &domain.GuildConfig{
		GuildID:        "guild-1",
		ForumChannelID: "forum-1",
	}))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "010126-0001")
	require.NoError(t, err)
	assert.Equal(t, "Curse of Strahd", got.Title)

	cfg, err := reopened.GetGuildConfig(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "forum-1", cfg.ForumChannelID)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, testQuest("010126-0001")))

	got, err := s.Get(ctx, "010126-0001")
	require.NoError(t, err)
	got.Roster[0] = "mallory"

	again, err := s.Get(ctx, "010126-0001")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, again.Roster)
}

func TestStore_GenerateID(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	day := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	id1, err := s.GenerateID(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "020126-0001", id1)

	id2, err := s.GenerateID(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "020126-0002", id2)

	// The counter is per day.
	nextDay, err := s.GenerateID(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "030126-0001", nextDay)
}

func TestStore_GenerateID_SkipsTakenIDs(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	// Occupy the first slot without touching the counter.
	require.NoError(t, s.Put(ctx, testQuest("020126-0001")))

	day := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	id, err := s.GenerateID(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "020126-0002", id)
}

func TestStore_List_SortedByID(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, testQuest("010126-0002")))
	require.NoError(t, s.Put(ctx, testQuest("010126-0001")))

	quests, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 2)
	assert.Equal(t, "010126-0001", quests[0].QuestID)
	assert.Equal(t, "010126-0002", quests[1].QuestID)
}

func TestStore_DeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, testQuest("010126-0001")))
	require.NoError(t, s.Put(ctx, testQuest("010126-0002")))

	other := testQuest("010126-0003")
	other.GuildID = "guild-2"
	require.NoError(t, s.Put(ctx, other))

	require.NoError(t, s.Delete(ctx, "010126-0001"))
	assert.ErrorIs(t, s.Delete(ctx, "010126-0001"), domain.ErrQuestNotFound)

	n, err := s.PurgeGuild(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	quests, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "guild-2", quests[0].GuildID)
}

func TestStore_RollsBackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "quests.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testQuest("010126-0001")))

	// Occupy the temp file slot with a directory so the next write fails.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	err = s.Put(ctx, testQuest("010126-0002"))
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)

	// The failed write must not leak into the index.
	_, err = s.Get(ctx, "010126-0002")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)
}

func TestStore_Ping(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_GuildConfig_Unset(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "quests.json"))
	require.NoError(t, err)

	cfg, err := s.GetGuildConfig(context.Background(), "guild-9")
	require.NoError(t, err)
	assert.Equal(t, "guild-9", cfg.GuildID)
	assert.Empty(t, cfg.ForumChannelID)
}
