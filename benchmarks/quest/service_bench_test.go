package quest_bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/event"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

// --- Stubs (Zero-overhead mocks for benchmarking) ---

type StubRepository struct{}

func (s *StubRepository) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	// Return a fresh populated record so Join exercises the roster scan.
	roster := make([]string, 5)
	for i := range roster {
		roster[i] = fmt.Sprintf("member-%d", i)
	}
	waitlist := make([]string, 20)
	for i := range waitlist {
		waitlist[i] = fmt.Sprintf("waiting-%d", i)
	}
	return &domain.Quest{
		QuestID:    questID,
		GuildID:    "guild-1",
		ThreadID:   "thread-1",
		DMID:       "dm-1",
		Title:      "Benchmark Quest",
		Status:     domain.StatusRecruiting,
		MaxPlayers: 5,
		Roster:     roster,
		Waitlist:   waitlist,
	}, nil
}

func (s *StubRepository) GetByThread(ctx context.Context, threadID string) (*domain.Quest, error) {
	return nil, domain.ErrQuestNotFound
}

func (s *StubRepository) GetByEmbedMessage(ctx context.Context, messageID string) (*domain.Quest, error) {
	return nil, domain.ErrQuestNotFound
}

func (s *StubRepository) List(ctx context.Context) ([]domain.Quest, error) { return nil, nil }

func (s *StubRepository) Put(ctx context.Context, q *domain.Quest) error { return nil }

func (s *StubRepository) GenerateID(ctx context.Context, at time.Time) (string, error) {
	return "bench-0001-010126", nil
}

func (s *StubRepository) Delete(ctx context.Context, questID string) error { return nil }

func (s *StubRepository) PurgeGuild(ctx context.Context, guildID string) (int, error) {
	return 0, nil
}

func (s *StubRepository) GetGuildConfig(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	return nil, domain.ErrGuildNotConfigured
}

func (s *StubRepository) PutGuildConfig(ctx context.Context, cfg *domain.GuildConfig) error {
	return nil
}

type NopBus struct{}

func (b *NopBus) Publish(ctx context.Context, e event.Event) error { return nil }

func (b *NopBus) Subscribe(t event.Type, h event.Handler) {}

func newBenchService(b *testing.B) quest.Service {
	b.Helper()
	detector, err := title.NewDetector(title.DefaultSystems())
	if err != nil {
		b.Fatalf("detector: %v", err)
	}
	publisher := event.NewResilientPublisher(&NopBus{}, event.ResilientConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	return quest.NewService(&StubRepository{}, publisher, detector)
}

func BenchmarkServiceCreate(b *testing.B) {
	svc := newBenchService(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.Create(ctx, quest.NewQuest{
			GuildID:  "guild-1",
			ThreadID: "thread-1",
			DMID:     "dm-1",
			RawTitle: "[ONLINE] [CAMPAIGN] Curse of Strahd",
			Body:     "A gothic horror campaign for D&D 5e, Tuesdays at 8.",
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkServiceJoin_WaitlistPlacement(b *testing.B) {
	svc := newBenchService(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := svc.Join(ctx, "bench-0001-010126", fmt.Sprintf("user-%d", i))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTitleParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		title.Parse("[FULL] [OFFLINE] [ONESHOT] [PATHFINDER] The Fall of Plaguestone")
	}
}

func BenchmarkSystemDetect(b *testing.B) {
	detector, err := title.NewDetector(title.DefaultSystems())
	if err != nil {
		b.Fatalf("detector: %v", err)
	}
	body := "Long-running Blades in the Dark campaign, new players welcome."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		detector.Detect(body)
	}
}
