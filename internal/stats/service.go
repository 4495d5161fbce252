// Package stats aggregates read-only counts over the quest store.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/repository"
)

// Service defines the interface for board statistics
type Service interface {
	// Summary counts quests by status, mode, type, and system over a single
	// snapshot of the store. A non-empty field narrows the snapshot to
	// quests whose field equals value (case-insensitive).
	Summary(ctx context.Context, field domain.StatsField, value string) (*domain.BoardStats, error)

	// CountBy returns the number of quests whose field equals value.
	CountBy(ctx context.Context, field domain.StatsField, value string) (int, error)
}

type service struct {
	repo repository.QuestRepository
}

// NewService creates a new stats service
func NewService(repo repository.QuestRepository) Service {
	return &service{repo: repo}
}

func (s *service) Summary(ctx context.Context, field domain.StatsField, value string) (*domain.BoardStats, error) {
	if field != "" && !field.Valid() {
		return nil, fmt.Errorf("%w: unknown stats field %q", domain.ErrInvalidInput, field)
	}

	quests, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &domain.BoardStats{
		FilterField: field,
		FilterValue: value,
		ByStatus:    make(map[string]int),
		ByMode:      make(map[string]int),
		ByType:      make(map[string]int),
		BySystem:    make(map[string]int),
	}

	for i := range quests {
		q := &quests[i]
		if field != "" && !fieldMatches(q, field, value) {
			continue
		}
		out.TotalQuests++
		out.TotalPlayers += len(q.Roster)
		out.TotalWaitlisted += len(q.Waitlist)
		out.ByStatus[string(q.Status)]++
		if q.Mode != "" {
			out.ByMode[string(q.Mode)]++
		}
		if q.Type != "" {
			out.ByType[string(q.Type)]++
		}
		if q.System != "" {
			out.BySystem[q.System]++
		}
	}

	return out, nil
}

func (s *service) CountBy(ctx context.Context, field domain.StatsField, value string) (int, error) {
	if !field.Valid() {
		return 0, fmt.Errorf("%w: unknown stats field %q", domain.ErrInvalidInput, field)
	}

	quests, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := range quests {
		if fieldMatches(&quests[i], field, value) {
			n++
		}
	}
	return n, nil
}

func fieldMatches(q *domain.Quest, field domain.StatsField, value string) bool {
	var got string
	switch field {
	case domain.FieldStatus:
		got = string(q.Status)
	case domain.FieldMode:
		got = string(q.Mode)
	case domain.FieldType:
		got = string(q.Type)
	case domain.FieldSystem:
		got = q.System
	}
	return strings.EqualFold(got, value)
}
