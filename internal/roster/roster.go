// Package roster enforces capacity, waitlist promotion, and derived status
// for a single quest. All functions mutate the quest in place and expect the
// caller to hold that quest's critical section and to persist afterwards.
package roster

import (
	"fmt"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

// Policy holds the board-level roster rules.
type Policy struct {
	// AllowDMJoin permits a quest's DM to join their own roster.
	// The board has always barred this.
	AllowDMJoin bool
}

// DefaultPolicy is the board's standing policy.
var DefaultPolicy = Policy{AllowDMJoin: false}

// Join places a user on the roster when a seat is free, otherwise on the
// waitlist. Duplicates are rejected and terminal quests accept nobody.
func Join(q *domain.Quest, userID string, p Policy) (domain.JoinResult, error) {
	if q.Status.Terminal() {
		return domain.JoinResult{}, fmt.Errorf("%w: %s is %s", domain.ErrQuestClosed, q.QuestID, q.Status)
	}
	if !p.AllowDMJoin && userID == q.DMID {
		return domain.JoinResult{}, domain.ErrDMCannotJoin
	}
	if q.IsMember(userID) {
		return domain.JoinResult{}, fmt.Errorf("%w: %s", domain.ErrAlreadyMember, userID)
	}

	var res domain.JoinResult
	if q.AtCapacity() {
		q.Waitlist = append(q.Waitlist, userID)
		res = domain.JoinResult{Placement: domain.PlacementWaitlist, Position: len(q.Waitlist)}
	} else {
		q.Roster = append(q.Roster, userID)
		res = domain.JoinResult{Placement: domain.PlacementRoster, Position: len(q.Roster)}
	}

	RecomputeStatus(q)
	return res, nil
}

// Leave removes a user from whichever list holds them. Vacating a roster
// seat promotes the earliest-joined waitlisted user, provided the roster is
// actually below its cap (it may not be, after the cap was shrunk).
func Leave(q *domain.Quest, userID string) (domain.LeaveResult, error) {
	if q.Status.Terminal() {
		return domain.LeaveResult{}, fmt.Errorf("%w: %s is %s", domain.ErrQuestClosed, q.QuestID, q.Status)
	}

	var res domain.LeaveResult
	switch {
	case q.OnRoster(userID):
		q.Roster = remove(q.Roster, userID)
		res.RemovedFrom = domain.PlacementRoster
		if len(q.Waitlist) > 0 && !q.AtCapacity() {
			promoted := q.Waitlist[0]
			q.Waitlist = append([]string(nil), q.Waitlist[1:]...)
			q.Roster = append(q.Roster, promoted)
			res.Promoted = promoted
		}
	case q.OnWaitlist(userID):
		q.Waitlist = remove(q.Waitlist, userID)
		res.RemovedFrom = domain.PlacementWaitlist
	default:
		return domain.LeaveResult{}, fmt.Errorf("%w: %s", domain.ErrNotMember, userID)
	}

	RecomputeStatus(q)
	return res, nil
}

// RecomputeStatus derives FULL/RECRUITING from roster size against the cap.
// Terminal statuses are never altered.
func RecomputeStatus(q *domain.Quest) {
	if q.Status.Terminal() {
		return
	}
	if q.AtCapacity() {
		q.Status = domain.StatusFull
	} else {
		q.Status = domain.StatusRecruiting
	}
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
