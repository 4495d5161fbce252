package domain

import "time"

// Status is the recruitment state of a quest.
// COMPLETED and CANCELLED are terminal: no roster or field mutation is
// permitted once a quest reaches either.
type Status string

const (
	StatusRecruiting Status = "RECRUITING"
	StatusFull       Status = "FULL"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether no further mutation is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusRecruiting, StatusFull, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Mode is where a quest is played.
type Mode string

const (
	ModeOnline  Mode = "ONLINE"
	ModeOffline Mode = "OFFLINE"
)

// Valid reports whether m is a known mode value.
func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeOffline
}

// QuestType distinguishes oneshots from campaigns.
type QuestType string

const (
	TypeOneshot  QuestType = "ONESHOT"
	TypeCampaign QuestType = "CAMPAIGN"
)

// Valid reports whether t is a known type value.
func (t QuestType) Valid() bool {
	return t == TypeOneshot || t == TypeCampaign
}

// SystemUnknown is stored when the game system could not be resolved from the
// thread title or body. The DM is asked to clarify via the notification hook.
const SystemUnknown = "UNKNOWN"

// UntitledQuest is used when a thread title contains no text outside brackets.
const UntitledQuest = "Untitled Quest"

// Quest is a recruitment record for one tabletop session or campaign, backed
// by a forum thread. Roster and waitlist are insertion-ordered user IDs,
// disjoint, with no duplicates. MaxPlayers of 0 means unlimited.
type Quest struct {
	QuestID        string    `json:"quest_id"`
	GuildID        string    `json:"guild_id"`
	ThreadID       string    `json:"thread_id"`
	DMID           string    `json:"dm_id"`
	Title          string    `json:"title"`
	Status         Status    `json:"status"`
	Mode           Mode      `json:"mode,omitempty"`
	Type           QuestType `json:"type,omitempty"`
	System         string    `json:"system,omitempty"`
	MaxPlayers     int       `json:"max_players"`
	Roster         []string  `json:"roster"`
	Waitlist       []string  `json:"waitlist"`
	EmbedChannelID string    `json:"embed_channel_id,omitempty"`
	EmbedMessageID string    `json:"embed_message_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OnRoster reports whether userID holds a confirmed seat.
func (q *Quest) OnRoster(userID string) bool {
	return contains(q.Roster, userID)
}

// OnWaitlist reports whether userID is queued for promotion.
func (q *Quest) OnWaitlist(userID string) bool {
	return contains(q.Waitlist, userID)
}

// IsMember reports whether userID appears on the roster or the waitlist.
func (q *Quest) IsMember(userID string) bool {
	return q.OnRoster(userID) || q.OnWaitlist(userID)
}

// AtCapacity reports whether the roster is at its bounded cap.
// An unlimited quest (MaxPlayers == 0) is never at capacity.
func (q *Quest) AtCapacity() bool {
	return q.MaxPlayers > 0 && len(q.Roster) >= q.MaxPlayers
}

// Clone returns a deep copy safe to mutate without aliasing the slices.
func (q *Quest) Clone() *Quest {
	c := *q
	c.Roster = append([]string(nil), q.Roster...)
	c.Waitlist = append([]string(nil), q.Waitlist...)
	return &c
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// QuestPatch is an explicit field-subset update. Each field is independently
// present-or-absent; present fields are applied atomically.
type QuestPatch struct {
	Status     *Status    `json:"status,omitempty"`
	Mode       *Mode      `json:"mode,omitempty"`
	Type       *QuestType `json:"type,omitempty"`
	System     *string    `json:"system,omitempty"`
	Title      *string    `json:"title,omitempty"`
	MaxPlayers *int       `json:"max_players,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p QuestPatch) Empty() bool {
	return p.Status == nil && p.Mode == nil && p.Type == nil &&
		p.System == nil && p.Title == nil && p.MaxPlayers == nil
}

// Placement names which list a roster operation touched.
type Placement string

const (
	PlacementRoster   Placement = "roster"
	PlacementWaitlist Placement = "waitlist"
)

// JoinResult reports where a joining user landed.
type JoinResult struct {
	Placement Placement `json:"placement"`
	Position  int       `json:"position"` // 1-based position within the list
}

// LeaveResult reports which list a user left and who, if anyone, was promoted
// from the waitlist into the vacated roster seat.
type LeaveResult struct {
	RemovedFrom Placement `json:"removed_from"`
	Promoted    string    `json:"promoted,omitempty"`
}

// Caller identifies who invoked a privileged operation.
type Caller struct {
	UserID string `json:"user_id"`
	Admin  bool   `json:"admin"`
}

// CanManage reports whether the caller is the quest's DM or an admin.
func (c Caller) CanManage(q *Quest) bool {
	return c.Admin || c.UserID == q.DMID
}

// GuildConfig holds per-guild board settings written by /setup.
type GuildConfig struct {
	GuildID          string `json:"guild_id"`
	ForumChannelID   string `json:"forum_channel_id"`
	EmbedChannelID   string `json:"embed_channel_id"`
	PingRoleOnline   string `json:"ping_role_online,omitempty"`
	PingRoleOffline  string `json:"ping_role_offline,omitempty"`
	PingRoleOneshot  string `json:"ping_role_oneshot,omitempty"`
	PingRoleCampaign string `json:"ping_role_campaign,omitempty"`
}
