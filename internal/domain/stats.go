package domain

// StatsField names a quest field the stats aggregator can group or filter by.
type StatsField string

const (
	FieldStatus StatsField = "status"
	FieldMode   StatsField = "mode"
	FieldType   StatsField = "type"
	FieldSystem StatsField = "system"
)

// Valid reports whether f is a countable field.
func (f StatsField) Valid() bool {
	switch f {
	case FieldStatus, FieldMode, FieldType, FieldSystem:
		return true
	}
	return false
}

// BoardStats is a read-only projection over the quest store.
type BoardStats struct {
	FilterField     StatsField     `json:"filter_field,omitempty"`
	FilterValue     string         `json:"filter_value,omitempty"`
	TotalQuests     int            `json:"total_quests"`
	TotalPlayers    int            `json:"total_players"`
	TotalWaitlisted int            `json:"total_waitlisted"`
	ByStatus        map[string]int `json:"by_status"`
	ByMode          map[string]int `json:"by_mode"`
	ByType          map[string]int `json:"by_type"`
	BySystem        map[string]int `json:"by_system"`
}
