// Package title implements the bracketed-tag grammar used in quest forum
// thread titles. Parsing is best-effort and never fails; rendering always
// produces the canonical form:
//
//	[STATUS] [MODE] [TYPE] [SYSTEM] Quest Title
//
// with omitted brackets for unset fields and a single space between tokens.
package title

import (
	"regexp"
	"strings"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
)

var bracketRe = regexp.MustCompile(`\[([^\]]+)\]`)

// Resolution describes how much structure Parse recovered from a title.
type Resolution int

const (
	// ResolutionNone means no bracketed tags were recognized at all.
	ResolutionNone Resolution = iota
	// ResolutionPartial means tags were found but the game system is still
	// unresolved; the caller should trigger DM clarification.
	ResolutionPartial
	// ResolutionFull means every field including the system was resolved.
	ResolutionFull
)

// ParsedTitle holds the structured fields recognized in a thread title.
// Zero values mean the corresponding bracket was absent.
type ParsedTitle struct {
	Status domain.Status
	Mode   domain.Mode
	Type   domain.QuestType
	System string
	Title  string
}

// Resolution classifies the parse result for the clarification flow.
func (p ParsedTitle) Resolution() Resolution {
	if p.Status == "" && p.Mode == "" && p.Type == "" && p.System == "" {
		return ResolutionNone
	}
	if p.System == "" {
		return ResolutionPartial
	}
	return ResolutionFull
}

// Parse extracts quest fields from a thread title. Bracketed tags may appear
// in any order and are matched case-insensitively against the known enum
// values; the first bracket that matches no enum is taken as the game system.
// Everything outside brackets, whitespace-normalized, is the quest title.
// Malformed input yields a partial result, never an error.
func Parse(s string) ParsedTitle {
	var p ParsedTitle

	for _, m := range bracketRe.FindAllStringSubmatch(s, -1) {
		tag := strings.ToUpper(strings.TrimSpace(m[1]))
		switch {
		case domain.Status(tag).Valid():
			p.Status = domain.Status(tag)
		case domain.Mode(tag).Valid():
			p.Mode = domain.Mode(tag)
		case domain.QuestType(tag).Valid():
			p.Type = domain.QuestType(tag)
		default:
			// First unmatched bracket wins as the system.
			if p.System == "" {
				p.System = tag
			}
		}
	}

	remainder := bracketRe.ReplaceAllString(s, "")
	p.Title = strings.Join(strings.Fields(remainder), " ")
	if p.Title == "" {
		p.Title = domain.UntitledQuest
	}
	return p
}

// ParseQuest extracts the title fields of an existing quest record.
func ParseQuest(q *domain.Quest) ParsedTitle {
	return ParsedTitle{
		Status: q.Status,
		Mode:   q.Mode,
		Type:   q.Type,
		System: q.System,
		Title:  q.Title,
	}
}

// Render produces the canonical thread title for the given fields. Brackets
// for unset fields are omitted; the order is fixed regardless of how the
// original title was written.
func Render(p ParsedTitle) string {
	parts := make([]string, 0, 5)
	if p.Status != "" {
		parts = append(parts, "["+string(p.Status)+"]")
	}
	if p.Mode != "" {
		parts = append(parts, "["+string(p.Mode)+"]")
	}
	if p.Type != "" {
		parts = append(parts, "["+string(p.Type)+"]")
	}
	if p.System != "" {
		parts = append(parts, "["+p.System+"]")
	}
	t := p.Title
	if t == "" {
		t = domain.UntitledQuest
	}
	parts = append(parts, t)
	return strings.Join(parts, " ")
}

// RenderQuest produces the canonical thread title for a quest record.
func RenderQuest(q *domain.Quest) string {
	return Render(ParseQuest(q))
}

// StatusColor returns the embed accent colour for a status.
func StatusColor(s domain.Status) int {
	switch s {
	case domain.StatusRecruiting:
		return 0x57F287 // green
	case domain.StatusFull:
		return 0xFEE75C // yellow
	case domain.StatusCompleted:
		return 0x5865F2 // blurple
	case domain.StatusCancelled:
		return 0xED4245 // red
	default:
		return 0x99AAB5 // grey
	}
}
