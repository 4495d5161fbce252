package title

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// System is one recognizable game system: a canonical display name and the
// patterns that identify it inside a quest body.
type System struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

// SystemsConfig is the on-disk shape of configs/systems.toml.
type SystemsConfig struct {
	Version string   `toml:"version"`
	Systems []System `toml:"system"`
}

// Detector matches quest body text against a configured game-system pool.
type Detector struct {
	entries []systemEntry
}

type systemEntry struct {
	name string
	re   *regexp.Regexp
}

// NewDetector compiles the given systems into a Detector. Patterns are
// matched case-insensitively on word boundaries, in declaration order; the
// first match wins.
func NewDetector(systems []System) (*Detector, error) {
	d := &Detector{entries: make([]systemEntry, 0, len(systems))}
	for _, s := range systems {
		if s.Name == "" || len(s.Patterns) == 0 {
			return nil, fmt.Errorf("system entry %q: name and patterns are required", s.Name)
		}
		quoted := make([]string, len(s.Patterns))
		for i, p := range s.Patterns {
			quoted[i] = regexp.QuoteMeta(p)
		}
		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("system entry %q: %w", s.Name, err)
		}
		d.entries = append(d.entries, systemEntry{name: s.Name, re: re})
	}
	return d, nil
}

// LoadDetector reads a systems TOML file and compiles it into a Detector.
func LoadDetector(path string) (*Detector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read systems config: %w", err)
	}
	var cfg SystemsConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse systems config: %w", err)
	}
	return NewDetector(cfg.Systems)
}

// Detect scans body text for a known game system and returns its canonical
// name. The second return is false when nothing matched.
func (d *Detector) Detect(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	for _, e := range d.entries {
		if e.re.MatchString(body) {
			return e.name, true
		}
	}
	return "", false
}

// Names returns the canonical names of all configured systems, in order.
// Used for autocomplete suggestions.
func (d *Detector) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.name
	}
	return names
}

// DefaultSystems returns the built-in system pool used when no config file
// is present. Mirrors the systems the board has historically recognized.
func DefaultSystems() []System {
	return []System{
		{Name: "D&D", Patterns: []string{"D&D", "DND", "Dungeons & Dragons", "Dungeons and Dragons", "5e"}},
		{Name: "PATHFINDER", Patterns: []string{"Pathfinder", "PF2", "PF2e"}},
		{Name: "CALL OF CTHULHU", Patterns: []string{"Call of Cthulhu", "CoC"}},
		{Name: "VAMPIRE", Patterns: []string{"Vampire", "V5", "VtM"}},
		{Name: "SAVAGE WORLDS", Patterns: []string{"Savage Worlds"}},
		{Name: "FATE", Patterns: []string{"Fate"}},
		{Name: "CYBERPUNK", Patterns: []string{"Cyberpunk"}},
		{Name: "SHADOWRUN", Patterns: []string{"Shadowrun"}},
		{Name: "STARFINDER", Patterns: []string{"Starfinder"}},
		{Name: "BLADES IN THE DARK", Patterns: []string{"Blades in the Dark"}},
		{Name: "DELTA GREEN", Patterns: []string{"Delta Green"}},
		{Name: "WARHAMMER", Patterns: []string{"Warhammer", "WFRP"}},
		{Name: "13TH AGE", Patterns: []string{"13th Age"}},
		{Name: "TRAVELLER", Patterns: []string{"Traveller"}},
		{Name: "MYTHRAS", Patterns: []string{"Mythras"}},
		{Name: "DCC", Patterns: []string{"DCC"}},
	}
}
