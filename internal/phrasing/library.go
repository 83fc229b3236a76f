package phrasing

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var defaultPhrases []byte

// Confidence levels used by the built-in phrases.
const (
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"
)

// LevelText is the suggested wording for one confidence level.
type LevelText struct {
	Level string `yaml:"level"`
	Text  string `yaml:"text"`
}

// Phrase is a graded suggestion bound to one or more regions.
type Phrase struct {
	Key     string      `yaml:"key"`
	Name    string      `yaml:"name"`
	Regions []string    `yaml:"regions"`
	Levels  []LevelText `yaml:"levels"`
}

// LevelNames returns the phrase's levels in library order.
func (p Phrase) LevelNames() []string {
	names := make([]string, 0, len(p.Levels))
	for _, l := range p.Levels {
		names = append(names, l.Level)
	}
	return names
}

// Library holds the phrases and the peripheral-joint template.
type Library struct {
	Phrases    []Phrase           `yaml:"phrases"`
	Peripheral PeripheralTemplate `yaml:"peripheral"`
}

var defaultLibrary = sync.OnceValues(func() (*Library, error) {
	return Parse(defaultPhrases)
})

// Default returns the embedded library. It is parsed once and must be
// treated as read-only.
func Default() (*Library, error) {
	return defaultLibrary()
}

// Parse decodes a library from YAML.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse phrasing library: %w", err)
	}
	for i, p := range lib.Phrases {
		if p.Key == "" {
			return nil, fmt.Errorf("phrase %d has no key", i)
		}
		if len(p.Levels) == 0 {
			return nil, fmt.Errorf("phrase %q has no levels", p.Key)
		}
		for j := range p.Levels {
			lib.Phrases[i].Levels[j].Text = strings.TrimSpace(p.Levels[j].Text)
		}
	}
	return &lib, nil
}

// Phrase returns the phrase with the given key (case-insensitive).
func (l *Library) Phrase(key string) (Phrase, bool) {
	for _, p := range l.Phrases {
		if strings.EqualFold(p.Key, strings.TrimSpace(key)) {
			return p, true
		}
	}
	return Phrase{}, false
}

// Suggest returns the wording of phrase key at the given level.
func (l *Library) Suggest(key, level string) (string, error) {
	p, ok := l.Phrase(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhrase, key)
	}
	for _, lt := range p.Levels {
		if strings.EqualFold(lt.Level, strings.TrimSpace(level)) {
			return lt.Text, nil
		}
	}
	return "", fmt.Errorf("%w: %q for %s (expected one of %s)",
		ErrUnknownLevel, level, p.Key, strings.Join(p.LevelNames(), ", "))
}

// ForRegion returns the phrases that apply to region, in library order.
func (l *Library) ForRegion(region string) []Phrase {
	var out []Phrase
	for _, p := range l.Phrases {
		if slices.Contains(p.Regions, region) {
			out = append(out, p)
		}
	}
	return out
}
