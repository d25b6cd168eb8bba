// Package practice holds the client-side practice state: the config store
// (track/skill/topic/difficulty rules) and the request orchestrator that
// sequences backend calls for one practice run.
package practice

import (
	"strconv"
	"strings"
)

// Mode selects the practice flavor sent at session creation.
type Mode string

const (
	ModeLearn     Mode = "learn"
	ModeInterview Mode = "interview"
)

// Track is a named practice domain constraining which skills are selectable.
type Track string

const (
	TrackBackend   Track = "backend"
	TrackFrontend  Track = "frontend"
	TrackFullstack Track = "fullstack"
)

// Level is the self-reported seniority.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// QuestionType is the text-question taxonomy.
type QuestionType string

const (
	QuestionConceptual QuestionType = "conceptual"
	QuestionScenario   QuestionType = "scenario"
	QuestionProblem    QuestionType = "problem"
)

// Tracks lists the selectable tracks in display order.
var Tracks = []Track{TrackBackend, TrackFrontend, TrackFullstack}

// Levels lists the selectable levels in display order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// QuestionTypes lists the selectable question types in display order.
var QuestionTypes = []QuestionType{QuestionConceptual, QuestionScenario, QuestionProblem}

// SkillsByTrack is the fixed track→allowed-skills mapping, mirroring the
// backend's published suggestions. The backend rejects nothing outright
// (skills are free-form server-side), but the client never sends a
// combination outside this table.
var SkillsByTrack = map[Track][]string{
	TrackBackend: {"SQL", "DSA", "SystemDesign"},
	TrackFrontend: {
		"React", "Nextjs", "TypeScript", "JavaScript",
		"HTML", "CSS", "WebPerformance", "Testing",
	},
	TrackFullstack: {
		"SQL", "DSA", "SystemDesign",
		"React", "Nextjs", "TypeScript", "JavaScript",
		"HTML", "CSS", "WebPerformance", "Testing",
	},
}

// defaultTopics seeds a topic when the user hasn't typed one.
var defaultTopics = map[string]string{
	"SQL":            "joins and indexing",
	"DSA":            "arrays and hashing",
	"SystemDesign":   "caching strategies",
	"React":          "hooks and state",
	"Nextjs":         "rendering models",
	"TypeScript":     "type narrowing",
	"JavaScript":     "closures and the event loop",
	"HTML":           "semantic markup",
	"CSS":            "flexbox and grid",
	"WebPerformance": "core web vitals",
	"Testing":        "unit testing strategy",
}

// DefaultDifficulty is used when the user input can't be parsed.
const DefaultDifficulty = 3

// Config is the user-selected practice parameters. Mutate through the
// setters so the skill/track invariant holds after every change.
type Config struct {
	Mode         Mode
	Track        Track
	Level        Level
	Skill        string
	Topic        string
	QuestionType QuestionType
	Difficulty   int
}

// NewConfig returns the default practice configuration.
func NewConfig() *Config {
	c := &Config{
		Mode:         ModeLearn,
		Track:        TrackBackend,
		Level:        LevelIntermediate,
		QuestionType: QuestionConceptual,
		Difficulty:   DefaultDifficulty,
	}
	c.Skill = SkillsByTrack[c.Track][0]
	c.Topic = DefaultTopic(c.Skill)
	return c
}

// AllowedSkills returns the skill set for a track. Unknown tracks fall
// back to the backend track rather than an empty set.
func AllowedSkills(t Track) []string {
	if skills, ok := SkillsByTrack[t]; ok {
		return skills
	}
	return SkillsByTrack[TrackBackend]
}

// SkillAllowed reports whether skill belongs to the track's set.
func SkillAllowed(t Track, skill string) bool {
	for _, s := range AllowedSkills(t) {
		if s == skill {
			return true
		}
	}
	return false
}

// DefaultTopic returns the seed topic for a skill ("" for unknown skills).
func DefaultTopic(skill string) string {
	return defaultTopics[skill]
}

// SetTrack switches the track. A skill outside the new track's set is
// replaced with the set's first element and the topic reseeded; otherwise
// only an empty topic is seeded.
func (c *Config) SetTrack(t Track) {
	c.Track = t
	if !SkillAllowed(t, c.Skill) {
		c.Skill = AllowedSkills(t)[0]
		c.Topic = DefaultTopic(c.Skill)
		return
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic(c.Skill)
	}
}

// SetSkill selects a skill directly. Skills outside the current track are
// ignored. An empty topic is seeded; a typed topic is never overwritten.
func (c *Config) SetSkill(skill string) {
	if !SkillAllowed(c.Track, skill) {
		return
	}
	c.Skill = skill
	if c.Topic == "" {
		c.Topic = DefaultTopic(skill)
	}
}

// SetTopic replaces the topic verbatim.
func (c *Config) SetTopic(topic string) {
	c.Topic = strings.TrimSpace(topic)
}

// SetDifficulty clamps d into [1,5].
func (c *Config) SetDifficulty(d int) {
	c.Difficulty = ClampDifficulty(d)
}

// ClampDifficulty clamps d into the inclusive range [1,5].
func ClampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// ParseDifficulty accepts 1-5, easy/medium/hard (2/3/4, matching the
// backend's normalization), or anything else → DefaultDifficulty.
func ParseDifficulty(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return 2
	case "medium":
		return 3
	case "hard":
		return 4
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultDifficulty
	}
	return ClampDifficulty(n)
}
