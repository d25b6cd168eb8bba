package practice

import "testing"

func TestSkillAlwaysInTrackSet(t *testing.T) {
	c := NewConfig()

	// Walk every track from every starting skill; the invariant must hold
	// after each mutation.
	for _, from := range Tracks {
		c.SetTrack(from)
		for _, skill := range AllowedSkills(from) {
			c.SetSkill(skill)
			for _, to := range Tracks {
				c.SetTrack(to)
				if !SkillAllowed(c.Track, c.Skill) {
					t.Fatalf("skill %q not allowed for track %q after SetTrack(%q→%q)",
						c.Skill, c.Track, from, to)
				}
				c.SetTrack(from)
				c.SetSkill(skill)
			}
		}
	}
}

func TestTrackChangeReplacesForeignSkill(t *testing.T) {
	c := NewConfig()
	c.SetTrack(TrackFrontend)
	c.SetSkill("React")
	c.SetTopic("")

	c.SetTrack(TrackBackend)
	if c.Skill != "SQL" {
		t.Errorf("skill = %q, want first allowed skill SQL", c.Skill)
	}
	if c.Topic != DefaultTopic("SQL") {
		t.Errorf("topic = %q, want reseeded default", c.Topic)
	}
}

func TestTrackChangeKeepsCompatibleSkillAndTopic(t *testing.T) {
	c := NewConfig()
	c.SetSkill("DSA")
	c.SetTopic("graph traversal")

	// DSA is allowed in fullstack too; nothing should change.
	c.SetTrack(TrackFullstack)
	if c.Skill != "DSA" {
		t.Errorf("skill = %q, want DSA", c.Skill)
	}
	if c.Topic != "graph traversal" {
		t.Errorf("topic = %q, want preserved", c.Topic)
	}
}

func TestSkillChangeNeverOverwritesTypedTopic(t *testing.T) {
	c := NewConfig()
	c.SetTopic("window functions")
	c.SetSkill("DSA")
	if c.Topic != "window functions" {
		t.Errorf("topic = %q, want typed topic preserved", c.Topic)
	}

	c.SetTopic("")
	c.SetSkill("SystemDesign")
	if c.Topic != DefaultTopic("SystemDesign") {
		t.Errorf("topic = %q, want seeded default", c.Topic)
	}
}

func TestForeignSkillIgnored(t *testing.T) {
	c := NewConfig() // backend track
	c.SetSkill("React")
	if c.Skill == "React" {
		t.Error("frontend skill accepted on backend track")
	}
}

func TestDifficultyClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{99, 5},
		{6, 5},
		{5, 5},
		{3, 3},
		{1, 1},
		{0, 1},
		{-4, 1},
	}
	for _, tt := range tests {
		c := NewConfig()
		c.SetDifficulty(tt.in)
		if c.Difficulty != tt.want {
			t.Errorf("SetDifficulty(%d) = %d, want %d", tt.in, c.Difficulty, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"99", 5},
		{"abc", 3},
		{"", 3},
		{"2", 2},
		{"easy", 2},
		{"medium", 3},
		{"hard", 4},
		{" Hard ", 4},
		{"-1", 1},
	}
	for _, tt := range tests {
		if got := ParseDifficulty(tt.in); got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
