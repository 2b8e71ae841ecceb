package models

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidCharacter is returned when a character record is missing a
// trait or carries a value outside its domain.
var ErrInvalidCharacter = errors.New("invalid character")

// Attribute pairs a scalar trait with its flavor text.
type Attribute struct {
	Value       int    `yaml:"value"`
	Description string `yaml:"description"`
}

// Appearance holds the looks of a character.
type Appearance struct {
	Score       int       `yaml:"score"`
	HairColor   HairColor `yaml:"hair_color"`
	EyeColor    EyeColor  `yaml:"eye_color"`
	FaceShape   FaceShape `yaml:"face_shape"`
	EyeShape    EyeShape  `yaml:"eye_shape"`
	Description string    `yaml:"description"`
}

// NPC is a fully narrated character record.
type NPC struct {
	ID           string      `yaml:"id"`
	Identity     string      `yaml:"identity"` // e.g., "Wandering Bard"
	Race         Race        `yaml:"race"`
	SocialClass  SocialClass `yaml:"social_class"`
	Appearance   Appearance  `yaml:"appearance"`
	Combat       Attribute   `yaml:"combat"`
	Constitution Attribute   `yaml:"constitution"`
	Intelligence Attribute   `yaml:"intelligence"`
	Tags         []string    `yaml:"tags"`
	Personality  string      `yaml:"personality"`
	Likes        []string    `yaml:"likes"`
	Dislikes     []string    `yaml:"dislikes"`
	Backstory    string      `yaml:"backstory"`
	Preference   string      `yaml:"preference"` // what they look for in a partner
	Generation   int         `yaml:"generation"`
}

// Traits is the numeric and categorical part of a character: everything
// inheritance computes and nothing the narrator writes.
type Traits struct {
	Race            Race
	SocialClass     SocialClass
	AppearanceScore int
	HairColor       HairColor
	EyeColor        EyeColor
	FaceShape       FaceShape
	EyeShape        EyeShape
	Combat          int
	Constitution    int
	Intelligence    int
}

// Narrative is the flavor text of a character. The core never reads it.
type Narrative struct {
	Identity                string   `yaml:"identity"`
	AppearanceDescription   string   `yaml:"appearance_description"`
	CombatDescription       string   `yaml:"combat_description"`
	ConstitutionDescription string   `yaml:"constitution_description"`
	IntelligenceDescription string   `yaml:"intelligence_description"`
	Tags                    []string `yaml:"tags"`
	Personality             string   `yaml:"personality"`
	Likes                   []string `yaml:"likes"`
	Dislikes                []string `yaml:"dislikes"`
	Backstory               string   `yaml:"backstory"`
	Preference              string   `yaml:"preference"`
}

// Fallback narrative used when the narrator leaves a field empty.
const (
	DefaultIdentity    = "Nameless Wanderer"
	DefaultAppearance  = "Plain to look at."
	DefaultAttribute   = "Unremarkable."
	DefaultPersonality = "Unknown"
	DefaultBackstory   = "A life without a story."
	DefaultPreference  = "Whoever fate sends."
)

// WithDefaults returns a copy of n with every empty field replaced by its
// fallback. Nil lists become empty lists.
func (n Narrative) WithDefaults() Narrative {
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}
	orEmpty := func(l []string) []string {
		if l == nil {
			return []string{}
		}
		return l
	}
	return Narrative{
		Identity:                orDefault(n.Identity, DefaultIdentity),
		AppearanceDescription:   orDefault(n.AppearanceDescription, DefaultAppearance),
		CombatDescription:       orDefault(n.CombatDescription, DefaultAttribute),
		ConstitutionDescription: orDefault(n.ConstitutionDescription, DefaultAttribute),
		IntelligenceDescription: orDefault(n.IntelligenceDescription, DefaultAttribute),
		Tags:                    orEmpty(n.Tags),
		Personality:             orDefault(n.Personality, DefaultPersonality),
		Likes:                   orEmpty(n.Likes),
		Dislikes:                orEmpty(n.Dislikes),
		Backstory:               orDefault(n.Backstory, DefaultBackstory),
		Preference:              orDefault(n.Preference, DefaultPreference),
	}
}

// NewNPC assembles a character from computed traits and narrative.
// Empty narrative fields fall back to defaults.
func NewNPC(id string, generation int, t Traits, n Narrative) NPC {
	n = n.WithDefaults()
	return NPC{
		ID:          id,
		Identity:    n.Identity,
		Race:        t.Race,
		SocialClass: t.SocialClass,
		Appearance: Appearance{
			Score:       t.AppearanceScore,
			HairColor:   t.HairColor,
			EyeColor:    t.EyeColor,
			FaceShape:   t.FaceShape,
			EyeShape:    t.EyeShape,
			Description: n.AppearanceDescription,
		},
		Combat:       Attribute{Value: t.Combat, Description: n.CombatDescription},
		Constitution: Attribute{Value: t.Constitution, Description: n.ConstitutionDescription},
		Intelligence: Attribute{Value: t.Intelligence, Description: n.IntelligenceDescription},
		Tags:         n.Tags,
		Personality:  n.Personality,
		Likes:        n.Likes,
		Dislikes:     n.Dislikes,
		Backstory:    n.Backstory,
		Preference:   n.Preference,
		Generation:   generation,
	}
}

// Traits extracts the inheritable part of the character.
func (c NPC) Traits() Traits {
	return Traits{
		Race:            c.Race,
		SocialClass:     c.SocialClass,
		AppearanceScore: c.Appearance.Score,
		HairColor:       c.Appearance.HairColor,
		EyeColor:        c.Appearance.EyeColor,
		FaceShape:       c.Appearance.FaceShape,
		EyeShape:        c.Appearance.EyeShape,
		Combat:          c.Combat.Value,
		Constitution:    c.Constitution.Value,
		Intelligence:    c.Intelligence.Value,
	}
}

// Validate checks that every categorical trait belongs to its domain and
// every score is in range.
func (t Traits) Validate() error {
	if !t.Race.Valid() {
		return fmt.Errorf("%w: unknown race %q", ErrInvalidCharacter, t.Race)
	}
	if !t.SocialClass.Valid() {
		return fmt.Errorf("%w: unknown social class %q", ErrInvalidCharacter, t.SocialClass)
	}
	if !t.HairColor.Valid() {
		return fmt.Errorf("%w: unknown hair color %q", ErrInvalidCharacter, t.HairColor)
	}
	if !t.EyeColor.Valid() {
		return fmt.Errorf("%w: unknown eye color %q", ErrInvalidCharacter, t.EyeColor)
	}
	if !t.FaceShape.Valid() {
		return fmt.Errorf("%w: unknown face shape %q", ErrInvalidCharacter, t.FaceShape)
	}
	if !t.EyeShape.Valid() {
		return fmt.Errorf("%w: unknown eye shape %q", ErrInvalidCharacter, t.EyeShape)
	}
	scores := []struct {
		name  string
		value int
	}{
		{"appearance", t.AppearanceScore},
		{"combat", t.Combat},
		{"constitution", t.Constitution},
		{"intelligence", t.Intelligence},
	}
	for _, s := range scores {
		if s.value < MinTrait || s.value > MaxTrait {
			return fmt.Errorf("%w: %s %d out of range [%d, %d]", ErrInvalidCharacter, s.name, s.value, MinTrait, MaxTrait)
		}
	}
	return nil
}

// Validate checks the record before it takes part in a pairing.
func (c NPC) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCharacter)
	}
	if c.Generation < 1 {
		return fmt.Errorf("%w: generation %d, must be at least 1", ErrInvalidCharacter, c.Generation)
	}
	if err := c.Traits().Validate(); err != nil {
		return fmt.Errorf("character %s: %w", c.ID, err)
	}
	return nil
}

// Clone returns a copy of c that shares no slices with it.
func (c NPC) Clone() NPC {
	c.Tags = slices.Clone(c.Tags)
	c.Likes = slices.Clone(c.Likes)
	c.Dislikes = slices.Clone(c.Dislikes)
	return c
}

// Outcome classifies how a pairing turned out.
type Outcome string

const (
	OutcomeHappy   Outcome = "Happy"
	OutcomeNeutral Outcome = "Neutral"
	OutcomeBitter  Outcome = "Bitter"
)

// Mobility is the number of ranks each child's social class moves.
func (o Outcome) Mobility() int {
	switch o {
	case OutcomeHappy:
		return 1
	case OutcomeBitter:
		return -1
	default:
		return 0
	}
}

// PairingResult is the complete product of one pairing event.
type PairingResult struct {
	Outcome  Outcome `yaml:"outcome"`
	Story    string  `yaml:"story"`
	Children []NPC   `yaml:"children"` // in the order they were generated
}
