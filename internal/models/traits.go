package models

import (
	"fmt"
	"slices"
)

// Trait values are integer scores in [MinTrait, MaxTrait].
const (
	MinTrait = 0
	MaxTrait = 100
)

// ClampTrait bounds v to the trait range.
func ClampTrait(v int) int {
	return min(MaxTrait, max(MinTrait, v))
}

// Race is the ancestry of a character.
type Race string

const (
	RaceHuman     Race = "Human"
	RaceElf       Race = "Elf"
	RaceDwarf     Race = "Dwarf"
	RaceOrc       Race = "Orc"
	RaceDragonkin Race = "Dragonkin"
	RaceTiefling  Race = "Tiefling"
)

// Races lists every race in display order.
var Races = []Race{RaceHuman, RaceElf, RaceDwarf, RaceOrc, RaceDragonkin, RaceTiefling}

// Valid reports whether r belongs to the race domain.
func (r Race) Valid() bool { return slices.Contains(Races, r) }

// SocialClass is a character's place in the social order.
type SocialClass string

const (
	ClassSerf     SocialClass = "Serf"
	ClassCommoner SocialClass = "Commoner"
	ClassMerchant SocialClass = "Merchant"
	ClassKnight   SocialClass = "Knight"
	ClassNoble    SocialClass = "Noble"
	ClassRoyalty  SocialClass = "Royalty"
)

// classHierarchy is the single source of truth for social rank.
// Index is rank: the lowest class sits at 0.
var classHierarchy = []SocialClass{
	ClassSerf,
	ClassCommoner,
	ClassMerchant,
	ClassKnight,
	ClassNoble,
	ClassRoyalty,
}

// MaxRank is the rank of the highest social class.
const MaxRank = 5

// SocialClasses returns the classes ordered from lowest to highest rank.
func SocialClasses() []SocialClass {
	return slices.Clone(classHierarchy)
}

// Rank returns the position of c in the hierarchy, or -1 if c is unknown.
func (c SocialClass) Rank() int {
	return slices.Index(classHierarchy, c)
}

// Valid reports whether c belongs to the social class domain.
func (c SocialClass) Valid() bool { return c.Rank() >= 0 }

// ClassAt returns the class holding rank, clamping rank into [0, MaxRank].
func ClassAt(rank int) SocialClass {
	return classHierarchy[min(MaxRank, max(0, rank))]
}

// Shift moves c by delta ranks, stopping at either end of the hierarchy.
func (c SocialClass) Shift(delta int) SocialClass {
	return ClassAt(c.Rank() + delta)
}

// CheckClassHierarchy verifies that every social class has exactly one rank
// and that ranks are contiguous from 0 to MaxRank.
func CheckClassHierarchy() error {
	if len(classHierarchy) != MaxRank+1 {
		return fmt.Errorf("social class hierarchy has %d classes, want %d", len(classHierarchy), MaxRank+1)
	}
	seen := make(map[SocialClass]int, len(classHierarchy))
	for rank, c := range classHierarchy {
		if c == "" {
			return fmt.Errorf("social class at rank %d has no name", rank)
		}
		if prev, ok := seen[c]; ok {
			return fmt.Errorf("social class %q holds ranks %d and %d", c, prev, rank)
		}
		seen[c] = rank
		if ClassAt(rank) != c || c.Rank() != rank {
			return fmt.Errorf("social class %q does not round-trip through rank %d", c, rank)
		}
	}
	return nil
}

// HairColor is a categorical appearance trait.
type HairColor string

// HairColors is the hair color domain.
var HairColors = []HairColor{
	"Silver", "Golden", "Raven Black", "Sea Blue", "Emerald", "Crimson", "Violet", "Auburn", "Ash Grey",
}

func (h HairColor) Valid() bool { return slices.Contains(HairColors, h) }

// EyeColor is a categorical appearance trait.
type EyeColor string

// EyeColors is the eye color domain.
var EyeColors = []EyeColor{
	"Amber", "Deep Blue", "Jade", "Ruby", "Obsidian", "Ashen", "Gold",
}

func (e EyeColor) Valid() bool { return slices.Contains(EyeColors, e) }

// FaceShape is a categorical appearance trait.
type FaceShape string

// FaceShapes is the face shape domain.
var FaceShapes = []FaceShape{
	"Oval", "Round", "Angular", "Delicate", "Broad",
}

func (f FaceShape) Valid() bool { return slices.Contains(FaceShapes, f) }

// EyeShape is a categorical appearance trait.
type EyeShape string

// EyeShapes is the eye shape domain.
var EyeShapes = []EyeShape{
	"Almond", "Upturned", "Downturned", "Sharp", "Gentle", "Round",
}

func (s EyeShape) Valid() bool { return slices.Contains(EyeShapes, s) }
