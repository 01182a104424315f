package models

import (
	"github.com/gosimple/slug"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Level is one unit of the Solidity curriculum. The catalog is static
// content shipped with the service — levels are authored code, not uploaded
// data, so there is no levels table.
type Level struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Difficulty       string `json:"difficulty"`
	Description      string `json:"description"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// LevelCatalog is ordered by ID, 1..TotalLevels, no gaps.
var LevelCatalog = []Level{
	{
		ID:               1,
		Title:            "Hello Blockchain",
		Difficulty:       DifficultyEasy,
		Description:      "Write and deploy your very first smart contract",
		EstimatedMinutes: 10,
	},
	{
		ID:               2,
		Title:            "State & Variables",
		Difficulty:       DifficultyEasy,
		Description:      "Value types, state variables and visibility",
		EstimatedMinutes: 15,
	},
	{
		ID:               3,
		Title:            "Functions & Modifiers",
		Difficulty:       DifficultyMedium,
		Description:      "Function visibility, payable and custom modifiers",
		EstimatedMinutes: 20,
	},
	{
		ID:               4,
		Title:            "Structs & Mappings",
		Difficulty:       DifficultyMedium,
		Description:      "Composite storage: structs, mappings and arrays",
		EstimatedMinutes: 25,
	},
	{
		ID:               5,
		Title:            "Inheritance & Interfaces",
		Difficulty:       DifficultyHard,
		Description:      "Contract inheritance, interfaces and overrides",
		EstimatedMinutes: 30,
	},
}

func init() {
	for i := range LevelCatalog {
		LevelCatalog[i].Slug = slug.Make(LevelCatalog[i].Title)
	}
}

// TotalLevels returns the size of the level catalog.
func TotalLevels() int {
	return len(LevelCatalog)
}

// ValidLevelID reports whether id falls inside the catalog.
func ValidLevelID(id int) bool {
	return id >= 1 && id <= len(LevelCatalog)
}

// LevelByID returns the catalog entry for id, or nil when out of range.
func LevelByID(id int) *Level {
	if !ValidLevelID(id) {
		return nil
	}
	return &LevelCatalog[id-1]
}

// LevelBySlug returns the catalog entry with the given slug, or nil.
func LevelBySlug(s string) *Level {
	for i := range LevelCatalog {
		if LevelCatalog[i].Slug == s {
			return &LevelCatalog[i]
		}
	}
	return nil
}
