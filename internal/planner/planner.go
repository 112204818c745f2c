// Package planner derives a spaced-repetition review calendar from a start
// date and the difficulty score produced by content analysis. The plan is a
// pure function of its inputs.
package planner

import (
	"time"

	"github.com/neurolearn/neurosched/internal/model"
)

// reviewOffsets follows the classic forgetting-curve spacing: same day,
// next day, then progressively longer gaps.
var reviewOffsets = []int{0, 1, 3, 7, 14, 30}

var standardTechniques = []string{
	"Active Recall",
	"Quiz",
	"Review",
	"Concept Mapping",
	"Teach a Friend",
	"Final Check",
}

var highDifficultyTechniques = []string{
	"Blurting",
	"Feynman Technique",
	"Interleaving",
	"Application",
	"Error Analysis",
	"Final Review",
}

// highDifficultyThreshold selects the heavier technique list for scores above it.
const highDifficultyThreshold = 6

// Plan returns the ordered review sessions for material of the given
// difficulty, starting at start. Exactly one entry per review offset.
func Plan(start time.Time, difficultyScore int) []model.ScheduleEntry {
	techniques := standardTechniques
	if difficultyScore > highDifficultyThreshold {
		techniques = highDifficultyTechniques
	}

	entries := make([]model.ScheduleEntry, 0, len(reviewOffsets))
	for i, offset := range reviewOffsets {
		entries = append(entries, model.ScheduleEntry{
			SessionIndex: i + 1,
			Date:         start.AddDate(0, 0, offset),
			OffsetDays:   offset,
			Technique:    techniques[i%len(techniques)],
			Focus:        focusLabel(i),
		})
	}
	return entries
}

// focusLabel maps a session position onto the encode/retrieve/retain phases.
func focusLabel(i int) string {
	switch {
	case i == 0:
		return "Encoding"
	case i == 1:
		return "Retrieval"
	default:
		return "Retention"
	}
}
