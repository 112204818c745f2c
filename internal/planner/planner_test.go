package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlan_Deterministic(t *testing.T) {
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for score := 1; score <= 10; score++ {
		first := Plan(start, score)
		second := Plan(start, score)
		require.Equal(t, first, second, "score %d", score)
	}
}

func TestPlan_OffsetsAndDates(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	wantOffsets := []int{0, 1, 3, 7, 14, 30}
	for score := 1; score <= 10; score++ {
		entries := Plan(start, score)
		require.Len(t, entries, 6)
		for i, entry := range entries {
			require.Equal(t, i+1, entry.SessionIndex)
			require.Equal(t, wantOffsets[i], entry.OffsetDays)
			require.Equal(t, start.AddDate(0, 0, entry.OffsetDays), entry.Date)
		}
	}
}

func TestPlan_TechniqueBranch(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for _, score := range []int{1, 3, 6} {
		entries := Plan(start, score)
		require.Equal(t, "Active Recall", entries[0].Technique, "score %d", score)
		require.Equal(t, "Final Check", entries[5].Technique, "score %d", score)
	}
	for _, score := range []int{7, 8, 10} {
		entries := Plan(start, score)
		require.Equal(t, "Blurting", entries[0].Technique, "score %d", score)
		require.Equal(t, "Final Review", entries[5].Technique, "score %d", score)
	}
}

func TestPlan_FocusProgression(t *testing.T) {
	entries := Plan(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), 5)
	require.Equal(t, "Encoding", entries[0].Focus)
	require.Equal(t, "Retrieval", entries[1].Focus)
	for _, entry := range entries[2:] {
		require.Equal(t, "Retention", entry.Focus)
	}
}

func TestPlan_ScenarioLowDifficulty(t *testing.T) {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	entries := Plan(start, 2)
	require.Equal(t, "Active Recall", entries[0].Technique)
	require.Equal(t, start.AddDate(0, 0, 1), entries[1].Date)
}
