package habit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreHabitFormulas(t *testing.T) {
	id := uuid.New()

	s := ScoreHabit(id, 10, 15, 20, DifficultyHard)
	assert.Equal(t, 215, s.Raw) // 10*10 + 20*2 + 15*5
	assert.Equal(t, 2.0, s.Multiplier)
	assert.Equal(t, 430, s.Adjusted)
	assert.Equal(t, 10, s.StreakLength)

	s = ScoreHabit(id, 3, 5, 8, DifficultyMedium)
	assert.Equal(t, 71, s.Raw)
	assert.Equal(t, 107, s.Adjusted) // round(71 * 1.5)

	s = ScoreHabit(id, 0, 0, 0, DifficultyEasy)
	assert.Zero(t, s.Raw)
	assert.Zero(t, s.Adjusted)
}

func TestDifficultyMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, DifficultyMultiplier(DifficultyEasy))
	assert.Equal(t, 1.5, DifficultyMultiplier(DifficultyMedium))
	assert.Equal(t, 2.0, DifficultyMultiplier(DifficultyHard))
	assert.Equal(t, 1.0, DifficultyMultiplier("unknown"))
}

func TestNormalizeWithinTier(t *testing.T) {
	a := ScoreHabit(uuid.New(), 10, 10, 10, DifficultyEasy) // raw 170
	b := ScoreHabit(uuid.New(), 5, 5, 5, DifficultyEasy)    // raw 85
	c := ScoreHabit(uuid.New(), 1, 1, 1, DifficultyEasy)    // raw 17
	hard := ScoreHabit(uuid.New(), 2, 2, 2, DifficultyHard) // raw 34

	out := Normalize([]Score{c, hard, a, b})
	require.Len(t, out, 4)

	// Easy group first, best rank first.
	assert.Equal(t, a.GoalID, out[0].GoalID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 100, out[0].Percentile)
	assert.Equal(t, b.GoalID, out[1].GoalID)
	assert.Equal(t, 2, out[1].Rank)
	assert.Equal(t, 50, out[1].Percentile)
	assert.Equal(t, c.GoalID, out[2].GoalID)
	assert.Equal(t, 3, out[2].Rank)
	assert.Equal(t, 0, out[2].Percentile)

	// The lone hard habit is never compared against the easy ones.
	assert.Equal(t, hard.GoalID, out[3].GoalID)
	assert.Equal(t, 1, out[3].Rank)
	assert.Equal(t, 100, out[3].Percentile)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestRecognitionThresholds(t *testing.T) {
	mk := func(adjusted, percentile int, difficulty string) NormalizedScore {
		return NormalizedScore{
			Score:      Score{Adjusted: adjusted, Difficulty: difficulty},
			Percentile: percentile,
		}
	}

	tests := []struct {
		name string
		in   NormalizedScore
		tier string
	}{
		{"below bronze", mk(40, 0, DifficultyEasy), "none"},
		{"bronze", mk(50, 0, DifficultyEasy), "bronze"},
		{"silver", mk(120, 0, DifficultyMedium), "silver"},
		{"gold", mk(300, 0, DifficultyEasy), "gold"},
		{"platinum", mk(600, 0, DifficultyEasy), "platinum"},
		{"diamond", mk(1200, 0, DifficultyEasy), "diamond"},
		{"hard reaches bronze at 80 percent", mk(40, 0, DifficultyHard), "bronze"},
		{"hard reaches diamond at 800", mk(800, 0, DifficultyHard), "diamond"},
		{"percentile bonus lifts the tier", mk(90, 90, DifficultyEasy), "silver"}, // 90*1.2 = 108
		{"mid percentile bonus", mk(95, 75, DifficultyEasy), "silver"},            // 95*1.1 = 104.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := Recognition(tt.in)
			assert.Equal(t, tt.tier, level.Tier)
			assert.NotEmpty(t, level.Title)
		})
	}
}

func TestRecognitionHardTitlesDiffer(t *testing.T) {
	easy := Recognition(NormalizedScore{Score: Score{Adjusted: 300, Difficulty: DifficultyEasy}})
	hard := Recognition(NormalizedScore{Score: Score{Adjusted: 300, Difficulty: DifficultyHard}})
	assert.Equal(t, "gold", easy.Tier)
	assert.Equal(t, "gold", hard.Tier)
	assert.NotEqual(t, easy.Title, hard.Title)
}

func TestOverall(t *testing.T) {
	scores := []Score{
		ScoreHabit(uuid.New(), 10, 15, 20, DifficultyHard), // raw 215 adjusted 430
		ScoreHabit(uuid.New(), 4, 4, 10, DifficultyEasy),   // raw 80 adjusted 80
	}

	o := Overall(scores)
	assert.Equal(t, 295, o.TotalRaw)
	assert.Equal(t, 510, o.TotalAdjusted)
	assert.Equal(t, 1.5, o.AvgMultiplier)
	assert.Equal(t, 1, o.HardHabitCount)
	assert.Equal(t, 561, o.Final) // round(510 * 1.1)
	assert.Equal(t, "Champion", o.Title)
}

func TestOverallLadder(t *testing.T) {
	mk := func(adjusted int) []Score {
		return []Score{{Raw: adjusted, Adjusted: adjusted, Multiplier: 1.0, Difficulty: DifficultyEasy}}
	}

	assert.Equal(t, "Novice", Overall(mk(100)).Title)
	assert.Equal(t, "Achiever", Overall(mk(200)).Title)
	assert.Equal(t, "Champion", Overall(mk(500)).Title)
	assert.Equal(t, "Master", Overall(mk(1000)).Title)
	assert.Equal(t, "Grandmaster", Overall(mk(2500)).Title)
}

func TestOverallEmpty(t *testing.T) {
	o := Overall(nil)
	assert.Zero(t, o.Final)
	assert.Zero(t, o.AvgMultiplier)
	assert.Equal(t, "Novice", o.Title)
}
