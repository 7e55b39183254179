package habit

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Difficulty tiers.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultyMultiplier maps a tier to its score multiplier.
func DifficultyMultiplier(difficulty string) float64 {
	switch difficulty {
	case DifficultyMedium:
		return 1.5
	case DifficultyHard:
		return 2.0
	default:
		return 1.0
	}
}

// Score is the per-habit score, a pure function of streak and completion data.
type Score struct {
	GoalID       uuid.UUID `json:"goal_id"`
	Raw          int       `json:"raw_score"`
	Multiplier   float64   `json:"multiplier"`
	Adjusted     int       `json:"adjusted_score"`
	Difficulty   string    `json:"difficulty"`
	StreakLength int       `json:"streak_length"`
}

// ScoreHabit computes the raw and difficulty-adjusted score for one habit.
func ScoreHabit(goalID uuid.UUID, currentStreak, bestStreak, totalCompletions int, difficulty string) Score {
	raw := currentStreak*10 + totalCompletions*2 + bestStreak*5
	multiplier := DifficultyMultiplier(difficulty)
	return Score{
		GoalID:       goalID,
		Raw:          raw,
		Multiplier:   multiplier,
		Adjusted:     int(math.Round(float64(raw) * multiplier)),
		Difficulty:   difficulty,
		StreakLength: currentStreak,
	}
}

// NormalizedScore is a Score placed within its difficulty tier: rank is
// 1-based best-first, percentile is 0..100.
type NormalizedScore struct {
	Score
	Percentile int `json:"percentile"`
	Rank       int `json:"rank"`
}

// Normalize ranks scores within each difficulty tier separately; an easy habit
// is never compared against a hard one. Output is grouped easy, medium, hard,
// best rank first within each group.
func Normalize(scores []Score) []NormalizedScore {
	groups := map[string][]Score{}
	for _, s := range scores {
		groups[s.Difficulty] = append(groups[s.Difficulty], s)
	}

	var out []NormalizedScore
	for _, tier := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		group := groups[tier]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Raw > group[j].Raw })
		n := len(group)
		for i, s := range group {
			percentile := 100
			if n > 1 {
				percentile = int(math.Round(float64(n-1-i) / float64(n-1) * 100))
			}
			out = append(out, NormalizedScore{Score: s, Percentile: percentile, Rank: i + 1})
		}
	}
	return out
}

// RecognitionLevel is the named tier a habit's performance has earned.
type RecognitionLevel struct {
	Tier        string `json:"tier"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var recognitionTiers = []struct {
	tier      string
	threshold float64
	title     string
	hardTitle string
}{
	{"diamond", 1000, "Legendary", "Iron Legend"},
	{"platinum", 500, "Unstoppable", "Relentless"},
	{"gold", 250, "Dedicated", "Grinder"},
	{"silver", 100, "Consistent", "Tough Regular"},
	{"bronze", 50, "Getting Started", "Brave Starter"},
}

func percentileBonus(percentile int) float64 {
	switch {
	case percentile >= 90:
		return 1.2
	case percentile >= 75:
		return 1.1
	default:
		return 1.0
	}
}

// Recognition assigns bronze through diamond from the adjusted score boosted
// by percentile standing. Hard habits reach every tier at 80% of the normal
// threshold.
func Recognition(s NormalizedScore) RecognitionLevel {
	effective := float64(s.Adjusted) * percentileBonus(s.Percentile)
	scale := 1.0
	if s.Difficulty == DifficultyHard {
		scale = 0.8
	}
	for _, t := range recognitionTiers {
		if effective >= t.threshold*scale {
			title := t.title
			desc := "Earned by keeping the habit going"
			if s.Difficulty == DifficultyHard {
				title = t.hardTitle
				desc = "Earned the hard way"
			}
			return RecognitionLevel{Tier: t.tier, Title: title, Description: desc}
		}
	}
	return RecognitionLevel{Tier: "none", Title: "Just Beginning", Description: "Keep completing to earn recognition"}
}

// OverallScore aggregates a user's habits into a single account-level score.
type OverallScore struct {
	TotalRaw       int     `json:"total_raw"`
	TotalAdjusted  int     `json:"total_adjusted"`
	AvgMultiplier  float64 `json:"avg_multiplier"`
	HardHabitCount int     `json:"hard_habit_count"`
	Final          int     `json:"final_score"`
	Title          string  `json:"title"`
}

var overallLadder = []struct {
	threshold int
	title     string
}{
	{2000, "Grandmaster"},
	{1000, "Master"},
	{500, "Champion"},
	{200, "Achiever"},
}

// Overall sums raw and adjusted scores across all habits, averages the
// multiplier, and applies a 1 + 0.1*hardHabitCount bonus before titling.
func Overall(scores []Score) OverallScore {
	var o OverallScore
	var multiplierSum float64
	for _, s := range scores {
		o.TotalRaw += s.Raw
		o.TotalAdjusted += s.Adjusted
		multiplierSum += s.Multiplier
		if s.Difficulty == DifficultyHard {
			o.HardHabitCount++
		}
	}
	if len(scores) > 0 {
		o.AvgMultiplier = multiplierSum / float64(len(scores))
	}
	o.Final = int(math.Round(float64(o.TotalAdjusted) * (1 + 0.1*float64(o.HardHabitCount))))

	o.Title = "Novice"
	for _, l := range overallLadder {
		if o.Final >= l.threshold {
			o.Title = l.title
			break
		}
	}
	return o
}
