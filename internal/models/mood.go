package models

import (
	"math"
	"strconv"
	"strings"
)

// NeutralMoodScore is the midpoint of the five-point scale; unknown labels score here.
const NeutralMoodScore = 3

// moodScores maps every accepted mood tag to the five-point scale.
// The emoji tags are the ones offered by the journal entry form.
var moodScores = map[string]int{
	"very sad":   1,
	"sad":        2,
	"neutral":    3,
	"happy":      4,
	"very happy": 5,

	"😡":  1,
	"😔":  2,
	"😱":  2,
	"😴":  3,
	"😊":  4,
	"❤️": 5,
	"❤":  5,
}

// MoodScore returns the ordinal score for a mood label.
func MoodScore(mood string) int {
	if score, ok := moodScores[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return score
	}
	return NeutralMoodScore
}

// MoodAverage is a mean mood score rounded to one decimal place.
// It encodes as a JSON number that always carries one decimal (4.0, 4.5).
type MoodAverage float64

// NewMoodAverage rounds half away from zero to one decimal.
func NewMoodAverage(v float64) MoodAverage {
	return MoodAverage(math.Round(v*10) / 10)
}

func (m MoodAverage) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 1, 64)), nil
}
