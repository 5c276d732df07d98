package domain

import (
	"math"
	"time"
)

// OptionCount is the number of answer options on every question.
const OptionCount = 4

// WordEntry is one vocabulary pair supplied by a word store.
type WordEntry struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	Category     string `json:"category"`
	PhoneticHint string `json:"phoneticHint,omitempty"`
	AudioRef     string `json:"audioRef,omitempty"`
}

// Question is a single multiple-choice item. Options holds OptionCount
// distinct strings and exactly one of them matches CorrectAnswer.
type Question struct {
	Prompt        string   `json:"prompt"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Category      string   `json:"category"`
	PhoneticHint  string   `json:"phoneticHint,omitempty"`
}

// IsCorrect reports whether answer matches the question's correct answer.
func (q Question) IsCorrect(answer string) bool {
	return IsCorrect(answer, q.CorrectAnswer)
}

// Difficulty is a named tier restricting the quiz to the MaxWords most
// frequent entries of the dictionary.
type Difficulty struct {
	Name        string
	DisplayName string
	MaxWords    int
}

var (
	Beginner     = Difficulty{Name: "BEGINNER", DisplayName: "Beginner", MaxWords: 3000}
	Intermediate = Difficulty{Name: "INTERMEDIATE", DisplayName: "Intermediate", MaxWords: 10000}
	Advanced     = Difficulty{Name: "ADVANCED", DisplayName: "Advanced", MaxWords: 20000}
	All          = Difficulty{Name: "ALL", DisplayName: "All", MaxWords: math.MaxInt}
)

// Difficulties lists every tier from the narrowest to the unrestricted one.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced, All}
}

// ParseDifficulty resolves a tier by its name and falls back to All.
func ParseDifficulty(name string) Difficulty {
	if d, ok := LookupDifficulty(name); ok {
		return d
	}
	return All
}

// LookupDifficulty resolves a tier by its exact name.
func LookupDifficulty(name string) (Difficulty, bool) {
	for _, d := range Difficulties() {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}

// Unrestricted reports whether the tier keeps the whole dictionary.
func (d Difficulty) Unrestricted() bool {
	return d.MaxWords == math.MaxInt
}

func (d Difficulty) String() string {
	return d.Name
}

// HighScoreEntry is one completed quiz in the ranked history.
type HighScoreEntry struct {
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Timestamp     int64  `json:"timestamp"` // unix millis
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

// Percentage is the floored share of correct answers.
func (e HighScoreEntry) Percentage() int {
	return Percentage(e.Score, e.Total)
}

// FormattedDate renders the entry timestamp in local time.
func (e HighScoreEntry) FormattedDate() string {
	return time.UnixMilli(e.Timestamp).Format("Jan 02, 2006 15:04")
}

// Percentage returns floor(score*100/total), or 0 for an empty quiz.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return score * 100 / total
}

// Stats summarises the scalar score counters.
type Stats struct {
	BestScore    int     `json:"bestScore"`
	GamesPlayed  int     `json:"gamesPlayed"`
	TotalScore   int     `json:"totalScore"`
	AverageScore float64 `json:"averageScore"`
}

// PerformanceMessage is the feedback line shown for a final percentage.
func PerformanceMessage(percentage int) string {
	switch {
	case percentage >= 90:
		return "Outstanding! You're mastering the vocabulary!"
	case percentage >= 75:
		return "Excellent work! Keep practicing!"
	case percentage >= 60:
		return "Good job! You're making great progress!"
	case percentage >= 50:
		return "Not bad! Keep studying to improve!"
	default:
		return "Keep practicing! You'll get better!"
	}
}
