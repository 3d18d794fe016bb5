package views

import (
	"fmt"
	"math"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/dustin/go-humanize"
)

// PreviewLimit is how many exercise names a card shows before "+N more".
const PreviewLimit = 3

// WorkoutCard is the list-view rendering of a workout.
type WorkoutCard struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Date          string   `json:"date"`
	RelativeDate  string   `json:"relative_date"`
	Duration      string   `json:"duration,omitempty"`
	ExerciseCount int      `json:"exercise_count"`
	SetCount      int      `json:"set_count"`
	Summary       string   `json:"summary"`
	Preview       []string `json:"preview"`
	More          string   `json:"more,omitempty"`
}

// TemplateCard is the list-view rendering of a template.
type TemplateCard struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	ExerciseCount int      `json:"exercise_count"`
	SetCount      int      `json:"set_count"`
	Summary       string   `json:"summary"`
	Preview       []string `json:"preview"`
	More          string   `json:"more,omitempty"`
}

// FormatDate renders an absolute calendar date.
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// RelativeDate renders t relative to now by calendar day: "Today",
// "Yesterday", or a humanized distance such as "3 days ago".
func RelativeDate(t, now time.Time) string {
	t = t.In(now.Location())
	ty, tm, td := t.Date()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())

	switch days := int(math.Round(today.Sub(day).Hours() / 24)); {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return humanize.RelTime(day, today, "ago", "from now")
	}
}

// Preview returns up to PreviewLimit names and a "+N more" suffix for the rest.
func Preview(names []string) ([]string, string) {
	if len(names) <= PreviewLimit {
		return append([]string{}, names...), ""
	}
	return append([]string{}, names[:PreviewLimit]...), fmt.Sprintf("+%d more", len(names)-PreviewLimit)
}

func exerciseSummary(n int, empty string) string {
	switch n {
	case 0:
		return empty
	case 1:
		return "1 exercise"
	default:
		return fmt.Sprintf("%d exercises", n)
	}
}

// Workout builds the card for w.
func Workout(w models.Workout, now time.Time) WorkoutCard {
	preview, more := Preview(w.ExerciseNames())
	c := WorkoutCard{
		ID:            w.ID,
		Name:          w.Name,
		Date:          FormatDate(w.Date),
		RelativeDate:  RelativeDate(w.Date, now),
		ExerciseCount: len(w.Exercises),
		SetCount:      w.SetCount(),
		Summary:       exerciseSummary(len(w.Exercises), "No exercises recorded."),
		Preview:       preview,
		More:          more,
	}
	if w.Duration != nil {
		c.Duration = fmt.Sprintf("%d mins", *w.Duration)
	}
	return c
}

// Template builds the card for t.
func Template(t models.WorkoutTemplate) TemplateCard {
	preview, more := Preview(t.ExerciseNames())
	return TemplateCard{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		ExerciseCount: len(t.Exercises),
		SetCount:      t.SetCount(),
		Summary:       exerciseSummary(len(t.Exercises), "No exercises in this template."),
		Preview:       preview,
		More:          more,
	}
}

// Workouts builds cards for ws in order.
func Workouts(ws []models.Workout, now time.Time) []WorkoutCard {
	cards := make([]WorkoutCard, len(ws))
	for i, w := range ws {
		cards[i] = Workout(w, now)
	}
	return cards
}

// Templates builds cards for ts in order.
func Templates(ts []models.WorkoutTemplate) []TemplateCard {
	cards := make([]TemplateCard, len(ts))
	for i, t := range ts {
		cards[i] = Template(t)
	}
	return cards
}

// LastPerformance renders the session hint for a recorded performance.
func LastPerformance(p models.Performance) string {
	return fmt.Sprintf("Last: %d reps @ %skg", p.Reps, humanize.Ftoa(p.Weight))
}
