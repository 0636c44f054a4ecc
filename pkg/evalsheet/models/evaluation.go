package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/montanaflynn/stats"
)

var validate = validator.New()

// Evaluation is the recorded assessment of one trainee.
// A module is assessed either with raw scores (0-20) or with ratings on the 1/3/5 scale.
type Evaluation struct {
	// Trainee is the trainee's name as written on the roster.
	Trainee string `json:"trainee" validate:"required"`
	// Scores maps criterion to a raw numeric score.
	Scores map[string]float64 `json:"scores,omitempty" validate:"omitempty,dive,gte=0,lte=20"`
	// Ratings maps criterion to a rating of 1, 3 or 5.
	Ratings map[string]int `json:"ratings,omitempty" validate:"omitempty,dive,oneof=1 3 5"`
	// Remarks is free text printed in reports.
	Remarks string `json:"remarks,omitempty"`
}

// Validate checks the trainee name and the score/rating ranges.
func (e Evaluation) Validate() error {
	e.Trainee = strings.TrimSpace(e.Trainee)
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid evaluation for %q: %s", e.Trainee, strings.Join(msgs, "; "))
}

// Value returns the recorded value for a criterion, preferring the raw score.
func (e Evaluation) Value(criterion string) (float64, bool) {
	if v, ok := e.Scores[criterion]; ok {
		return v, true
	}
	if v, ok := e.Ratings[criterion]; ok {
		return float64(v), true
	}
	return 0, false
}

// Criteria returns the criteria with a recorded value, sorted by name.
func (e Evaluation) Criteria() []string {
	seen := make(map[string]bool, len(e.Scores)+len(e.Ratings))
	var out []string
	for k := range e.Scores {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range e.Ratings {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Average returns the mean of the recorded values over criteria, rounded to two decimals.
// When criteria is empty every recorded value counts. ok is false when nothing was recorded.
func (e Evaluation) Average(criteria []string) (avg float64, ok bool) {
	if len(criteria) == 0 {
		criteria = e.Criteria()
	}
	var data stats.Float64Data
	for _, c := range criteria {
		if v, found := e.Value(c); found {
			data = append(data, v)
		}
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, false
	}
	rounded, err := stats.Round(mean, 2)
	if err != nil {
		return mean, true
	}
	return rounded, true
}
