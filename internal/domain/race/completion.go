package race

import (
	"fmt"
	"time"
)

// IsStageCompleted is the single rule for whether a stage has run: it carries
// a results list, even an empty one.
func IsStageCompleted(stage Stage) bool {
	return stage.Results != nil
}

// LikelyCompleted extends IsStageCompleted for stages whose results were never
// loaded. It is a heuristic: a stage dated on or before today in the race year
// counts as run, and so does one with a recorded winner speed or finish type.
func LikelyCompleted(stage Stage, year int, now time.Time) bool {
	if IsStageCompleted(stage) {
		return true
	}
	if year > 0 && stage.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", fmt.Sprintf("%04d-%s", year, stage.Date), now.Location())
		if err == nil {
			return !date.After(now)
		}
	}
	return stage.AvgSpeedWinner != nil || stage.WonHow != ""
}
