package workbook

import (
	"github.com/glossa-app/glossa/internal/tutor"
)

// OpenFailedMsg is sent when an exercise could not be loaded from content.
type OpenFailedMsg struct {
	ExerciseID string
	Err        error
}

// saveDoneMsg reports the outcome of a background progress save.
type saveDoneMsg struct {
	Err error
}

// explainReadyMsg carries a tutor explanation for one question.
type explainReadyMsg struct {
	DisplayID   string
	Explanation *tutor.Explanation
	Err         error
}
