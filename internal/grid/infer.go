package grid

import (
	"strings"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// InferType resolves a slot's session type. An explicit type always wins;
// the subject-name heuristic is a last resort for old data generated before
// the type field existed.
func InferType(s model.Slot) model.SessionType {
	if s.Type != "" {
		return s.Type
	}
	subject := strings.ToLower(s.Subject)
	switch {
	case subject == "":
		return model.SessionLecture
	case strings.Contains(subject, "lab"):
		return model.SessionLab
	case strings.Contains(subject, "tutorial"):
		return model.SessionTutorial
	case strings.Contains(subject, "seminar"):
		return model.SessionSeminar
	case strings.Contains(subject, "club"):
		return model.SessionClub
	case strings.Contains(subject, "break") || strings.Contains(subject, "lunch"):
		return model.SessionBreak
	default:
		return model.SessionLecture
	}
}
