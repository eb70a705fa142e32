package service

import (
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
)

// GridService renders the active timetable. Pure reads over session state;
// all layout rules live in the grid package.
type GridService interface {
	// Grid returns the render-ready matrix for one filter selection.
	Grid(filter model.FilterTriple) dto.GridResponse
	// Overview returns the all-sections grid.
	Overview() dto.OverviewResponse
}

type gridService struct {
	session   *session.Manager
	overrides *grid.OverrideSet
}

// NewGridService creates the grid service.
func NewGridService(sess *session.Manager, overrides *grid.OverrideSet) GridService {
	return &gridService{session: sess, overrides: overrides}
}

func (s *gridService) Grid(filter model.FilterTriple) dto.GridResponse {
	slots := s.session.ActiveTimetable()
	return dto.GridResponse{
		Filter: filter,
		View:   grid.Build(slots, filter, s.overrides),
	}
}

func (s *gridService) Overview() dto.OverviewResponse {
	slots := s.session.ActiveTimetable()
	return dto.OverviewResponse{Days: grid.BuildOverview(slots, s.overrides)}
}
