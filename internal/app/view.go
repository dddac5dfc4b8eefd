package app

import (
	"context"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// View returns the read-only assignment view: every date with its slots in
// tee-off order, each carrying the occupant list and derived occupancy.
// The printable tee-sheet layer consumes this verbatim.
func (s *Service) View(_ context.Context) ([]model.DayView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	days := make([]model.DayView, 0, len(s.catalog.Dates()))
	for _, date := range s.catalog.Dates() {
		day := model.DayView{Date: date}
		for _, slot := range s.catalog.SlotsOn(date) {
			sv := model.SlotView{Slot: slot, Occupancy: s.led.Occupancy(slot.ID)}
			for _, pid := range s.led.ParticipantsOn(slot.ID) {
				occ := model.Occupant{ID: pid, Name: pid}
				if p, ok := s.byID[pid]; ok {
					occ.Name = p.Name
					occ.Team = p.Team
					occ.Gender = p.Gender
				}
				sv.Occupants = append(sv.Occupants, occ)
			}
			day.Slots = append(day.Slots, sv)
		}
		days = append(days, day)
	}
	return days, nil
}
