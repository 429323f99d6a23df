package stats

import (
	"context"
	"math"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
)

// Stats are the dashboard counters over the current invitation set.
type Stats struct {
	Total            int `json:"total"`
	Confirmed        int `json:"confirmed"`
	Pending          int `json:"pending"`
	Declined         int `json:"declined"`
	ConfirmedTotal   int `json:"confirmedTotal"`
	ConfirmationRate int `json:"confirmationRate"`
}

// ComputeStats counts records in a single pass. Any status other than confirmed or
// declined counts as pending. The rate is a rounded percentage of invitations (not
// seats) that confirmed.
func ComputeStats(records []domain.Invitation) Stats {
	var s Stats
	for _, r := range records {
		s.Total++
		switch r.Status {
		case domain.StatusConfirmed:
			s.Confirmed++
			s.ConfirmedTotal += r.ConfirmedGuests
		case domain.StatusDeclined:
			s.Declined++
		default:
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.ConfirmationRate = int(math.Round(float64(s.Confirmed) / float64(s.Total) * 100))
	}
	return s
}

// Service recomputes stats from the store on every call.
type Service struct {
	Store *store.InvitationStore
}

func (s *Service) Compute(ctx context.Context) (Stats, error) {
	records, err := s.Store.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}
