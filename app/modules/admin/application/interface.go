package adminservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
)

// Service builds the admin dashboard.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	// EventsChart renders events per status as a PNG bar chart.
	EventsChart(ctx context.Context) ([]byte, error)
}

// ClubCounter is satisfied by the club service.
type ClubCounter interface {
	CountClubs(ctx context.Context) (clubdb.ClubCounts, error)
}

// EventCounter is satisfied by the event service.
type EventCounter interface {
	CountEventsByStatus(ctx context.Context) ([]eventdb.StatusCount, error)
	CountVenues(ctx context.Context) (int, error)
	CountActiveRegistrations(ctx context.Context) (int, error)
}

// StudentCounter counts registered students.
type StudentCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

// StudentCounterFunc adapts a function to StudentCounter.
type StudentCounterFunc func(ctx context.Context) (int, error)

func (f StudentCounterFunc) CountStudents(ctx context.Context) (int, error) { return f(ctx) }

type EventStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Stats is the dashboard payload.
type Stats struct {
	Clubs               clubdb.ClubCounts `json:"clubs"`
	Events              EventStats        `json:"events"`
	Students            int               `json:"students"`
	Venues              int               `json:"venues"`
	ActiveRegistrations int               `json:"active_registrations"`
}
