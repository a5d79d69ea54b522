package intelligence

import (
	"context"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/eventbrite"
	"github.com/sliceops-ai/sliceops-backend/pkg/predicthq"
	"github.com/sliceops-ai/sliceops-backend/pkg/seatgeek"
	"github.com/sliceops-ai/sliceops-backend/pkg/ticketmaster"
)

// The event clients all normalize to the same listing shape, so each source
// is a thin rename into RawEvent tagged with the provider's rate class.

func TicketmasterSource(client *ticketmaster.Client) EventSource {
	return EventSource{
		Name:  "ticketmaster",
		Class: ClassTicketing,
		Search: func(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]RawEvent, error) {
			listings, err := client.Search(ctx, lat, lon, radiusMiles, from, to)
			if err != nil {
				return nil, err
			}
			events := make([]RawEvent, 0, len(listings))
			for _, l := range listings {
				events = append(events, RawEvent{
					Name:     l.Name,
					Venue:    l.Venue,
					Date:     l.Start,
					Capacity: l.Capacity,
					Type:     l.Type,
					Source:   "ticketmaster",
				})
			}
			return events, nil
		},
	}
}

func SeatGeekSource(client *seatgeek.Client) EventSource {
	return EventSource{
		Name:  "seatgeek",
		Class: ClassTicketing,
		Search: func(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]RawEvent, error) {
			listings, err := client.Search(ctx, lat, lon, radiusMiles, from, to)
			if err != nil {
				return nil, err
			}
			events := make([]RawEvent, 0, len(listings))
			for _, l := range listings {
				events = append(events, RawEvent{
					Name:     l.Name,
					Venue:    l.Venue,
					Date:     l.Start,
					Capacity: l.Capacity,
					Type:     l.Type,
					Source:   "seatgeek",
				})
			}
			return events, nil
		},
	}
}

func PredictHQSource(client *predicthq.Client) EventSource {
	return EventSource{
		Name:  "predicthq",
		Class: ClassGeneral,
		Search: func(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]RawEvent, error) {
			listings, err := client.Search(ctx, lat, lon, radiusMiles, from, to)
			if err != nil {
				return nil, err
			}
			events := make([]RawEvent, 0, len(listings))
			for _, l := range listings {
				events = append(events, RawEvent{
					Name:     l.Name,
					Venue:    l.Venue,
					Date:     l.Start,
					Capacity: l.Capacity,
					Type:     l.Type,
					Source:   "predicthq",
				})
			}
			return events, nil
		},
	}
}

func EventbriteSource(client *eventbrite.Client) EventSource {
	return EventSource{
		Name:  "eventbrite",
		Class: ClassTicketing,
		Search: func(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]RawEvent, error) {
			listings, err := client.Search(ctx, lat, lon, radiusMiles, from, to)
			if err != nil {
				return nil, err
			}
			events := make([]RawEvent, 0, len(listings))
			for _, l := range listings {
				events = append(events, RawEvent{
					Name:     l.Name,
					Venue:    l.Venue,
					Date:     l.Start,
					Capacity: l.Capacity,
					Type:     l.Type,
					Source:   "eventbrite",
				})
			}
			return events, nil
		},
	}
}
