package routing

import (
	"github.com/google/uuid"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
)

// HotelGroup is one hotel's share of a route run, bucketed by service kind
// and priority tier. Groups are immutable once built; the orderer and stop
// builder produce new slices instead of mutating them.
type HotelGroup struct {
	Hotel                  domain.Hotel
	HighPriorityDeliveries []domain.Service
	HighPriorityPickups    []domain.Service
	NormalDeliveries       []domain.Service
	NormalPickups          []domain.Service
}

// HighPriorityCount returns the number of HIGH priority services in the group.
func (g HotelGroup) HighPriorityCount() int {
	return len(g.HighPriorityDeliveries) + len(g.HighPriorityPickups)
}

// TotalBags sums bag counts across all four buckets.
func (g HotelGroup) TotalBags() int {
	total := 0
	for _, bucket := range [][]domain.Service{
		g.HighPriorityDeliveries, g.HighPriorityPickups, g.NormalDeliveries, g.NormalPickups,
	} {
		for _, svc := range bucket {
			total += svc.BagCount
		}
	}
	return total
}

// Score ranks the group for visit ordering. High-priority services dominate,
// deliveries outweigh pickups, and bag volume breaks the remaining ties.
func (g HotelGroup) Score() int {
	return 100*g.HighPriorityCount() +
		10*len(g.NormalDeliveries) +
		5*len(g.NormalPickups) +
		2*g.TotalBags()
}

// DurationMinutes estimates the time spent at the hotel: a fixed base plus a
// per-service handling cost that grows with bag count.
func (g HotelGroup) DurationMinutes() int {
	minutes := 15
	for _, bucket := range [][]domain.Service{
		g.HighPriorityDeliveries, g.HighPriorityPickups, g.NormalDeliveries, g.NormalPickups,
	} {
		for _, svc := range bucket {
			minutes += 10 + svc.BagCount
		}
	}
	return minutes
}

// GroupByHotel partitions eligible services into per-hotel groups. A HIGH
// priority service lands in the high bucket of its kind; MEDIUM and NORMAL
// land in the corresponding normal bucket.
//
// The returned slice preserves the first-appearance order of hotels in the
// input — the orderer relies on that insertion order as its stable tie-break.
// Services whose hotel is missing from the lookup are dropped; the eligibility
// query joins on hotels, so a miss can only happen in hand-built test input.
func GroupByHotel(services []domain.Service, hotels map[uuid.UUID]domain.Hotel) []HotelGroup {
	groups := make([]HotelGroup, 0, len(hotels))
	index := make(map[uuid.UUID]int, len(hotels))

	for _, svc := range services {
		hotel, ok := hotels[svc.HotelID]
		if !ok {
			continue
		}

		i, seen := index[svc.HotelID]
		if !seen {
			i = len(groups)
			index[svc.HotelID] = i
			groups = append(groups, HotelGroup{Hotel: hotel})
		}

		g := &groups[i]
		switch {
		case svc.Priority == domain.PriorityHigh && svc.Kind() == domain.KindDelivery:
			g.HighPriorityDeliveries = append(g.HighPriorityDeliveries, svc)
		case svc.Priority == domain.PriorityHigh:
			g.HighPriorityPickups = append(g.HighPriorityPickups, svc)
		case svc.Kind() == domain.KindDelivery:
			g.NormalDeliveries = append(g.NormalDeliveries, svc)
		default:
			g.NormalPickups = append(g.NormalPickups, svc)
		}
	}

	return groups
}
