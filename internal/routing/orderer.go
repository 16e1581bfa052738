package routing

import "sort"

// OrderGroups produces the visit order for a route using a priority-first
// nearest-neighbor heuristic.
//
// Groups holding at least one HIGH priority service are visited before all
// others. Within each partition, hotels without coordinates are pushed to the
// back (sorted by score, descending) and hotels with coordinates are walked
// greedily: start at the highest-scoring hotel, then repeatedly hop to the
// closest unvisited hotel by great-circle distance.
//
// This is a heuristic, not a TSP solve. What matters is determinism: equal
// scores and equal distances are always broken by insertion order, so two
// runs over identical input produce identical output.
func OrderGroups(groups []HotelGroup) []HotelGroup {
	var urgent, regular []HotelGroup
	for _, g := range groups {
		if g.HighPriorityCount() > 0 {
			urgent = append(urgent, g)
		} else {
			regular = append(regular, g)
		}
	}

	ordered := make([]HotelGroup, 0, len(groups))
	ordered = append(ordered, orderPartition(urgent)...)
	ordered = append(ordered, orderPartition(regular)...)
	return ordered
}

// orderPartition orders one priority partition: nearest-neighbor walk over
// the groups with coordinates, then the coordinate-less groups by score.
func orderPartition(groups []HotelGroup) []HotelGroup {
	var located, unlocated []HotelGroup
	for _, g := range groups {
		if g.Hotel.HasCoordinates() {
			located = append(located, g)
		} else {
			unlocated = append(unlocated, g)
		}
	}

	// SliceStable keeps insertion order among equal scores.
	sort.SliceStable(unlocated, func(i, j int) bool {
		return unlocated[i].Score() > unlocated[j].Score()
	})

	ordered := nearestNeighborWalk(located)
	return append(ordered, unlocated...)
}

// nearestNeighborWalk visits every group exactly once, starting from the
// highest-scoring one and greedily moving to the closest unvisited hotel.
// Ties (equal scores at the start, equal distances during the walk) resolve
// to the lowest insertion index.
func nearestNeighborWalk(groups []HotelGroup) []HotelGroup {
	if len(groups) == 0 {
		return nil
	}

	visited := make([]bool, len(groups))

	start := 0
	for i := 1; i < len(groups); i++ {
		if groups[i].Score() > groups[start].Score() {
			start = i
		}
	}

	ordered := make([]HotelGroup, 0, len(groups))
	ordered = append(ordered, groups[start])
	visited[start] = true
	current := start

	for len(ordered) < len(groups) {
		next := -1
		best := 0.0
		for i, g := range groups {
			if visited[i] {
				continue
			}
			d := HaversineKm(
				*groups[current].Hotel.Latitude, *groups[current].Hotel.Longitude,
				*g.Hotel.Latitude, *g.Hotel.Longitude,
			)
			// Strict < keeps the earliest index on equal distances.
			if next == -1 || d < best {
				next = i
				best = d
			}
		}

		ordered = append(ordered, groups[next])
		visited[next] = true
		current = next
	}

	return ordered
}
