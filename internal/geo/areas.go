package geo

import "strings"

// AreaPub is the slice of a pub record the area merge needs.
type AreaPub struct {
	Area string
	At   Point
}

// MergeSmallAreas folds areas with fewer than minPubs pubs into a nearby
// larger area and returns the rename map (small area -> target area).
//
// Each pub in a small area votes for the large area containing its nearest
// pub; the area with the most votes wins. When maxRangeKM is positive, a
// merge is skipped if any voting pub sits further than that from its nearest
// large-area pub. Pubs with a blank area are ignored.
func MergeSmallAreas(pubs []AreaPub, minPubs int, maxRangeKM float64) map[string]string {
	groups := make(map[string][]AreaPub)
	for _, p := range pubs {
		area := strings.TrimSpace(p.Area)
		if area == "" {
			continue
		}
		groups[area] = append(groups[area], p)
	}

	var large []AreaPub
	for _, members := range groups {
		if len(members) >= minPubs {
			large = append(large, members...)
		}
	}
	if len(large) == 0 {
		return nil
	}

	renames := make(map[string]string)
	for area, members := range groups {
		if len(members) >= minPubs {
			continue
		}
		votes := make(map[string]int)
		worst := 0.0
		for _, p := range members {
			target, dist, ok := nearestForeign(p, large, area)
			if !ok {
				continue
			}
			votes[target]++
			if dist > worst {
				worst = dist
			}
		}
		if len(votes) == 0 {
			continue
		}
		if maxRangeKM > 0 && worst > maxRangeKM {
			continue
		}
		best := ""
		for target, n := range votes {
			if best == "" || n > votes[best] || (n == votes[best] && target < best) {
				best = target
			}
		}
		renames[area] = best
	}
	return renames
}

// nearestForeign finds the closest pub outside the given area.
func nearestForeign(p AreaPub, candidates []AreaPub, exclude string) (string, float64, bool) {
	bestArea := ""
	bestDist := 0.0
	found := false
	for _, c := range candidates {
		if strings.TrimSpace(c.Area) == exclude {
			continue
		}
		d := Distance(p.At, c.At)
		if !found || d < bestDist {
			bestArea = strings.TrimSpace(c.Area)
			bestDist = d
			found = true
		}
	}
	return bestArea, bestDist, found
}
