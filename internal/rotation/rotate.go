package rotation

import "math/rand"

// DefaultRetryBudget bounds the number of re-insertion attempts.
const DefaultRetryBudget = 100

// Result is a rotated endpoint list.
type Result struct {
	Endpoints []Endpoint `json:"endpoints"`
	// Collisions is the number of adjacent pairs sharing a group.
	Collisions int `json:"collisions"`
}

// Rotate shuffles the endpoints with rng (Fisher-Yates) and then walks the
// shuffled order, swapping forward the first endpoint whose group differs
// from its predecessor whenever two neighbours collide. When only the
// predecessor's group remains, each leftover is re-inserted into an earlier
// gap whose neighbours both differ from it; every attempt spends one unit of
// budget. Whatever cannot be placed is appended and counted as collisions.
func Rotate(endpoints []Endpoint, rng *rand.Rand, budget int) Result {
	order := make([]Endpoint, len(endpoints))
	copy(order, endpoints)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	out := arrange(order, budget)
	return Result{Endpoints: out, Collisions: Collisions(out)}
}

// arrange reorders order in place to separate equal groups and returns the
// result.
func arrange(order []Endpoint, budget int) []Endpoint {
	for i := 1; i < len(order); i++ {
		prev := order[i-1].Group
		if order[i].Group != prev {
			continue
		}

		j := i + 1
		for j < len(order) && order[j].Group == prev {
			j++
		}
		if j < len(order) {
			order[i], order[j] = order[j], order[i]
			continue
		}

		// order[i-1:] is a single group.
		return reinsert(order[:i:i], order[i:], budget)
	}
	return order
}

// reinsert moves the leftovers into gaps of placed and appends the rest.
func reinsert(placed, leftovers []Endpoint, budget int) []Endpoint {
	out := make([]Endpoint, len(placed), len(placed)+len(leftovers))
	copy(out, placed)
	for len(leftovers) > 0 && budget > 0 {
		budget--
		gap := findGap(out, leftovers[0].Group)
		if gap < 0 {
			break
		}
		out = insert(out, gap, leftovers[0])
		leftovers = leftovers[1:]
	}
	return append(out, leftovers...)
}

// Collisions counts adjacent pairs that share a group.
func Collisions(endpoints []Endpoint) int {
	n := 0
	for i := 1; i < len(endpoints); i++ {
		if endpoints[i].Group == endpoints[i-1].Group {
			n++
		}
	}
	return n
}

// MinCollisions is the fewest collisions any ordering of endpoints can have.
func MinCollisions(endpoints []Endpoint) int {
	counts := make(map[string]int)
	largest := 0
	for _, ep := range endpoints {
		counts[ep.Group]++
		largest = max(largest, counts[ep.Group])
	}
	return max(0, 2*largest-len(endpoints)-1)
}

// findGap returns a position p such that inserting at p puts group between
// neighbours of other groups, or -1.
func findGap(out []Endpoint, group string) int {
	for p := 0; p < len(out); p++ {
		if p > 0 && out[p-1].Group == group {
			continue
		}
		if out[p].Group == group {
			continue
		}
		return p
	}
	return -1
}

func insert(out []Endpoint, p int, ep Endpoint) []Endpoint {
	out = append(out, Endpoint{})
	copy(out[p+1:], out[p:])
	out[p] = ep
	return out
}
