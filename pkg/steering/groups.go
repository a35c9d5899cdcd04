package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// forEachNeighbor calls fn for every agent strictly within maxDistance of position.
// Zero distance (the agent itself, or an exact overlap) never counts.
func forEachNeighbor(position r3.Vec, agents []Agent, maxDistance float64, fn func(offset r3.Vec, distSq float64, neighborPosition, neighborVelocity r3.Vec)) int {
	maxSq := maxDistance * maxDistance
	count := 0
	for _, other := range agents {
		if other == nil {
			continue
		}
		p, v := other.Kinematics()
		offset := r3.Sub(position, p)
		distSq := r3.Norm2(offset)
		if distSq > 0 && distSq < maxSq {
			fn(offset, distSq, p, v)
			count++
		}
	}
	return count
}

// Separate steers away from crowding neighbors. Each neighbor pushes along
// (position - neighbor) weighted by 1/d², so the push is 1/d in magnitude.
func Separate(position, velocity r3.Vec, agents []Agent, maxDistance, maxSpeed float64) (r3.Vec, bool) {
	var away r3.Vec
	n := forEachNeighbor(position, agents, maxDistance, func(offset r3.Vec, distSq float64, _, _ r3.Vec) {
		away = r3.Add(away, r3.Scale(1/distSq, offset))
	})
	if n == 0 {
		return geometry.Zero, false
	}
	return Seek(position, r3.Add(position, away), velocity, maxSpeed), true
}

// Cohere seeks the average position of the neighbors.
func Cohere(position, velocity r3.Vec, agents []Agent, maxDistance, maxSpeed float64) (r3.Vec, bool) {
	var sum r3.Vec
	n := forEachNeighbor(position, agents, maxDistance, func(_ r3.Vec, _ float64, p, _ r3.Vec) {
		sum = r3.Add(sum, p)
	})
	if n == 0 {
		return geometry.Zero, false
	}
	return Seek(position, r3.Scale(1/float64(n), sum), velocity, maxSpeed), true
}

// Align steers towards the neighbors' average heading at full speed.
func Align(position, velocity r3.Vec, agents []Agent, maxDistance, maxSpeed float64) (r3.Vec, bool) {
	var sum r3.Vec
	n := forEachNeighbor(position, agents, maxDistance, func(_ r3.Vec, _ float64, _, v r3.Vec) {
		sum = r3.Add(sum, v)
	})
	if n == 0 {
		return geometry.Zero, false
	}
	desired := geometry.WithLength(r3.Scale(1/float64(n), sum), maxSpeed)
	return r3.Sub(desired, velocity), true
}

// Flock is the unweighted sum of Separate, Cohere and Align. Weighting belongs to
// whoever binds the behavior. It reports no force only when all three do.
func Flock(position, velocity r3.Vec, agents []Agent, maxDistance, maxSpeed float64) (r3.Vec, bool) {
	var (
		steering    r3.Vec
		contributed bool
	)
	for _, rule := range []func(r3.Vec, r3.Vec, []Agent, float64, float64) (r3.Vec, bool){Separate, Cohere, Align} {
		if force, ok := rule(position, velocity, agents, maxDistance, maxSpeed); ok {
			steering = r3.Add(steering, force)
			contributed = true
		}
	}
	return steering, contributed
}
