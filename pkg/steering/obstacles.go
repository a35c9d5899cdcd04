package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

func inSphere(p, center r3.Vec, radius float64) bool {
	return geometry.DistanceSquared(p, center) <= radius*radius
}

// closestObstacle returns the obstacle nearest to position among those whose
// sphere contains ahead or halfAhead. The scan is exhaustive.
func closestObstacle(position, ahead, halfAhead r3.Vec, obstacles []Obstacle) (Obstacle, bool) {
	var (
		closest  Obstacle
		found    bool
		bestDist float64
	)
	for _, o := range obstacles {
		if !inSphere(ahead, o.Position, o.Radius) && !inSphere(halfAhead, o.Position, o.Radius) {
			continue
		}
		d := geometry.DistanceSquared(position, o.Position)
		if !found || d < bestDist {
			closest, bestDist, found = o, d, true
		}
	}
	return closest, found
}

// AvoidObstacles keeps a look-ahead segment in front of the agent free of obstacles.
// The most threatening obstacle is the one closest to the agent whose sphere holds
// the look-ahead point or its midpoint; the force pushes the look-ahead point out
// of it with magnitude maxAvoidForce.
//
// Unlike most behaviors this never reports "no force": with nothing in the way it
// returns the zero vector.
func AvoidObstacles(position, velocity r3.Vec, obstacles []Obstacle, maxSpeed, maxAvoidForce, fixedDistance float64) r3.Vec {
	offset := lookAhead(velocity, maxSpeed, fixedDistance)
	ahead := r3.Add(position, offset)
	halfAhead := r3.Add(position, r3.Scale(0.5, offset))

	obstacle, ok := closestObstacle(position, ahead, halfAhead, obstacles)
	if !ok {
		return geometry.Zero
	}
	return geometry.WithLength(r3.Sub(ahead, obstacle.Position), maxAvoidForce)
}
