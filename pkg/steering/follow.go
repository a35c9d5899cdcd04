package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// NearestOnPath projects p on every segment of the closed path and returns the
// nearest projection with its distance. ok is false for an empty path.
func NearestOnPath(p r3.Vec, path *Path) (point r3.Vec, distance float64, ok bool) {
	if path == nil || len(path.Points) == 0 {
		return geometry.Zero, 0, false
	}
	best := math.Inf(1)
	n := len(path.Points)
	for i, current := range path.Points {
		next := path.Points[(i+1)%n]
		normal := geometry.ProjectOnSegment(p, current, next)
		if d := geometry.Distance(p, normal); d < best {
			best, point = d, normal
		}
	}
	return point, best, true
}

// FollowPath predicts where the agent is heading and, when that prediction is
// farther than path.Radius from the path spine, seeks the nearest point on it.
// An agent inside the corridor gets no force.
func FollowPath(position, velocity r3.Vec, path *Path, maxSpeed, fixedDistance float64) (r3.Vec, bool) {
	predicted := PredictPosition(position, velocity, maxSpeed, fixedDistance)
	target, distance, ok := NearestOnPath(predicted, path)
	if !ok || distance <= path.Radius {
		return geometry.Zero, false
	}
	return Seek(position, target, velocity, maxSpeed), true
}

func alignWithField(field FlowField, sample, velocity r3.Vec, maxSpeed float64) (r3.Vec, bool) {
	if field == nil {
		return geometry.Zero, false
	}
	direction, ok := field.Lookup(sample)
	if !ok || r3.Norm2(direction) < geometry.Epsilon*geometry.Epsilon {
		return geometry.Zero, false
	}
	return r3.Sub(geometry.WithLength(direction, maxSpeed), velocity), true
}

// FollowFlowFieldSimple samples the field where the agent stands.
func FollowFlowFieldSimple(position, velocity r3.Vec, field FlowField, maxSpeed float64) (r3.Vec, bool) {
	return alignWithField(field, position, velocity, maxSpeed)
}

// FollowFlowField samples the field at the agent's predicted position and steers
// its velocity towards the local flow direction.
func FollowFlowField(position, velocity r3.Vec, field FlowField, maxSpeed, fixedDistance float64) (r3.Vec, bool) {
	return alignWithField(field, PredictPosition(position, velocity, maxSpeed, fixedDistance), velocity, maxSpeed)
}

// leaderOffsets returns the points distance ahead of and behind the leader along its heading.
func leaderOffsets(leaderPosition, leaderVelocity r3.Vec, distance float64) (ahead, behind r3.Vec) {
	offset := geometry.WithLength(leaderVelocity, distance)
	return r3.Add(leaderPosition, offset), r3.Sub(leaderPosition, offset)
}

// FollowLeaderSimple arrives at a point distance units behind the leader.
func FollowLeaderSimple(position, velocity r3.Vec, leader Agent, maxSpeed, distance, radius float64) (r3.Vec, bool) {
	if leader == nil {
		return geometry.Zero, false
	}
	leaderPosition, leaderVelocity := leader.Kinematics()
	_, behind := leaderOffsets(leaderPosition, leaderVelocity, distance)
	return Arrive(position, behind, velocity, maxSpeed, radius), true
}

// FollowLeader is FollowLeaderSimple plus getting out of the leader's way: when the
// follower, or the point ahead of the leader, is within radius of the leader, an
// evasion term is added. Each term has its own scale. Pair it with a separation
// behavior so followers don't crowd each other.
func FollowLeader(position, velocity r3.Vec, leader Agent, maxSpeed, distance, radius, evadeScale, arriveScale float64) (r3.Vec, bool) {
	if leader == nil {
		return geometry.Zero, false
	}
	leaderPosition, leaderVelocity := leader.Kinematics()
	ahead, behind := leaderOffsets(leaderPosition, leaderVelocity, distance)

	steering := r3.Scale(arriveScale, Arrive(position, behind, velocity, maxSpeed, radius))
	if inSphere(position, leaderPosition, radius) || inSphere(ahead, leaderPosition, radius) {
		evade := Evade(position, leaderPosition, velocity, leaderVelocity, maxSpeed)
		steering = r3.Add(steering, r3.Scale(evadeScale, evade))
	}
	return steering, true
}
