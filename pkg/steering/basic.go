package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// desired_velocity = normalize(target - position) * max_speed
// steering = desired_velocity - velocity

// Seek steers the agent straight towards target.
// When target == position the desired velocity is zero and the result only brakes.
func Seek(position, target, velocity r3.Vec, maxSpeed float64) r3.Vec {
	desired := geometry.WithLength(r3.Sub(target, position), maxSpeed)
	return r3.Sub(desired, velocity)
}

// Flee is the exact negation of Seek.
func Flee(position, target, velocity r3.Vec, maxSpeed float64) r3.Vec {
	return r3.Scale(-1, Seek(position, target, velocity, maxSpeed))
}

// predictPosition extrapolates a moving target T = D/maxSpeed units of time ahead,
// D being the distance between pursuer and quarry.
func predictPosition(position, target, targetVelocity r3.Vec, maxSpeed float64) r3.Vec {
	if maxSpeed <= 0 {
		return target
	}
	t := geometry.Distance(position, target) / maxSpeed
	return r3.Add(target, r3.Scale(t, targetVelocity))
}

// Pursue seeks the predicted future position of a moving target.
func Pursue(position, target, velocity, targetVelocity r3.Vec, maxSpeed float64) r3.Vec {
	return Seek(position, predictPosition(position, target, targetVelocity, maxSpeed), velocity, maxSpeed)
}

// Evade flees the predicted future position of a moving target.
func Evade(position, target, velocity, targetVelocity r3.Vec, maxSpeed float64) r3.Vec {
	return Flee(position, predictPosition(position, target, targetVelocity, maxSpeed), velocity, maxSpeed)
}

// Arrive behaves like Seek far from the target and ramps the desired speed down
// linearly once inside the slowing radius:
//
//	speed = min(maxSpeed * distance/radius, maxSpeed)
//
// A non-positive radius disables the ramp. At distance 0 the desired velocity is
// zero, so the force simply cancels the current velocity.
func Arrive(position, target, velocity r3.Vec, maxSpeed, radius float64) r3.Vec {
	offset := r3.Sub(target, position)
	distance := r3.Norm(offset)

	speed := maxSpeed
	if radius > 0 && distance < radius {
		speed = maxSpeed * distance / radius
	}

	desired := geometry.WithLength(offset, speed)
	return r3.Sub(desired, velocity)
}

// lookAhead returns the offset from the agent to its predicted position: along the
// heading, fixedDistance long when positive, |velocity|/maxSpeed otherwise.
func lookAhead(velocity r3.Vec, maxSpeed, fixedDistance float64) r3.Vec {
	distance := fixedDistance
	if distance <= 0 {
		if maxSpeed <= 0 {
			return geometry.Zero
		}
		distance = r3.Norm(velocity) / maxSpeed
	}
	return geometry.WithLength(velocity, distance)
}

// PredictPosition is the look-ahead point used by path, flow and bounds behaviors.
func PredictPosition(position, velocity r3.Vec, maxSpeed, fixedDistance float64) r3.Vec {
	return r3.Add(position, lookAhead(velocity, maxSpeed, fixedDistance))
}
