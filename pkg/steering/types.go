// Package steering implements Craig Reynolds' steering behaviors
// ("Steering Behaviors For Autonomous Characters", GDC 1999).
//
// Every behavior is a plain function of the values it needs. The ones that can
// have nothing to say on a given tick return (force, ok) where ok == false means
// "no force": the caller must skip it, not add a zero vector.
package steering

import "gonum.org/v1/gonum/spatial/r3"

// Agent is anything group and leader behaviors can read kinematics from.
// Implementations are read live, so values reflect whatever the owner last wrote.
type Agent interface {
	Kinematics() (position, velocity r3.Vec)
}

// Path is a closed polyline: the last point connects back to the first.
// Radius is the corridor half-width inside which an agent counts as on the path.
type Path struct {
	Points []r3.Vec
	Radius float64
}

// Obstacle is a sphere agents steer around.
type Obstacle struct {
	Position r3.Vec
	Radius   float64
}

// FlowField gives a desired direction at a point, or false where it is undefined.
type FlowField interface {
	Lookup(position r3.Vec) (direction r3.Vec, ok bool)
}

// FlowFieldFunc adapts a plain function to the FlowField interface.
type FlowFieldFunc func(position r3.Vec) (r3.Vec, bool)

// Lookup calls f(position).
func (f FlowFieldFunc) Lookup(position r3.Vec) (r3.Vec, bool) {
	return f(position)
}
