package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.schema.json
var scenarioSchemaJSON string

//go:embed default_scenario.yaml
var defaultScenarioYAML []byte

// Scenario describes a whole simulation: the System, its static data and
// the flocks to spawn.
type Scenario struct {
	Name       string         `json:"name" yaml:"name"`
	Seed       uint64         `json:"seed" yaml:"seed"`
	DT         float64        `json:"dt" yaml:"dt"`
	Ticks      int            `json:"ticks" yaml:"ticks"`
	WanderRate float64        `json:"wanderRate" yaml:"wanderRate"` // width of the per-tick wander angle jitter
	System     Config         `json:"system" yaml:"system"`
	Obstacles  []ObstacleSpec `json:"obstacles" yaml:"obstacles"`
	Paths      []PathSpec     `json:"paths" yaml:"paths"`
	FlowField  *FlowFieldSpec `json:"flowField,omitempty" yaml:"flowField,omitempty"`
	Flocks     []FlockSpec    `json:"flocks" yaml:"flocks"`
}

type ObstacleSpec struct {
	Position [3]float64 `json:"position" yaml:"position"`
	Radius   float64    `json:"radius" yaml:"radius"`
}

// PathSpec is a closed loop referenced by name from followPath behaviors.
type PathSpec struct {
	Name   string       `json:"name" yaml:"name"`
	Radius float64      `json:"radius" yaml:"radius"`
	Points [][3]float64 `json:"points" yaml:"points"`
}

// FlowFieldSpec configures the noise flow field shared by every flow behavior.
type FlowFieldSpec struct {
	Seed      int64   `json:"seed" yaml:"seed"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Drift     float64 `json:"drift" yaml:"drift"` // noise time advanced per unit of dt
}

type FlockSpec struct {
	Name      string         `json:"name" yaml:"name"`
	Count     int            `json:"count" yaml:"count"`
	MaxSpeed  *float64       `json:"maxSpeed,omitempty" yaml:"maxSpeed,omitempty"`
	MaxForce  *float64       `json:"maxForce,omitempty" yaml:"maxForce,omitempty"`
	Behaviors []BehaviorSpec `json:"behaviors" yaml:"behaviors"`
}

// BehaviorSpec is the serialized form of a binding. Only the fields of its
// kind are read. Leader and Quarry name a flock whose first boid is used.
type BehaviorSpec struct {
	Kind          string      `json:"kind" yaml:"kind"`
	Enabled       *bool       `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Scale         *float64    `json:"scale,omitempty" yaml:"scale,omitempty"`
	MaxSpeed      *float64    `json:"maxSpeed,omitempty" yaml:"maxSpeed,omitempty"`
	MaxForce      *float64    `json:"maxForce,omitempty" yaml:"maxForce,omitempty"`
	Center        *[3]float64 `json:"center,omitempty" yaml:"center,omitempty"`
	Bounds        *[3]float64 `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Target        *[3]float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Radius        float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	Distance      float64     `json:"distance,omitempty" yaml:"distance,omitempty"`
	MaxDistance   float64     `json:"maxDistance,omitempty" yaml:"maxDistance,omitempty"`
	FixedDistance float64     `json:"fixedDistance,omitempty" yaml:"fixedDistance,omitempty"`
	MaxAvoidForce float64     `json:"maxAvoidForce,omitempty" yaml:"maxAvoidForce,omitempty"`
	Theta         float64     `json:"theta,omitempty" yaml:"theta,omitempty"`
	Phi           float64     `json:"phi,omitempty" yaml:"phi,omitempty"`
	EvadeScale    *float64    `json:"evadeScale,omitempty" yaml:"evadeScale,omitempty"`
	ArriveScale   *float64    `json:"arriveScale,omitempty" yaml:"arriveScale,omitempty"`
	Path          string      `json:"path,omitempty" yaml:"path,omitempty"`
	Leader        string      `json:"leader,omitempty" yaml:"leader,omitempty"`
	Quarry        string      `json:"quarry,omitempty" yaml:"quarry,omitempty"`
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("scenario.schema.json", scenarioSchemaJSON)
})

// DefaultScenario returns the embedded default scenario.
func DefaultScenario() (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(defaultScenarioYAML, sc); err != nil {
		return nil, fmt.Errorf("failed to decode default scenario: %w", err)
	}
	return sc, nil
}

// LoadScenario reads a scenario file and merges it over the default scenario.
// Files ending in .yaml or .yml are YAML, anything else is JSON. An empty path
// returns the defaults.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	format := "json"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		format = "yaml"
	}
	return ParseScenario(data, format)
}

// ParseScenario validates data ("json" or "yaml") against the scenario schema
// and decodes it over the default scenario.
func ParseScenario(data []byte, format string) (*Scenario, error) {
	// 1. Normalize to JSON, the schema validator works on JSON values
	if format == "yaml" {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode scenario yaml: %w", err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert scenario yaml: %w", err)
		}
		data = b
	}

	// 2. Validate
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode scenario json: %w", err)
	}
	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	// 3. Merge over the defaults
	sc, err := DefaultScenario()
	if err != nil {
		return nil, err
	}
	if doc, ok := v.(map[string]interface{}); ok {
		sc.dropDefaultsFor(doc)
	}
	if err := json.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	return sc, nil
}

// dropDefaultsFor clears the list fields the document sets. encoding/json
// decodes array elements into the existing ones, which would mix a file's
// flocks with the default flocks.
func (sc *Scenario) dropDefaultsFor(doc map[string]interface{}) {
	for key := range doc {
		switch key {
		case "obstacles":
			sc.Obstacles = nil
		case "paths":
			sc.Paths = nil
		case "flocks":
			sc.Flocks = nil
		case "flowField":
			sc.FlowField = nil
		}
	}
}
