package layout

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default tunables.
const (
	DefaultMaxPoints         = 16
	DefaultMaxDepth          = 12
	DefaultRadiusFloor       = 30.0
	DefaultRadiusScale       = 10.0
	DefaultMaxForce          = 3.0
	DefaultForceScale        = 50.0
	DefaultTangential        = 0.1
	DefaultMassJitter        = 0.5
	DefaultSpread            = 10.0
	DefaultCenteringStrength = 0.05
	DefaultCenteringEpsilon  = 1.0
)

// Radial seeding ring: radius = RadialBase + outDegree^RadialExponent.
const (
	RadialBase     = 25.0
	RadialExponent = 0.6
)

// Options tunes the engine. Zero fields take the package defaults, so no
// tunable can be switched off by setting it to zero.
type Options struct {
	Seed uint64 `toml:"seed" json:"seed"`

	// Quadtree shape used by the repulsion phase.
	MaxPoints int `toml:"max_points" json:"max_points,omitempty" validate:"gte=0"`
	MaxDepth  int `toml:"max_depth" json:"max_depth,omitempty" validate:"gte=0,lte=64"`

	// Repulsion radius = RadiusFloor + RadiusScale*sqrt(mass).
	RadiusFloor float64 `toml:"radius_floor" json:"radius_floor,omitempty" validate:"gte=0"`
	RadiusScale float64 `toml:"radius_scale" json:"radius_scale,omitempty" validate:"gte=0"`

	// Pair force = min(MaxForce, ForceScale*neighborMass/dist) * repulsion.
	// The clamp bounds the whole pair force, so a heavy neighbor cannot
	// push harder than MaxForce*repulsion.
	MaxForce   float64 `toml:"max_force" json:"max_force,omitempty" validate:"gte=0"`
	ForceScale float64 `toml:"force_scale" json:"force_scale,omitempty" validate:"gte=0"`

	// Tangential scales the random sideways nudge added to each pair force.
	Tangential float64 `toml:"tangential" json:"tangential,omitempty" validate:"gte=0,lte=1"`

	// MassJitter bounds the random part of mass = 1 + sqrt(degree) + U[0,MassJitter).
	MassJitter float64 `toml:"mass_jitter" json:"mass_jitter,omitempty" validate:"gte=0"`

	// Spread scales the side of the initial random square (Spread*sqrt(n)).
	Spread float64 `toml:"spread" json:"spread,omitempty" validate:"gte=0"`

	CenteringStrength float64 `toml:"centering_strength" json:"centering_strength,omitempty" validate:"gte=0"`
	CenteringEpsilon  float64 `toml:"centering_epsilon" json:"centering_epsilon,omitempty" validate:"gte=0"`

	// RadialSeed arranges each node's outbound neighbors on a ring around
	// it after the random scatter in Initialize. Nodes with a supplied
	// position are left where they are.
	RadialSeed bool `toml:"radial_seed" json:"radial_seed,omitempty"`
}

var validate = validator.New()

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	setDefault := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	if o.MaxPoints == 0 {
		o.MaxPoints = DefaultMaxPoints
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	setDefault(&o.RadiusFloor, DefaultRadiusFloor)
	setDefault(&o.RadiusScale, DefaultRadiusScale)
	setDefault(&o.MaxForce, DefaultMaxForce)
	setDefault(&o.ForceScale, DefaultForceScale)
	setDefault(&o.Tangential, DefaultTangential)
	setDefault(&o.MassJitter, DefaultMassJitter)
	setDefault(&o.Spread, DefaultSpread)
	setDefault(&o.CenteringStrength, DefaultCenteringStrength)
	setDefault(&o.CenteringEpsilon, DefaultCenteringEpsilon)
	return o
}

// Validate checks field ranges.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid layout options: %w", err)
	}
	return nil
}
