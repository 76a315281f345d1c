package physics

// Tuning holds every solver and broad-phase constant. A zero value is not
// usable; start from DefaultTuning and override fields from YAML.
type Tuning struct {
	// Restitution is the bounce coefficient applied by the velocity solver.
	// Collisions are intentionally near-inelastic.
	Restitution float64 `yaml:"restitution"`
	// FallbackMass stands in for bodies with zero or undefined mass so the
	// solver never divides by zero.
	FallbackMass float64 `yaml:"fallback_mass"`
	// SolverBudgetFactor caps resolution attempts at factor * manifold count.
	SolverBudgetFactor int `yaml:"solver_budget_factor"`
	// PenetrationAllowance is the residual overlap tolerated after correction.
	PenetrationAllowance float64 `yaml:"penetration_allowance"`
	// CorrectionMinFraction floors the per-substep correction fraction.
	CorrectionMinFraction float64 `yaml:"correction_min_fraction"`
	// TargetSubsteps is the substep count at the 60 Hz reference rate.
	TargetSubsteps int `yaml:"target_substeps"`
	// MaxSubsteps clamps the scaled substep count.
	MaxSubsteps int `yaml:"max_substeps"`
	// SleepTicks is how many quiescent ticks put a body to sleep.
	SleepTicks int `yaml:"sleep_ticks"`
	// SleepVelocity is the speed below which a body counts as quiescent.
	SleepVelocity float64 `yaml:"sleep_velocity"`
	// Gravity is the downward acceleration used for tile friction on grids
	// with gravity enabled.
	Gravity float64 `yaml:"gravity"`
	// BroadphaseEpsilon shrinks AABBs before cell mapping so touching a cell
	// border does not count as membership.
	BroadphaseEpsilon float64 `yaml:"broadphase_epsilon"`
	// GJKIterations caps the distance solver's simplex refinement loop.
	GJKIterations int `yaml:"gjk_iterations"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Restitution:           0.01,
		FallbackMass:          100,
		SolverBudgetFactor:    4,
		PenetrationAllowance:  1.0 / 128,
		CorrectionMinFraction: 0.01,
		TargetSubsteps:        4,
		MaxSubsteps:           20,
		SleepTicks:            30,
		SleepVelocity:         1e-3,
		Gravity:               9.8,
		BroadphaseEpsilon:     0.01,
		GJKIterations:         20,
	}
}
