package model

import "time"

// Scenario is the unit of test execution: a set of files to transpile plus a
// configure/build/run recipe and pass/fail policy.
type Scenario struct {
	Name string

	// SetupArgs are appended to the suite's setup command prefix.
	SetupArgs []string

	// Files are source paths to transpile, relative to the suite source dir.
	// An empty list means build/run only.
	Files []Path

	// ObjectDir is the build artifact directory, relative to the suite root.
	ObjectDir Path

	// PreVerify runs build/run once on the untouched tree before transpiling,
	// establishing a baseline. The pass condition is always the final run.
	PreVerify bool

	// Quick reuses an existing object directory, skipping setup and build.
	// Mutually exclusive with a non-empty Files list: transpiling invalidates
	// previously compiled objects.
	Quick bool

	// BaselineFatal makes a failing baseline run fail the whole scenario.
	// When false the baseline failure is logged as diagnostic context only.
	BaselineFatal bool

	// CleanRepo allows the repository guard to clean and reset a dirty tree
	// before the scenario mutates it.
	CleanRepo bool

	// ExecuteTimeout bounds the execute phase. Zero means no deadline.
	ExecuteTimeout time.Duration
}

// Suite groups scenarios sharing one working root and command vocabulary.
type Suite struct {
	// Root is the working root of the simulation checkout.
	Root Path

	// SourceDir holds transpilation targets, relative to Root.
	SourceDir Path

	// SetupCmd, BuildCmd and RunCmd are command prefixes; SetupCmd is extended
	// with each scenario's SetupArgs.
	SetupCmd []string
	BuildCmd []string
	RunCmd   []string

	Scenarios []Scenario
}

// DefaultObjectDir is used when a scenario does not name its own build dir.
const DefaultObjectDir = Path("object")

// BackupSuffix is appended to a target file to form its backup path.
const BackupSuffix = ".bak"

// BackupPath returns the sibling backup path for a target file.
func BackupPath(target Path) Path {
	return target + BackupSuffix
}

// Find returns the scenario with the given name, if present.
func (s Suite) Find(name string) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}

	return Scenario{}, false
}
