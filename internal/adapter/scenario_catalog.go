package adapter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	m "recast.dev/pkg/recast/internal/model"
)

// catalogFile mirrors the on-disk scenarios.yaml layout.
type catalogFile struct {
	Version   int               `yaml:"version"`
	Root      string            `yaml:"root"`
	SourceDir string            `yaml:"source_dir"`
	SetupCmd  []string          `yaml:"setup_cmd"`
	BuildCmd  []string          `yaml:"build_cmd"`
	RunCmd    []string          `yaml:"run_cmd"`
	Scenarios []catalogScenario `yaml:"scenarios"`
}

type catalogScenario struct {
	Name           string   `yaml:"name"`
	SetupArgs      string   `yaml:"setup_args"`
	Files          []string `yaml:"files"`
	ObjectDir      string   `yaml:"object_dir"`
	PreVerify      *bool    `yaml:"pre_verify"`
	Quick          bool     `yaml:"quick"`
	BaselineFatal  bool     `yaml:"baseline_fatal"`
	CleanRepo      *bool    `yaml:"clean_repo"`
	ExecuteTimeout string   `yaml:"execute_timeout"`
}

// CurrentCatalogVersion is the scenarios.yaml format version this build reads.
const CurrentCatalogVersion = 1

// LoadCatalog reads and validates a scenario catalog. Validation failures are
// *model.ConfigurationError so they abort before any process is spawned.
func LoadCatalog(path m.Path) (m.Suite, error) {
	// #nosec G304 - path is the harness's own catalog file
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return m.Suite{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	return ParseCatalog(raw)
}

// ParseCatalog decodes catalog YAML. Unknown keys are rejected.
func ParseCatalog(raw []byte) (m.Suite, error) {
	var file catalogFile

	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		return m.Suite{}, fmt.Errorf("decode catalog: %w", err)
	}

	if file.Version != CurrentCatalogVersion {
		return m.Suite{}, &m.ConfigurationError{
			Reason: fmt.Sprintf("unsupported catalog version %d (want %d)", file.Version, CurrentCatalogVersion),
		}
	}

	suite := m.Suite{
		Root:      m.Path(file.Root),
		SourceDir: m.Path(file.SourceDir),
		SetupCmd:  file.SetupCmd,
		BuildCmd:  file.BuildCmd,
		RunCmd:    file.RunCmd,
	}

	if suite.Root == "" {
		return m.Suite{}, &m.ConfigurationError{Reason: "catalog root must not be empty"}
	}

	if suite.SourceDir == "" {
		suite.SourceDir = "source"
	}

	for field, cmd := range map[string][]string{
		"setup_cmd": file.SetupCmd,
		"build_cmd": file.BuildCmd,
		"run_cmd":   file.RunCmd,
	} {
		if len(cmd) == 0 {
			return m.Suite{}, &m.ConfigurationError{Reason: field + " must not be empty"}
		}
	}

	seen := make(map[string]bool, len(file.Scenarios))

	for _, sc := range file.Scenarios {
		scenario, err := buildScenario(sc)
		if err != nil {
			return m.Suite{}, err
		}

		if seen[scenario.Name] {
			return m.Suite{}, &m.ConfigurationError{
				Scenario: scenario.Name,
				Reason:   "duplicate scenario name",
			}
		}

		seen[scenario.Name] = true
		suite.Scenarios = append(suite.Scenarios, scenario)
	}

	return suite, nil
}

func buildScenario(sc catalogScenario) (m.Scenario, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return m.Scenario{}, &m.ConfigurationError{Reason: "scenario name must not be empty"}
	}

	scenario := m.Scenario{
		Name:          sc.Name,
		SetupArgs:     strings.Fields(sc.SetupArgs),
		ObjectDir:     m.Path(sc.ObjectDir),
		PreVerify:     true,
		Quick:         sc.Quick,
		BaselineFatal: sc.BaselineFatal,
		CleanRepo:     true,
	}

	if sc.PreVerify != nil {
		scenario.PreVerify = *sc.PreVerify
	}

	if sc.CleanRepo != nil {
		scenario.CleanRepo = *sc.CleanRepo
	}

	if scenario.ObjectDir == "" {
		scenario.ObjectDir = m.DefaultObjectDir
	}

	for _, f := range sc.Files {
		scenario.Files = append(scenario.Files, m.Path(f))
	}

	if sc.ExecuteTimeout != "" {
		d, err := time.ParseDuration(sc.ExecuteTimeout)
		if err != nil {
			return m.Scenario{}, &m.ConfigurationError{
				Scenario: sc.Name,
				Reason:   fmt.Sprintf("invalid execute_timeout %q", sc.ExecuteTimeout),
			}
		}

		scenario.ExecuteTimeout = d
	}

	// Transpiling source invalidates a previously compiled object directory,
	// so quick reuse together with a transpile set is a contract violation.
	if scenario.Quick && len(scenario.Files) > 0 {
		return m.Scenario{}, &m.ConfigurationError{
			Scenario: sc.Name,
			Reason:   "quick build reuse cannot be combined with transpile targets",
		}
	}

	return scenario, nil
}
