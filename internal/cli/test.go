package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fpsync/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden traces
	Filter string // glob on scenario file names
}

// ScenarioResult is the sync outcome of one scenario.
type ScenarioResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
	// Cycles is kind:outcome per journaled cycle.
	Cycles   []string             `json:"cycles"`
	Commands int                  `json:"commands"`
	Golden   harness.GoldenStatus `json:"golden,omitempty"`
	Errors   []string             `json:"errors,omitempty"`
}

// TestResult is the outcome of a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run sync scenarios",
		Long: `Run sync scenarios against simulated worlds.

Each scenario starts a controller on an in-memory journal, applies its
steps and checks its assertions. When <scenarios-dir>/golden/<name>.golden
exists the journal trace must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  fpsync test ./scenarios
  fpsync test ./scenarios --filter "save_*"
  fpsync test ./scenarios --update
  fpsync test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden traces")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return WrapExitError(ExitCommandError, "scenarios directory not found: "+dir, err)
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "find scenarios", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}}
	for _, f := range files {
		result.add(runScenario(f, opts.Update))
	}
	if err := formatterFor(opts.RootOptions, cmd).Scenarios(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// findScenarioFiles lists .yaml and .yml files under dir, skipping golden
// directories.
func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == harness.GoldenDir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario runs one scenario file and checks its golden trace.
func runScenario(path string, update bool) ScenarioResult {
	r := ScenarioResult{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Cycles: []string{},
	}
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		r.Errors = []string{"load: " + err.Error()}
		return r
	}
	r.Name = scenario.Name

	res, err := harness.Run(scenario)
	if err != nil {
		r.Errors = []string{"run: " + err.Error()}
		return r
	}
	r.Cycles = res.Outcomes()
	for _, c := range res.Cycles {
		r.Commands += len(c.Calls)
	}
	r.Errors = res.Errors

	r.Golden, err = harness.CheckGolden(path, res, update)
	switch {
	case err != nil:
		r.Errors = append(r.Errors, err.Error())
	case r.Golden == harness.GoldenMismatch:
		r.Errors = append(r.Errors, "golden trace mismatch (run with --update to regenerate)")
	}
	r.Pass = len(r.Errors) == 0
	return r
}
