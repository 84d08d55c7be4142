package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is the directory, next to the scenarios, holding golden traces.
const GoldenDir = "golden"

// GoldenStatus is the result of checking a trace against its golden file.
type GoldenStatus string

const (
	GoldenNone     GoldenStatus = "none" // no golden file; assertions only
	GoldenMatch    GoldenStatus = "match"
	GoldenMismatch GoldenStatus = "mismatch"
	GoldenUpdated  GoldenStatus = "updated"
)

// GoldenPath returns the golden file of a scenario file:
// <dir>/golden/<base>.golden, the layout goldie uses in tests.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), GoldenDir, name+".golden")
}

// CheckGolden compares the trace of result with the golden file of
// scenarioFile, or rewrites that file when update is set.
func CheckGolden(scenarioFile string, result *Result, update bool) (GoldenStatus, error) {
	path := GoldenPath(scenarioFile)
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("golden dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(result.Trace), 0o644); err != nil {
			return "", fmt.Errorf("write golden: %w", err)
		}
		return GoldenUpdated, nil
	}
	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return GoldenNone, nil
	}
	if err != nil {
		return "", fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(want, []byte(result.Trace)) {
		return GoldenMismatch, nil
	}
	return GoldenMatch, nil
}

// RunWithGolden executes a scenario and compares its trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check assertions. Test failure
// (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", GoldenDir)),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, []byte(result.Trace))
}
