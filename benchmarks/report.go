// Package benchmarks provides parsing and reporting for the tree
// benchmark suite.
//
// Run the suite with `go test -bench=. -benchmem` and pipe the output
// through ParseBenchmarkOutput to build a Report.
package benchmarks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a single benchmark result.
type BenchmarkResult struct {
	// Name is the benchmark name (e.g., "BenchmarkSearch")
	Name string `json:"name"`
	// Package is the package containing the benchmark
	Package string `json:"package"`
	// Iterations is the number of iterations run
	Iterations int `json:"iterations"`
	// NsPerOp is nanoseconds per operation
	NsPerOp float64 `json:"nsPerOp"`
	// BytesPerOp is bytes allocated per operation
	BytesPerOp int64 `json:"bytesPerOp"`
	// AllocsPerOp is allocations per operation
	AllocsPerOp int64 `json:"allocsPerOp"`
}

// Target represents a performance target for one benchmark.
type Target struct {
	// Name is the target name
	Name string `json:"name"`
	// Description is a human-readable description
	Description string `json:"description"`
	// MaxNsPerOp is the maximum allowed nanoseconds per operation
	MaxNsPerOp float64 `json:"maxNsPerOp,omitempty"`
	// MinOpsPerSec is the minimum required operations per second
	MinOpsPerSec float64 `json:"minOpsPerSec,omitempty"`
}

// Report represents a complete benchmark report.
type Report struct {
	// Timestamp is when the report was generated
	Timestamp time.Time `json:"timestamp"`
	// GoVersion is the Go version used
	GoVersion string `json:"goVersion"`
	// OS is the operating system
	OS string `json:"os"`
	// Arch is the CPU architecture
	Arch string `json:"arch"`
	// Results contains all benchmark results
	Results []BenchmarkResult `json:"results"`
	// Targets maps benchmark names to performance targets
	Targets map[string]Target `json:"-"`
}

// NewReport creates a new benchmark report.
func NewReport() *Report {
	return &Report{
		Timestamp: time.Now(),
		Results:   make([]BenchmarkResult, 0),
		Targets:   defaultTargets(),
	}
}

// defaultTargets returns the performance targets for the tree suite,
// keyed by benchmark name.
func defaultTargets() map[string]Target {
	return map[string]Target{
		"BenchmarkSearch": {
			Name:        "Point lookup",
			Description: "Key lookup in a populated tree",
			MaxNsPerOp:  2000, // < 2 us
		},
		"BenchmarkInsertRandom": {
			Name:         "Write throughput",
			Description:  "Random-key inserts per second",
			MinOpsPerSec: 500000,
		},
		"BenchmarkDelete": {
			Name:         "Delete throughput",
			Description:  "Deletes per second with rebalancing",
			MinOpsPerSec: 500000,
		},
		"BenchmarkRange": {
			Name:        "Bounded scan",
			Description: "Iteration over a 1000-key window",
			MaxNsPerOp:  1000000, // < 1 ms
		},
	}
}

// ParseBenchmarkOutput parses Go benchmark output and returns results.
func ParseBenchmarkOutput(r io.Reader) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	// Format: BenchmarkName-N    iterations    ns/op    B/op    allocs/op
	benchRegex := regexp.MustCompile(`^(Benchmark\w+)(?:-\d+)?\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`)

	scanner := bufio.NewScanner(r)
	currentPkg := ""

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "pkg:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				currentPkg = parts[1]
			}
			continue
		}

		matches := benchRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		result := BenchmarkResult{
			Name:    matches[1],
			Package: currentPkg,
		}

		if iterations, err := strconv.Atoi(matches[2]); err == nil {
			result.Iterations = iterations
		}
		if nsPerOp, err := strconv.ParseFloat(matches[3], 64); err == nil {
			result.NsPerOp = nsPerOp
		}
		if matches[4] != "" {
			if bytesPerOp, err := strconv.ParseInt(matches[4], 10, 64); err == nil {
				result.BytesPerOp = bytesPerOp
			}
		}
		if matches[5] != "" {
			if allocsPerOp, err := strconv.ParseInt(matches[5], 10, 64); err == nil {
				result.AllocsPerOp = allocsPerOp
			}
		}

		results = append(results, result)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading benchmark output: %w", err)
	}

	return results, nil
}

// AddResults adds benchmark results to the report.
func (r *Report) AddResults(results []BenchmarkResult) {
	r.Results = append(r.Results, results...)
}

// SetSystemInfo sets the system information for the report.
func (r *Report) SetSystemInfo(goVersion, os, arch string) {
	r.GoVersion = goVersion
	r.OS = os
	r.Arch = arch
}

// TargetCheck represents the result of checking a benchmark against a
// performance target.
type TargetCheck struct {
	BenchmarkName   string  `json:"benchmark"`
	TargetName      string  `json:"target"`
	Description     string  `json:"description"`
	Passed          bool    `json:"passed"`
	ActualNsPerOp   float64 `json:"actualNsPerOp"`
	TargetNsPerOp   float64 `json:"targetNsPerOp,omitempty"`
	ActualOpsPerSec float64 `json:"actualOpsPerSec,omitempty"`
	TargetOpsPerSec float64 `json:"targetOpsPerSec,omitempty"`
}

// CheckTargets checks benchmark results against the performance targets.
func (r *Report) CheckTargets() []TargetCheck {
	var checks []TargetCheck

	for _, result := range r.Results {
		target, ok := r.Targets[result.Name]
		if !ok {
			continue
		}

		check := TargetCheck{
			BenchmarkName: result.Name,
			TargetName:    target.Name,
			Description:   target.Description,
			ActualNsPerOp: result.NsPerOp,
		}

		if target.MaxNsPerOp > 0 {
			check.TargetNsPerOp = target.MaxNsPerOp
			check.Passed = result.NsPerOp <= target.MaxNsPerOp
		} else if target.MinOpsPerSec > 0 {
			actualOpsPerSec := 1e9 / result.NsPerOp
			check.ActualOpsPerSec = actualOpsPerSec
			check.TargetOpsPerSec = target.MinOpsPerSec
			check.Passed = actualOpsPerSec >= target.MinOpsPerSec
		}

		checks = append(checks, check)
	}

	return checks
}

// GenerateTextReport generates a text report.
func (r *Report) GenerateTextReport(w io.Writer) error {
	fmt.Fprintf(w, "=== bptree Benchmark Report ===\n\n")
	fmt.Fprintf(w, "Generated: %s\n", r.Timestamp.Format(time.RFC3339))
	if r.GoVersion != "" {
		fmt.Fprintf(w, "Go Version: %s\n", r.GoVersion)
	}
	if r.OS != "" && r.Arch != "" {
		fmt.Fprintf(w, "Platform: %s/%s\n", r.OS, r.Arch)
	}
	fmt.Fprintln(w)

	for _, pkg := range r.packages() {
		results := r.resultsFor(pkg)
		fmt.Fprintf(w, "--- Package: %s ---\n\n", pkg)

		fmt.Fprintf(w, "%-30s %12s %12s %12s %12s\n",
			"Benchmark", "Iterations", "ns/op", "B/op", "allocs/op")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

		for _, result := range results {
			fmt.Fprintf(w, "%-30s %12d %12.2f %12d %12d\n",
				result.Name,
				result.Iterations,
				result.NsPerOp,
				result.BytesPerOp,
				result.AllocsPerOp)
		}
		fmt.Fprintln(w)
	}

	checks := r.CheckTargets()
	if len(checks) > 0 {
		fmt.Fprintln(w, "=== Target Compliance ===")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-20s %-22s %12s %12s %8s\n",
			"Target", "Benchmark", "Actual", "Target", "Status")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 78))

		allPassed := true
		for _, check := range checks {
			status := "PASS"
			if !check.Passed {
				status = "FAIL"
				allPassed = false
			}

			actual, target := formatCheck(check)
			fmt.Fprintf(w, "%-20s %-22s %12s %12s %8s\n",
				check.TargetName,
				check.BenchmarkName,
				actual,
				target,
				status)
		}

		fmt.Fprintln(w)
		if allPassed {
			fmt.Fprintln(w, "All targets met.")
		} else {
			fmt.Fprintln(w, "WARNING: some targets not met!")
		}
	}

	return nil
}

// GenerateMarkdownReport generates a Markdown report.
func (r *Report) GenerateMarkdownReport(w io.Writer) error {
	fmt.Fprintln(w, "# bptree Benchmark Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Generated: %s\n\n", r.Timestamp.Format(time.RFC3339))

	if r.GoVersion != "" || r.OS != "" {
		fmt.Fprintln(w, "## System Information")
		fmt.Fprintln(w)
		if r.GoVersion != "" {
			fmt.Fprintf(w, "- Go Version: %s\n", r.GoVersion)
		}
		if r.OS != "" && r.Arch != "" {
			fmt.Fprintf(w, "- Platform: %s/%s\n", r.OS, r.Arch)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	for _, pkg := range r.packages() {
		results := r.resultsFor(pkg)
		fmt.Fprintf(w, "### %s\n\n", pkg)

		fmt.Fprintln(w, "| Benchmark | Iterations | ns/op | B/op | allocs/op |")
		fmt.Fprintln(w, "|-----------|------------|-------|------|-----------|")

		for _, result := range results {
			fmt.Fprintf(w, "| %s | %d | %.2f | %d | %d |\n",
				result.Name,
				result.Iterations,
				result.NsPerOp,
				result.BytesPerOp,
				result.AllocsPerOp)
		}
		fmt.Fprintln(w)
	}

	checks := r.CheckTargets()
	if len(checks) > 0 {
		fmt.Fprintln(w, "## Target Compliance")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Target | Benchmark | Actual | Target | Status |")
		fmt.Fprintln(w, "|--------|-----------|--------|--------|--------|")

		allPassed := true
		for _, check := range checks {
			status := "PASS"
			if !check.Passed {
				status = "**FAIL**"
				allPassed = false
			}

			actual, target := formatCheck(check)
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				check.TargetName,
				check.BenchmarkName,
				actual,
				target,
				status)
		}

		fmt.Fprintln(w)
		if allPassed {
			fmt.Fprintln(w, "All targets met.")
		} else {
			fmt.Fprintln(w, "**WARNING: some targets not met!**")
		}
	}

	return nil
}

// GenerateJSONReport generates a JSON report.
func (r *Report) GenerateJSONReport(w io.Writer) error {
	doc := struct {
		*Report
		Checks []TargetCheck `json:"checks"`
	}{
		Report: r,
		Checks: r.CheckTargets(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// SaveReport saves the report to a file.
func (r *Report) SaveReport(filename string, format string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	switch format {
	case "text", "txt":
		return r.GenerateTextReport(f)
	case "markdown", "md":
		return r.GenerateMarkdownReport(f)
	case "json":
		return r.GenerateJSONReport(f)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

// Summary returns a short textual summary of the results.
func (r *Report) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total benchmarks: %d\n", len(r.Results)))

	var totalNs float64
	var totalAllocs int64
	for _, result := range r.Results {
		totalNs += result.NsPerOp
		totalAllocs += result.AllocsPerOp
	}

	if len(r.Results) > 0 {
		avgNs := totalNs / float64(len(r.Results))
		avgAllocs := float64(totalAllocs) / float64(len(r.Results))
		sb.WriteString(fmt.Sprintf("Average ns/op: %.2f\n", avgNs))
		sb.WriteString(fmt.Sprintf("Average allocs/op: %.2f\n", avgAllocs))
	}

	checks := r.CheckTargets()
	passed := 0
	for _, check := range checks {
		if check.Passed {
			passed++
		}
	}
	sb.WriteString(fmt.Sprintf("Targets: %d/%d passed\n", passed, len(checks)))

	return sb.String()
}

// packages returns the distinct package names in sorted order.
func (r *Report) packages() []string {
	seen := make(map[string]bool)
	var packages []string
	for _, result := range r.Results {
		pkg := result.Package
		if pkg == "" {
			pkg = "unknown"
		}
		if !seen[pkg] {
			seen[pkg] = true
			packages = append(packages, pkg)
		}
	}
	sort.Strings(packages)
	return packages
}

// resultsFor returns the results belonging to one package, sorted by name.
func (r *Report) resultsFor(pkg string) []BenchmarkResult {
	var results []BenchmarkResult
	for _, result := range r.Results {
		p := result.Package
		if p == "" {
			p = "unknown"
		}
		if p == pkg {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}

func formatCheck(check TargetCheck) (actual, target string) {
	if check.TargetNsPerOp > 0 {
		return formatDuration(check.ActualNsPerOp),
			fmt.Sprintf("< %s", formatDuration(check.TargetNsPerOp))
	}
	return formatOpsPerSec(check.ActualOpsPerSec),
		fmt.Sprintf(">= %s", formatOpsPerSec(check.TargetOpsPerSec))
}

func formatDuration(ns float64) string {
	if ns < 1000 {
		return fmt.Sprintf("%.2f ns", ns)
	} else if ns < 1000000 {
		return fmt.Sprintf("%.2f us", ns/1000)
	} else if ns < 1000000000 {
		return fmt.Sprintf("%.2f ms", ns/1000000)
	}
	return fmt.Sprintf("%.2f s", ns/1000000000)
}

func formatOpsPerSec(ops float64) string {
	if ops >= 1000000 {
		return fmt.Sprintf("%.2fM/s", ops/1000000)
	} else if ops >= 1000 {
		return fmt.Sprintf("%.2fK/s", ops/1000)
	}
	return fmt.Sprintf("%.2f/s", ops)
}
