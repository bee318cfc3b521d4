package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	graphio "github.com/matzehuels/uniquepaths/pkg/io"
)

const scenarioEdges = "1 3\n3 2\n2 1\n1 4\n4 5\n"

// run executes the root command with args and a silent logger.
func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fast keeps sampling short in tests.
var fast = []string{"--pilot", "200", "--samples", "2000", "--no-cache"}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"count", "exact", "components", "aggregate", "render", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCountCommand(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", scenarioEdges)

	args := append([]string{"count", graph, "-s", "1", "-e", "5", "--exact"}, fast...)
	if err := run(t, args...); err != nil {
		t.Fatalf("count error = %v", err)
	}

	if err := run(t, "count", graph, "-s", "1"); err == nil {
		t.Error("count without --end should fail")
	}
	err := run(t, append([]string{"count", graph, "-s", "1", "-e", "42"}, fast...)...)
	if !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("count to missing node error = %v, want NODE_NOT_FOUND", err)
	}
	err = run(t, append([]string{"count", graph, "-s", "1", "-e", "5", "--gating", "never"}, fast...)...)
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("count with bad gating error = %v, want INVALID_CONFIG", err)
	}
}

func TestExactCommand(t *testing.T) {
	graph := writeFile(t, t.TempDir(), "graph.txt", scenarioEdges)
	if err := run(t, "exact", graph, "-s", "1", "-e", "5"); err != nil {
		t.Fatalf("exact error = %v", err)
	}
	err := run(t, "exact", graph, "-s", "1", "-e", "5", "--max-depth", "1")
	if !errs.Is(err, errs.ErrCodeResourceExhausted) {
		t.Errorf("exact with tiny depth error = %v, want RESOURCE_EXHAUSTED", err)
	}
}

func TestDistributedWorkflow(t *testing.T) {
	dir := t.TempDir()
	// 0 -> 2 gives the cycle an in-node, so it has a pair to sample.
	graph := writeFile(t, dir, "graph.txt", "0 2\n"+scenarioEdges)
	units := filepath.Join(dir, "units.txt")
	results := filepath.Join(dir, "results.txt")

	if err := run(t, "components", graph, "-o", units); err != nil {
		t.Fatalf("components error = %v", err)
	}
	data, err := os.ReadFile(units)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "0: 2 ") {
		t.Errorf("units = %q, want unit 0 for component 2", data)
	}

	if err := run(t, append([]string{"aggregate", units, "-o", results}, fast...)...); err != nil {
		t.Fatalf("aggregate error = %v", err)
	}
	f, err := os.Open(results)
	if err != nil {
		t.Fatal(err)
	}
	got, err := graphio.ReadResults(f)
	f.Close()
	if err != nil {
		t.Fatalf("ReadResults() error = %v", err)
	}
	if r, ok := got[2]; !ok || r.Count <= 0 {
		t.Errorf("results = %+v, want a positive count for component 2", got)
	}

	args := append([]string{"count", graph, "-s", "1", "-e", "5", "--results", results}, fast...)
	if err := run(t, args...); err != nil {
		t.Fatalf("count --results error = %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", scenarioEdges)
	base := filepath.Join(dir, "out", "scenario")

	args := append([]string{"render", graph, "-s", "1", "-e", "5", "-f", "dot,json", "--detailed", "-o", base}, fast...)
	if err := run(t, args...); err != nil {
		t.Fatalf("render error = %v", err)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") {
		t.Errorf("dot output = %q, want a digraph", dot)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}

	if err := run(t, "render", graph, "-s", "1", "-e", "5", "-f", "gif"); err == nil {
		t.Error("render with unknown format should fail")
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.txt", scenarioEdges)
	cfg := writeFile(t, dir, "config.toml", `
[estimator]
pilot_walks = 200
sample_walks = 2000

[cache]
backend = "none"
`)
	if err := run(t, "--config", cfg, "count", graph, "-s", "1", "-e", "5"); err != nil {
		t.Fatalf("count with config error = %v", err)
	}

	bad := writeFile(t, dir, "bad.toml", "[cache]\nbackend = \"tape\"\n")
	err := run(t, "--config", bad, "count", graph, "-s", "1", "-e", "5")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad config error = %v, want INVALID_CONFIG", err)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	graph := writeFile(t, dir, "graph.txt", scenarioEdges)
	cfg := writeFile(t, dir, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	if err := run(t, "--config", cfg, "count", graph, "-s", "1", "-e", "5", "--pilot", "200", "--samples", "2000"); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if n := countFiles(t, cacheDir); n == 0 {
		t.Fatal("count wrote no cache entries")
	}
	if err := run(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if n := countFiles(t, cacheDir); n != 0 {
		t.Errorf("%d cache entries left after clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(buf.String(), "uniquepaths") {
		t.Error("bash completion does not mention uniquepaths")
	}
}
