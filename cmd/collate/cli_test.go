package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"collator/internal/testsupport"
)

type cliEnv struct {
	base       string
	modelDir   string
	outputDir  string
	configPath string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	testsupport.MkdirAll(t, home)
	t.Setenv("HOME", home)
	t.Chdir(base)

	env := &cliEnv{
		base:       base,
		modelDir:   filepath.Join(base, "models"),
		outputDir:  filepath.Join(base, "collated"),
		configPath: filepath.Join(base, "collator.toml"),
	}
	testsupport.MkdirAll(t, env.modelDir)
	content := fmt.Sprintf(`[paths]
model_dir = %q
output_dir = %q
log_dir = %q
ledger_path = %q

[logging]
level = "error"
file = false
`, env.modelDir, env.outputDir, filepath.Join(base, "logs"), filepath.Join(base, "state", "ledger.db"))
	testsupport.WriteText(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLI(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Disabled components: scattered")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestRunCommandWritesRecord(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteDiskModel(t, env.modelDir, "HD1", "007", 4)

	out, _, err := runCLI(t, env, "run", "HD1", "7")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, filepath.Join(env.outputDir, "HD1_007.fits"))
	requireContains(t, out, "Failed: no")

	if _, _, err := runCLI(t, env, "run", "HD1", "7"); err == nil {
		t.Fatal("expected write conflict on second run")
	}
	if _, _, err := runCLI(t, env, "--overwrite", "run", "HD1", "7"); err != nil {
		t.Fatalf("run with --overwrite: %v", err)
	}
}

func TestRunCommandRejectsExtinctionInOptThin(t *testing.T) {
	env := setupCLI(t)
	_, _, err := runCLI(t, env, "--mode", "optthin", "--extinction", "run", "HD1", "1")
	if err == nil {
		t.Fatal("expected invalid flag combination")
	}
}

func TestBatchHistoryAndAudit(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteDiskModel(t, env.modelDir, "HD1", "001", 4)
	testsupport.WriteDiskModel(t, env.modelDir, "HD1", "003", 4)
	if err := os.Remove(testsupport.WallPath(env.modelDir, "HD1", "003")); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, env, "batch", "HD1", "1-3")
	if err == nil {
		t.Fatal("expected batch error for the missing job file")
	}
	requireContains(t, err.Error(), "1 of 3 jobs wrote no record")
	requireContains(t, out, "1 ok, 1 degraded, 1 fatal")

	out, _, err = runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "missing_file")
	requireContains(t, out, "MissingWall")

	out, _, err = runCLI(t, env, "history", "--status", "degraded")
	if err != nil {
		t.Fatalf("history --status: %v", err)
	}
	requireContains(t, out, "003")
	if strings.Contains(out, "missing_file") {
		t.Fatalf("status filter leaked other entries:\n%s", out)
	}

	out, _, err = runCLI(t, env, "failcheck", "HD1")
	if err != nil {
		t.Fatalf("failcheck: %v", err)
	}
	requireContains(t, out, "1 of 2 disk records failed")
	requireContains(t, out, "MissingWall")

	out, _, err = runCLI(t, env, "search", "HD1", "eps=0.01")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "001")
	requireContains(t, out, "003")
}

func TestDumpFormats(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteDiskModel(t, env.modelDir, "HD1", "002", 3)
	if _, _, err := runCLI(t, env, "run", "HD1", "002"); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, env, "dump", "HD1", "2", "--format", "json")
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	var tags []map[string]any
	if err := json.Unmarshal([]byte(out), &tags); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	found := false
	for _, tag := range tags {
		if tag["key"] == "OBJNAME" && tag["value"] == "HD1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("OBJNAME missing from %v", tags)
	}

	out, _, err = runCLI(t, env, "dump", "HD1", "2", "--format", "yaml")
	if err != nil {
		t.Fatalf("dump yaml: %v", err)
	}
	var ytags []map[string]any
	if err := yaml.Unmarshal([]byte(out), &ytags); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(ytags) != len(tags) {
		t.Fatalf("yaml has %d tags, json %d", len(ytags), len(tags))
	}

	out, _, err = runCLI(t, env, "dump", "HD1", "2")
	if err != nil {
		t.Fatalf("dump table: %v", err)
	}
	requireContains(t, out, "JOBNUM")

	if _, _, err := runCLI(t, env, "dump", "HD1", "9"); err == nil {
		t.Fatal("expected not found for absent record")
	}
}

func TestShowSummaryAndTotal(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteDiskModel(t, env.modelDir, "HD1", "004", 3)
	if _, _, err := runCLI(t, env, "run", "HD1", "4"); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, env, "show", "HD1", "4")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Grid size: 3")
	requireContains(t, out, "photosphere")

	out, _, err = runCLI(t, env, "show", "HD1", "4", "--total=photosphere,wall")
	if err != nil {
		t.Fatalf("show --total: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}
	// photosphere i+1 plus wall 10(i+1) at the first grid point.
	if lines[0] != "0.1\t11" {
		t.Fatalf("unexpected first line %q", lines[0])
	}

	if _, _, err := runCLI(t, env, "show", "HD1", "4", "--total=wavelength"); err == nil {
		t.Fatal("expected error summing wavelength")
	}
}
