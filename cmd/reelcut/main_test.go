package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelcut/internal/config"
	"reelcut/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "reelcut.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath, "--log-level", "error")
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) importDemo(t *testing.T) {
	t.Helper()
	source := filepath.Join(e.baseDir, "fixtures", "demo.json")
	testsupport.WriteProjectFile(t, source, testsupport.NewProject(t))
	out, _, err := runCLI(t, []string{"project", "import", "demo", source}, e.configPath)
	if err != nil {
		t.Fatalf("project import: %v", err)
	}
	requireContains(t, out, "Imported demo")
}

func (e *cliTestEnv) writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "scripts", "edit.txt")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func clipCount(t *testing.T, configPath string) int {
	t.Helper()
	out, _, err := runCLI(t, []string{"clips", "demo", "--json"}, configPath)
	if err != nil {
		t.Fatalf("clips --json: %v", err)
	}
	var rows []clipRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode clips: %v (%q)", err, out)
	}
	return len(rows)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got %q", substr, output)
	}
}

func TestProjectImportListInfoExport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importDemo(t)

	out, _, err := runCLI(t, []string{"project", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	if strings.TrimSpace(out) != "demo" {
		t.Fatalf("unexpected project list %q", out)
	}

	out, _, err = runCLI(t, []string{"project", "info", "demo", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("project info: %v", err)
	}
	var summary projectSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if summary.Clips != 3 || summary.Effects != 2 || summary.Duration != 12000 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	source := filepath.Join(env.baseDir, "fixtures", "demo.json")
	if _, _, err := runCLI(t, []string{"project", "import", "demo", source}, env.configPath); err == nil {
		t.Fatal("expected import over an existing project to fail without --overwrite")
	}

	exported := filepath.Join(env.baseDir, "export", "demo.json")
	if err := os.MkdirAll(filepath.Dir(exported), 0o755); err != nil {
		t.Fatalf("mkdir export: %v", err)
	}
	out, _, err = runCLI(t, []string{"project", "export", "demo", "-o", exported}, env.configPath)
	if err != nil {
		t.Fatalf("project export: %v", err)
	}
	requireContains(t, out, "Exported demo")
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), `"clip-b"`)
}

func TestClipsAndEffectsListing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importDemo(t)

	out, _, err := runCLI(t, []string{"clips", "demo"}, env.configPath)
	if err != nil {
		t.Fatalf("clips: %v", err)
	}
	requireContains(t, out, "clip-a")
	requireContains(t, out, "2x")
	requireContains(t, out, "12.000s")

	out, _, err = runCLI(t, []string{"effects", "demo", "--type", "zoom"}, env.configPath)
	if err != nil {
		t.Fatalf("effects: %v", err)
	}
	requireContains(t, out, "zoom-1")
	if strings.Contains(out, "screen-1") {
		t.Fatalf("type filter leaked screen effect: %q", out)
	}

	if _, _, err := runCLI(t, []string{"effects", "demo", "--type", "sparkle"}, env.configPath); err == nil {
		t.Fatal("expected unknown effect type to fail")
	}
}

func TestApplySavesAndJournals(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importDemo(t)

	script := env.writeScript(t, "# cut clip-b in half\nplayhead 5000\nsplit-clip clip-b\n")
	out, _, err := runCLI(t, []string{"apply", "demo", script}, env.configPath)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "Saved demo (2 steps, 0 failed)")

	if got := clipCount(t, env.configPath); got != 4 {
		t.Fatalf("expected 4 clips after split, got %d", got)
	}

	out, _, err = runCLI(t, []string{"history", "demo"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Split clip clip-b")
	requireContains(t, out, "execute")
}

func TestApplyStopsOnFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importDemo(t)

	script := env.writeScript(t, "remove-clip clip-missing\nremove-clip clip-a\n")
	out, _, err := runCLI(t, []string{"apply", "demo", script}, env.configPath)
	if err == nil {
		t.Fatal("expected failing script to return an error")
	}
	requireContains(t, err.Error(), "line 1")
	requireContains(t, out, "Not saved demo (1 steps, 1 failed)")
	if got := clipCount(t, env.configPath); got != 3 {
		t.Fatalf("failed script should leave 3 clips, got %d", got)
	}

	out, _, err = runCLI(t, []string{"apply", "demo", script, "--keep-going", "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected --keep-going to still report the failure")
	}
	var report applyReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v (%q)", err, out)
	}
	if !report.Saved || report.Failed != 1 || len(report.Steps) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := clipCount(t, env.configPath); got != 2 {
		t.Fatalf("keep-going script should leave 2 clips, got %d", got)
	}
}

func TestApplyDryRunLeavesProject(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importDemo(t)

	script := env.writeScript(t, "remove-clip clip-a\n")
	out, _, err := runCLI(t, []string{"apply", "demo", script, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("apply --dry-run: %v", err)
	}
	requireContains(t, out, "Not saved demo")
	if got := clipCount(t, env.configPath); got != 3 {
		t.Fatalf("dry run changed the project: %d clips", got)
	}
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Journal.Enabled = false
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"history", "demo"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "journal is disabled") {
		t.Fatalf("expected disabled journal error, got %v", err)
	}
}

func TestReferenceCommands(t *testing.T) {
	out, _, err := runCLI(t, []string{"shortcuts"}, "")
	if err != nil {
		t.Fatalf("shortcuts: %v", err)
	}
	requireContains(t, out, "cmd+shift+z")
	requireContains(t, out, "redo")

	out, _, err = runCLI(t, []string{"commands"}, "")
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	requireContains(t, out, "split-clip")
	requireContains(t, out, "apply-typing-speed")
}
