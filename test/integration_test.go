// ABOUTME: Integration tests for habits CLI.
// ABOUTME: Tests full workflow from CLI commands.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	habitsBinary := filepath.Join(projectRoot, "habits")

	buildCmd := exec.Command("go", "build", "-o", habitsBinary, "./cmd/habits")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(habitsBinary)

	// Use temp data dir
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.json")
	cfgJSON := `{"data_dir": "` + filepath.Join(tmpDir, "data") + `", "preserve_read_state": true}`
	if err := os.WriteFile(cfgPath, []byte(cfgJSON), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--config", cfgPath}, args...)
		cmd := exec.Command(habitsBinary, fullArgs...)
		cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+tmpDir)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Fresh install is seeded
	output, err := run("habit", "list")
	if err != nil {
		t.Fatalf("Failed to list habits: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Water") || !strings.Contains(output, "Daily progress: 20%") {
		t.Errorf("Expected seeded habits, got: %s", output)
	}

	// Reaching the step goal awards an achievement
	output, err = run("habit", "set", "2", "10000")
	if err != nil {
		t.Fatalf("Failed to set steps: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Target reached") {
		t.Errorf("Expected 'Target reached' in output, got: %s", output)
	}

	output, err = run("notify", "achievement")
	if err != nil {
		t.Fatalf("Failed to show achievement: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Active Stepper") {
		t.Errorf("Expected 'Active Stepper' in output, got: %s", output)
	}

	// Read state survives the next derivation
	output, err = run("notify", "read", "steps-complete")
	if err != nil {
		t.Fatalf("Failed to mark read: %v\n%s", err, output)
	}
	if _, err := run("habit", "set", "1", "2300"); err != nil {
		t.Fatalf("Failed to set water: %v", err)
	}
	output, err = run("notify", "list", "--unread")
	if err != nil {
		t.Fatalf("Failed to list notifications: %v\n%s", err, output)
	}
	if strings.Contains(output, "[steps-complete]") {
		t.Errorf("Expected steps-complete to stay read, got: %s", output)
	}

	// Meals
	output, err = run("meal", "add", "Snack", "--calories", "180")
	if err != nil {
		t.Fatalf("Failed to add meal: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added Snack") {
		t.Errorf("Expected 'Added Snack' in output, got: %s", output)
	}

	output, err = run("meal", "totals")
	if err != nil {
		t.Fatalf("Failed to show totals: %v\n%s", err, output)
	}
	if !strings.Contains(output, "1500 / 2100 kcal") {
		t.Errorf("Expected 1500 kcal total, got: %s", output)
	}
}
