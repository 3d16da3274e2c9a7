package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestEvaluateArgument(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		code     int
	}{
		{"3ae4c66fb32", "Evaluating 3ae4c66fb32\nResult: 235\n", exitOK},
		{"4c3b2d4", "Evaluating 4c3b2d4\nResult: 2.5\n", exitOK},
		{"2b3c4", "Evaluating 2b3c4\nResult: -4\n", exitOK},
		{"4d0", "Evaluating 4d0\nError: DivisionByZero\n", exitEval},
		{"3a2z4", "Evaluating 3a2z4\nError: InvalidCharacter\n", exitEval},
		{"1ae1", "Evaluating 1ae1\nError: InvalidBlock\n", exitEval},
		{"a", "Evaluating a\nError: InvalidInput\n", exitEval},
		{"", "Evaluating \nError: InvalidInput\n", exitEval},
	}

	for _, tt := range tests {
		out, errOut, code := runCLI(t, "", tt.input)
		if out != tt.expected {
			t.Errorf("%q: expected output %q, got %q (stderr %q)", tt.input, tt.expected, out, errOut)
		}
		if code != tt.code {
			t.Errorf("%q: expected exit %d, got %d", tt.input, tt.code, code)
		}
	}
}

func TestLegacyGroupsFlag(t *testing.T) {
	out, _, _ := runCLI(t, "", "-legacy-groups", "e2ce3a4ff")
	if !strings.Contains(out, "Result: 10\n") {
		t.Errorf("expected legacy result 10, got %q", out)
	}
	out, _, _ = runCLI(t, "", "e2ce3a4ff")
	if !strings.Contains(out, "Result: 14\n") {
		t.Errorf("expected balanced result 14, got %q", out)
	}
}

func TestMaxDepthFlag(t *testing.T) {
	out, _, code := runCLI(t, "", "-max-depth", "1", "ee1ff")
	if !strings.Contains(out, "Error: InvalidBlock") || code != exitEval {
		t.Errorf("expected InvalidBlock, got %q (exit %d)", out, code)
	}
}

func TestPipedInput(t *testing.T) {
	out, _, code := runCLI(t, "2a2a2\n\n4d0\r\n3\n")
	expected := "Evaluating 2a2a2\nResult: 6\n" +
		"Evaluating 4d0\nError: DivisionByZero\n" +
		"Evaluating 3\nResult: 3\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
	if code != exitEval {
		t.Errorf("expected exit %d after a failing line, got %d", exitEval, code)
	}
}

func TestPipedLongLine(t *testing.T) {
	line := "1" + strings.Repeat("a1", 40000)
	out, errOut, code := runCLI(t, line+"\n")
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", exitOK, code, errOut)
	}
	if !strings.HasSuffix(out, "Result: 40001\n") {
		t.Errorf("expected Result: 40001, got %q", out[max(0, len(out)-40):])
	}
}

func TestPipedInputNoTrailingNewline(t *testing.T) {
	out, _, code := runCLI(t, "2a2\n3c3")
	expected := "Evaluating 2a2\nResult: 4\nEvaluating 3c3\nResult: 9\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
	if code != exitOK {
		t.Errorf("expected exit %d, got %d", exitOK, code)
	}
}

func TestUsageErrors(t *testing.T) {
	if _, _, code := runCLI(t, "", "1", "2"); code != exitUsage {
		t.Errorf("expected usage exit for two arguments, got %d", code)
	}
	if _, _, code := runCLI(t, "", "-bogus"); code != exitUsage {
		t.Errorf("expected usage exit for unknown flag, got %d", code)
	}
	if _, errOut, code := runCLI(t, "", "-history", "5"); code != exitUsage || !strings.Contains(errOut, "-history requires") {
		t.Errorf("expected usage exit for -history without db, got %d (%q)", code, errOut)
	}
	if _, _, code := runCLI(t, "", "-max-depth", "-1", "1"); code != exitUsage {
		t.Errorf("expected usage exit for negative depth, got %d", code)
	}
}

func TestHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	runCLI(t, "", "-db", dbPath, "500a10b66c32")
	runCLI(t, "", "-db", dbPath, "32a2d2g")

	out, errOut, code := runCLI(t, "", "-db", dbPath, "-history", "10")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 history lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "32a2d2g") || !strings.HasSuffix(lines[0], "Error: InvalidCharacter") {
		t.Errorf("unexpected newest line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "500a10b66c32") || !strings.HasSuffix(lines[1], "Result: 14208") {
		t.Errorf("unexpected oldest line: %q", lines[1])
	}

	out, _, _ = runCLI(t, "", "-db", dbPath, "-history", "1")
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 1 history line with limit, got %q", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cfg.db")
	cfgPath := filepath.Join(dir, "flatcalc.yaml")
	cfg := "db: " + dbPath + "\ngroup_mode: legacy\ncolor: false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, _, _ := runCLI(t, "", "-config", cfgPath, "e2ce3a4ff")
	if !strings.Contains(out, "Result: 10\n") {
		t.Errorf("expected config to select legacy groups, got %q", out)
	}

	// The flag overrides the file
	out, _, _ = runCLI(t, "", "-config", cfgPath, "-legacy-groups=false", "e2ce3a4ff")
	if !strings.Contains(out, "Result: 14\n") {
		t.Errorf("expected flag to override config, got %q", out)
	}

	out, _, code := runCLI(t, "", "-config", cfgPath, "-history", "5")
	if code != exitOK || strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 history lines from config db, got %q (exit %d)", out, code)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"mode.yaml":  "group_mode: nested\n",
		"depth.yaml": "max_depth: -3\n",
		"yaml.yaml":  "db: [\n",
	} {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(content), 0644)
		if _, _, code := runCLI(t, "", "-config", path, "1"); code != exitUsage {
			t.Errorf("%s: expected usage exit, got %d", name, code)
		}
	}
	if _, _, code := runCLI(t, "", "-config", filepath.Join(dir, "missing.yaml"), "1"); code != exitUsage {
		t.Errorf("missing config: expected usage exit, got %d", code)
	}
}

// TestBinary builds the CLI and checks the printed transcript end to end.
func TestBinary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping build in short mode")
	}
	tmpDir := t.TempDir()

	// Build the CLI first
	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "flatcalc"), "./")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build flatcalc: %v\n%s", err, out)
	}

	runCmd := exec.Command(filepath.Join(tmpDir, "flatcalc"), "3c4d2aee2a4c41fc4f")
	output, err := runCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run flatcalc: %v\n%s", err, output)
	}
	if string(output) != "Evaluating 3c4d2aee2a4c41fc4f\nResult: 990\n" {
		t.Errorf("unexpected output: %q", output)
	}

	runCmd = exec.Command(filepath.Join(tmpDir, "flatcalc"), "3ae4d0fb2")
	output, err = runCmd.CombinedOutput()
	if exitErr, ok := err.(*exec.ExitError); !ok || exitErr.ExitCode() != exitEval {
		t.Errorf("expected exit %d, got %v", exitEval, err)
	}
	if !strings.Contains(string(output), "Error: DivisionByZero") {
		t.Errorf("expected DivisionByZero, got %q", output)
	}
}
