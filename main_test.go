package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain_DevicesSubprocess runs main with the synthetic backend in a child process
func TestMain_DevicesSubprocess(t *testing.T) {
	if os.Getenv("GOTUNER_RUN_MAIN") == "1" {
		os.Args = []string{"gotuner", "devices", "--backend", "tone"}
		main()
		return
	}

	home := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=TestMain_DevicesSubprocess")
	cmd.Env = append(os.Environ(),
		"GOTUNER_RUN_MAIN=1",
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		t.Fatalf("subprocess error = %v", err)
	}
	if !strings.Contains(stdout.String(), "synthetic tone") {
		t.Errorf("stdout = %q, want device listing", stdout.String())
	}
}

// TestMain_InvalidBackendExitsNonZero verifies the error path of cmd.Execute
func TestMain_InvalidBackendExitsNonZero(t *testing.T) {
	if os.Getenv("GOTUNER_RUN_MAIN") == "1" {
		os.Args = []string{"gotuner", "--backend", "jack"}
		main()
		return
	}

	home := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=TestMain_InvalidBackendExitsNonZero")
	cmd.Env = append(os.Environ(),
		"GOTUNER_RUN_MAIN=1",
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected exit error, got %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(stderr.String(), "backend") {
		t.Errorf("stderr = %q, want backend error", stderr.String())
	}
}
