package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestDevicesCmd_Registered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "devices" {
			found = true
			break
		}
	}
	if !found {
		t.Error("devices subcommand not registered")
	}
}

func TestDevicesCmd_Tone(t *testing.T) {
	resetViperForTest()
	setupConfig(t, "")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"devices", "--backend", "tone"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Capture devices (tone):") {
		t.Errorf("output missing header:\n%s", output)
	}
	if !strings.Contains(output, "[0] synthetic tone (default)") {
		t.Errorf("output missing synthetic device:\n%s", output)
	}
}

func TestDevicesCmd_RejectsArgs(t *testing.T) {
	resetViperForTest()
	setupConfig(t, "")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"devices", "extra", "--backend", "tone"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() with extra args error = nil")
	}
}
