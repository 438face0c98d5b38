package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExecuteHeadless(t *testing.T) {
	dir := t.TempDir()
	src := `var Game = {
  n: 0,
  init: function () {},
  update: function () { if (++this.n == 2) Process.exit(5); },
  draw: function () {}
};`
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"script exit status", []string{"--headless", "--no-audio", "--log-file", filepath.Join(dir, "yolk.log"), dir}, 5},
		{"missing entry", []string{"--headless", "--no-audio", "--log-file", filepath.Join(dir, "yolk.log"), filepath.Join(dir, "nope.js")}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rootCmd.SetArgs(tc.args)
			code, _ := execute()
			if code != tc.expected {
				t.Errorf("execute() = %d, expected %d", code, tc.expected)
			}
		})
	}
}

func TestRecordFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"bare flag uses config", []string{"-r"}, "from-config.gif"},
		{"explicit default name is kept", []string{"--record=yolk.gif"}, "yolk.gif"},
		{"explicit path", []string{"--record=out/run.gif"}, "out/run.gif"},
		{"not set", []string{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flagRecord = ""
			t.Cleanup(func() { flagRecord = "" })
			if err := rootCmd.Flags().Parse(tc.args); err != nil {
				t.Fatalf("Parse(%v) failed: %v", tc.args, err)
			}
			if got := recordTarget(flagRecord, "from-config.gif"); got != tc.expected {
				t.Errorf("recordTarget() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestHeapBallast(t *testing.T) {
	tests := []struct {
		mb       int
		expected int
	}{
		{1, 1 << 20},
		{3, 3 << 20},
		{0, 100 << 20},
	}

	for _, tc := range tests {
		if got := len(heapBallast(tc.mb)); got != tc.expected {
			t.Errorf("heapBallast(%d) = %d bytes, expected %d", tc.mb, got, tc.expected)
		}
	}
}
