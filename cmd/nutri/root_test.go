package nutri

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes rootCmd with args against a clean flag state and an isolated
// config directory, returning combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("NUTRI_CONFIG", "")
	resetFlags(rootCmd)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("nutri %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nutri.db")
}

func TestRootHelp(t *testing.T) {
	out := mustRunCLI(t, "--help")
	if !strings.Contains(out, "nutri") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := testDBPath(t)
	for i := 0; i < 2; i++ {
		out := mustRunCLI(t, "--db", path, "init")
		if !strings.Contains(out, "schema v3") {
			t.Fatalf("init run %d: unexpected output %q", i+1, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := mustRunCLI(t, "version")
	if !strings.Contains(out, "nutri dev") || !strings.Contains(out, "schema: v3") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	if err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestDoctorAndBackupCommands(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "food", "add", "--name", "Tofu", "--calories_kcal", "76")

	out := mustRunCLI(t, "--db", path, "doctor")
	if !strings.Contains(out, "Orphan entries: 0") {
		t.Fatalf("unexpected doctor output %q", out)
	}

	out = mustRunCLI(t, "--db", path, "backup", "create")
	if !strings.Contains(out, "Created backup") {
		t.Fatalf("unexpected backup output %q", out)
	}
	out = mustRunCLI(t, "--db", path, "backup", "list")
	if !strings.Contains(out, filepath.Join(filepath.Dir(path), "backups")) {
		t.Fatalf("expected backup listed, got %q", out)
	}
}
