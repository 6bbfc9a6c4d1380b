package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/lineup"
)

type testEnv struct {
	configHome string
	cacheHome  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	env := testEnv{configHome: t.TempDir(), cacheHome: t.TempDir()}
	t.Setenv("XDG_CONFIG_HOME", env.configHome)
	t.Setenv("XDG_CACHE_HOME", env.cacheHome)
	return env
}

func (e testEnv) writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := filepath.Join(e.configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func runSnapshot(t *testing.T, args ...string) lineup.Snapshot {
	t.Helper()
	out, err := run(t, append([]string{"layout", "--format", "json"}, args...)...)
	if err != nil {
		t.Fatal(err)
	}
	var snap lineup.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return snap
}

func TestLayoutTable(t *testing.T) {
	newTestEnv(t)
	out, err := run(t, "layout")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"World", "You", "*1", "19 entities by persons"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutJSON(t *testing.T) {
	newTestEnv(t)

	snap := runSnapshot(t)
	if len(snap.Items) != 19 || snap.Items[0].Name != "You" || snap.Items[18].Name != "World" {
		t.Fatalf("persons order starts with %q of %d", snap.Items[0].Name, len(snap.Items))
	}

	snap = runSnapshot(t, "-m", "turnover", "--centered", "13")
	if snap.Metric != "turnover" {
		t.Errorf("metric = %q", snap.Metric)
	}
	if snap.CenteredID == nil || *snap.CenteredID != 13 {
		t.Errorf("centered id = %v, want 13", snap.CenteredID)
	}
	if snap.Items[snap.CenteredPosition].ID != 13 {
		t.Errorf("centered position %d holds %d", snap.CenteredPosition, snap.Items[snap.CenteredPosition].ID)
	}
}

func TestLayoutDatasetFile(t *testing.T) {
	newTestEnv(t)
	path := filepath.Join(t.TempDir(), "trio.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	err = entity.Encode(f, []entity.Entity{
		{ID: 1, Name: "Ant", Persons: 1, Turnover: 100},
		{ID: 2, Name: "Bee", Persons: 4, Turnover: 40},
	}, entity.FormatYAML)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}

	snap := runSnapshot(t, "-d", path, "--no-cache", "--reference", "1")
	if len(snap.Items) != 2 || snap.Items[0].ID != 1 {
		t.Fatalf("items = %+v", snap.Items)
	}
	// Scales grow with the square root of the value.
	if snap.Items[0].Scale != 1 || snap.Items[1].Scale != 2 {
		t.Errorf("scales = %v, %v; want 1, 2", snap.Items[0].Scale, snap.Items[1].Scale)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"layout", "--format", "xml"}, errors.ErrCodeInvalidFormat},
		{"bad metric", []string{"layout", "-m", "weight"}, errors.ErrCodeInvalidMetric},
		{"missing data", []string{"layout", "-d", "/does/not/exist.json"}, errors.ErrCodeFileNotFound},
		{"bad extension", []string{"layout", "-d", "data.csv"}, errors.ErrCodeInvalidFormat},
		{"missing config", []string{"--config", "/does/not/exist.toml", "layout"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestEnv(t)
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigFileSeedsLayout(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "metric = \"turnover\"\n")

	if snap := runSnapshot(t); snap.Metric != "turnover" {
		t.Errorf("metric = %q, want turnover from config", snap.Metric)
	}
	if snap := runSnapshot(t, "-m", "persons"); snap.Metric != "persons" {
		t.Errorf("metric = %q, flag should win", snap.Metric)
	}

	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `metric = "turnover"`) {
		t.Errorf("config show:\n%s", out)
	}
}

func TestFrameJSON(t *testing.T) {
	newTestEnv(t)

	tests := []struct {
		name   string
		args   []string
		wantID int
	}{
		{"centred", nil, 1},
		{"index", []string{"--index", "1"}, 13},
		{"scroll", []string{"--scroll", "192", "--spacing", "96"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"frame", "-f", "json"}, tt.args...)...)
			if err != nil {
				t.Fatal(err)
			}
			var fr lineup.Frame
			if err := json.Unmarshal([]byte(out), &fr); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if fr.SelectedID == nil || *fr.SelectedID != tt.wantID {
				t.Errorf("selected = %v, want %d", fr.SelectedID, tt.wantID)
			}
		})
	}
}

func TestFrameSVGFile(t *testing.T) {
	newTestEnv(t)
	path := filepath.Join(t.TempDir(), "frame.svg")
	if _, err := run(t, "frame", "--labels", "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte("World")) {
		t.Errorf("unexpected svg:\n%s", data)
	}
}

func TestFrameFlagErrors(t *testing.T) {
	newTestEnv(t)
	if _, err := run(t, "frame", "--index", "1", "--scroll", "10"); err == nil {
		t.Error("--index and --scroll should be exclusive")
	}
	if _, err := run(t, "frame", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif: err = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	want := filepath.Join(env.cacheHome, appName)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	if _, err := run(t, "layout"); err != nil {
		t.Fatal(err)
	}
	if countEntries(want) == 0 {
		t.Fatal("layout did not populate the file cache")
	}
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n := countEntries(want); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)
	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(env.configHome, appName, "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}
}

func TestCompletion(t *testing.T) {
	newTestEnv(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bubblerow") {
		t.Error("bash completion does not mention bubblerow")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
