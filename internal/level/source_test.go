package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLevel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "start.yaml", `
name: Start
platforms:
  - {x: 0, y: 300, w: 400, h: 20}
`)

	src := FileSource{Root: dir}

	lvl, err := src.Load("start.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if lvl.Name != "Start" || len(lvl.Platforms) != 1 {
		t.Errorf("Load = %+v", lvl)
	}
}

func TestFileSourceLoadRereadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLevel(t, dir, "edit.yaml", "platforms:\n  - {x: 0, y: 300, w: 100, h: 10}\n")

	src := FileSource{Root: dir}

	before, err := src.Load("edit.yaml")
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}

	// Simulate editing the level between loads.
	if err := os.WriteFile(path, []byte("platforms:\n  - {x: 0, y: 300, w: 100, h: 10}\n  - {x: 200, y: 250, w: 50, h: 10}\n"), 0o644); err != nil {
		t.Fatalf("rewriting level: %v", err)
	}

	after, err := src.Load("edit.yaml")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if len(before.Platforms) != 1 || len(after.Platforms) != 2 {
		t.Errorf("platform counts = %d then %d, expected 1 then 2",
			len(before.Platforms), len(after.Platforms))
	}
}

func TestFileSourceLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "bad.yaml", "platforms: [{x: 1")
	writeLevel(t, dir, "empty.yaml", "name: Empty\nplatforms: []\n")
	writeLevel(t, dir, "level.json", `{"platforms": []}`)

	src := FileSource{Root: dir}

	tests := []struct {
		name    string
		id      string
		wantSub string
	}{
		{"missing file", "nope.yaml", "cannot read"},
		{"malformed yaml", "bad.yaml", "cannot parse"},
		{"fails validation", "empty.yaml", "no platforms"},
		{"unsupported format", "level.json", "unsupported level format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := src.Load(tc.id)
			if err == nil {
				t.Fatalf("Load(%q) succeeded, expected error", tc.id)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestFileSourceList(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.yaml", "platforms: []\n")
	writeLevel(t, dir, "a.yml", "platforms: []\n")
	writeLevel(t, dir, "notes.txt", "not a level\n")

	if err := os.Mkdir(filepath.Join(dir, "extra"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeLevel(t, dir, filepath.Join("extra", "c.yaml"), "platforms: []\n")

	src := FileSource{Root: dir}

	ids, err := src.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"a.yml", "b.yaml", filepath.Join("extra", "c.yaml")}
	if len(ids) != len(want) {
		t.Fatalf("List = %v, expected %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List[%d] = %q, expected %q", i, ids[i], want[i])
		}
	}
}
