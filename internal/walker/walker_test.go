package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func relPaths(files []FileInfo) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestWalkFindsPythonFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "print('hi')\n")
	writeFile(t, dir, "lib/util.py", "x = 1\n")
	writeFile(t, dir, "README.md", "# docs\n")
	writeFile(t, dir, "__pycache__/app.cpython-311.pyc", "binary")
	writeFile(t, dir, "__pycache__/cached.py", "x = 1\n")
	writeFile(t, dir, ".venv/lib/site.py", "x = 1\n")

	files, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(files)
	want := []string{"app.py", "lib/util.py"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalkSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.py", "x = 1\n")

	files, err := Walk(Config{RootDir: filepath.Join(dir, "only.py")})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "only.py" {
		t.Errorf("files = %v", relPaths(files))
	}

	if _, err := Walk(Config{RootDir: filepath.Join(dir, "missing.py")}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWalkExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, "test_app.py", "x = 1\n")
	writeFile(t, dir, "tests/test_util.py", "x = 1\n")

	files, err := Walk(Config{
		RootDir: dir,
		Exclude: []string{"test_*.py", "**/tests/**"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "app.py" {
		t.Errorf("files = %v, want [app.py]", got)
	}
}

func TestWalkGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated.py\n")
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, "generated.py", "x = 1\n")

	files, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "app.py" {
		t.Errorf("files = %v, want [app.py]", got)
	}
}

func TestWalkMaxFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.py", "x = 1\n")
	writeFile(t, dir, "c.py", "x = 1\n")

	files, err := Walk(Config{RootDir: dir, MaxFiles: 2})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2", len(files))
	}
}

func TestWalkSkipsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.py", "x = 1\n")
	big := make([]byte, 2048)
	writeFile(t, dir, "big.py", string(big))

	files, err := Walk(Config{RootDir: dir, MaxFileSize: 1024})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "small.py" {
		t.Errorf("files = %v, want [small.py]", got)
	}
}
