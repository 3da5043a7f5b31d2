package providers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
	"github.com/steward-ai/steward/internal/sandbox"
)

func newTestFilesystem(t *testing.T, roots ...string) *Filesystem {
	t.Helper()
	policy := sandbox.NewPolicy(roots, zap.NewNop())
	return NewFilesystem(policy, zap.NewNop())
}

func TestListDirectorySortsDirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta.txt", "Alpha.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"workspace", "Build"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpListDirectory, map[string]any{"path": root})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	items := res.Data["items"].([]map[string]any)
	var names []string
	for _, item := range items {
		names = append(names, item["name"].(string))
	}
	want := []string{"Build", "workspace", "Alpha.txt", "zeta.txt"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("order %v, want %v", names, want)
	}
	if items[0]["type"] != "directory" || items[0]["size"] != nil {
		t.Fatalf("directory entry malformed: %v", items[0])
	}
}

func TestListDirectoryOutsideSandbox(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpListDirectory, map[string]any{"path": outside})
	if !res.IsErr() || res.Err.Kind != dispatch.KindAccessDenied {
		t.Fatalf("got %+v, want access_denied", res)
	}
}

func TestListDirectoryMissing(t *testing.T) {
	root := t.TempDir()
	fs := newTestFilesystem(t, root)

	res := fs.Invoke(context.Background(), registry.OpListDirectory, map[string]any{"path": filepath.Join(root, "nope")})
	if !res.IsErr() || res.Err.Kind != dispatch.KindNotFound {
		t.Fatalf("got %+v, want not_found", res)
	}
}

func TestReadFileRoundTrip(t *testing.T) {
	root := t.TempDir()
	content := "line one\nline two\nno trailing newline"
	path := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": path})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := res.Data["content"].(string); got != content {
		t.Fatalf("content %q, want %q", got, content)
	}
	if res.Data["truncated"].(bool) {
		t.Fatal("small file reported truncated")
	}
	if res.Data["encoding"] != "utf-8" {
		t.Fatalf("encoding %v, want utf-8", res.Data["encoding"])
	}
	if res.Data["total_lines"].(int) != 3 || res.Data["shown_lines"].(int) != 3 {
		t.Fatalf("line counts: %v / %v", res.Data["total_lines"], res.Data["shown_lines"])
	}
}

func TestReadFileOversized(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.bin")
	if err := os.WriteFile(path, make([]byte, maxReadBytes+1), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": path})
	if res.IsErr() {
		t.Fatalf("oversized read must not be an error: %v", res.Err)
	}
	if !res.Data["truncated"].(bool) {
		t.Fatal("oversized file not flagged truncated")
	}
	content := res.Data["content"].(string)
	if !strings.Contains(content, "too large") {
		t.Fatalf("content is not a placeholder: %q", content)
	}
	if len(content) > 200 {
		t.Fatalf("placeholder suspiciously long (%d bytes), raw bytes leaked?", len(content))
	}
}

func TestReadFileLineCap(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "long.txt")
	var b strings.Builder
	for i := 0; i < 150; i++ {
		b.WriteString("line\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": path})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if !res.Data["truncated"].(bool) {
		t.Fatal("long file not flagged truncated")
	}
	if res.Data["total_lines"].(int) != 150 || res.Data["shown_lines"].(int) != maxReadLines {
		t.Fatalf("line counts: %v / %v", res.Data["total_lines"], res.Data["shown_lines"])
	}
	if got := strings.Count(res.Data["content"].(string), "\n"); got != maxReadLines {
		t.Fatalf("content has %d lines, want %d", got, maxReadLines)
	}
}

func TestReadFileBinary(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.bin")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": path})
	if res.IsErr() {
		t.Fatalf("binary read must not be an error: %v", res.Err)
	}
	if res.Data["encoding"] != "binary" {
		t.Fatalf("encoding %v, want binary", res.Data["encoding"])
	}
	if !strings.Contains(res.Data["content"].(string), "Binary file") {
		t.Fatalf("content is not a placeholder: %q", res.Data["content"])
	}
}

func TestReadFileMissingAndDenied(t *testing.T) {
	root := t.TempDir()
	fs := newTestFilesystem(t, root)

	res := fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": filepath.Join(root, "nope.txt")})
	if !res.IsErr() || res.Err.Kind != dispatch.KindNotFound {
		t.Fatalf("got %+v, want not_found", res)
	}

	res = fs.Invoke(context.Background(), registry.OpReadFile, map[string]any{"path": "/etc/passwd"})
	if !res.IsErr() || res.Err.Kind != dispatch.KindAccessDenied {
		t.Fatalf("got %+v, want access_denied", res)
	}
}

func TestSearchFilesPatternAndCap(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "docs")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "guide.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		name := filepath.Join(root, "file"+strings.Repeat("x", i%5)+string(rune('a'+i%26))+".txt")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fs := newTestFilesystem(t, root)

	res := fs.Invoke(context.Background(), registry.OpSearchFiles, map[string]any{"path": root, "pattern": "*.md"})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	matches := res.Data["matches"].([]map[string]any)
	if len(matches) != 1 || matches[0]["name"] != "guide.md" {
		t.Fatalf("matches %v, want only guide.md", matches)
	}

	res = fs.Invoke(context.Background(), registry.OpSearchFiles, map[string]any{"path": root, "pattern": "*"})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if n := len(res.Data["matches"].([]map[string]any)); n > maxSearchHits {
		t.Fatalf("%d matches, cap is %d", n, maxSearchHits)
	}
}

func TestSearchFilesDefaultPattern(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := newTestFilesystem(t, root)
	res := fs.Invoke(context.Background(), registry.OpSearchFiles, map[string]any{"path": root})
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Data["pattern"] != "*" {
		t.Fatalf("pattern %v, want *", res.Data["pattern"])
	}
}

func TestUnknownFilesystemOperation(t *testing.T) {
	fs := newTestFilesystem(t, t.TempDir())
	res := fs.Invoke(context.Background(), "delete_file", map[string]any{"path": "/tmp/x"})
	if !res.IsErr() || res.Err.Kind != dispatch.KindNotFound {
		t.Fatalf("got %+v, want not_found", res)
	}
}
