// Package providers holds the concrete operation handlers behind the
// dispatcher: filesystem, memory, web search, documentation, and workflow.
package providers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/registry"
	"github.com/steward-ai/steward/internal/sandbox"
)

const (
	maxReadBytes   = 1 << 20 // files past this return a placeholder, not content
	maxReadLines   = 100
	maxSearchHits  = 50
	defaultPattern = "*"
)

// Filesystem serves list_directory, read_file, and search_files. Every path
// parameter passes the sandbox before any filesystem call.
type Filesystem struct {
	policy *sandbox.Policy
	logger *zap.Logger
}

func NewFilesystem(policy *sandbox.Policy, logger *zap.Logger) *Filesystem {
	return &Filesystem{policy: policy, logger: logger.Named("filesystem")}
}

func (f *Filesystem) Provider() string { return registry.ProviderFilesystem }

func (f *Filesystem) Invoke(ctx context.Context, op string, params map[string]any) dispatch.Result {
	switch op {
	case registry.OpListDirectory:
		return f.listDirectory(stringParam(params, "path"))
	case registry.OpReadFile:
		return f.readFile(stringParam(params, "path"))
	case registry.OpSearchFiles:
		pattern := stringParam(params, "pattern")
		if pattern == "" {
			pattern = defaultPattern
		}
		return f.searchFiles(stringParam(params, "path"), pattern)
	default:
		return dispatch.Errorf(dispatch.KindNotFound, "unknown filesystem operation: %s", op)
	}
}

func (f *Filesystem) listDirectory(path string) dispatch.Result {
	if !f.policy.IsAllowed(path) {
		return dispatch.Errorf(dispatch.KindAccessDenied, "access denied to path: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dispatch.Errorf(dispatch.KindNotFound, "directory not found: %s", path)
		}
		return dispatch.Errorf(dispatch.KindUpstream, "failed to list directory: %v", err)
	}

	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// best-effort enumeration: unreadable entries are skipped
			continue
		}
		item := map[string]any{
			"name":     entry.Name(),
			"path":     filepath.Join(path, entry.Name()),
			"type":     entryType(entry.IsDir()),
			"modified": info.ModTime().Unix(),
		}
		if entry.IsDir() {
			item["size"] = nil
		} else {
			item["size"] = info.Size()
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i]["type"].(string), items[j]["type"].(string)
		if ti != tj {
			return ti == "directory"
		}
		return strings.ToLower(items[i]["name"].(string)) < strings.ToLower(items[j]["name"].(string))
	})

	out := map[string]any{"path": path, "items": items}
	if parent := filepath.Dir(path); parent != path {
		out["parent"] = parent
	} else {
		out["parent"] = nil
	}
	return dispatch.OK(out)
}

func (f *Filesystem) readFile(path string) dispatch.Result {
	if !f.policy.IsAllowed(path) {
		return dispatch.Errorf(dispatch.KindAccessDenied, "access denied to path: %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dispatch.Errorf(dispatch.KindNotFound, "file not found: %s", path)
		}
		return dispatch.Errorf(dispatch.KindUpstream, "failed to read file: %v", err)
	}
	if info.IsDir() {
		return dispatch.Errorf(dispatch.KindNotFound, "file not found: %s", path)
	}

	// Size gate runs before any read so oversized files never load into memory.
	if info.Size() > maxReadBytes {
		return dispatch.OK(map[string]any{
			"path":      path,
			"content":   fmt.Sprintf("File too large (%d bytes). Maximum allowed size is 1MB.", info.Size()),
			"truncated": true,
			"size":      info.Size(),
			"encoding":  "binary",
		})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return dispatch.Errorf(dispatch.KindUpstream, "failed to read file: %v", err)
	}

	if !utf8.Valid(data) {
		return dispatch.OK(map[string]any{
			"path":      path,
			"content":   fmt.Sprintf("Binary file (%d bytes). Cannot display content.", info.Size()),
			"truncated": false,
			"size":      info.Size(),
			"encoding":  "binary",
		})
	}

	lines := splitKeepEnds(string(data))
	shown := len(lines)
	truncated := false
	if shown > maxReadLines {
		shown = maxReadLines
		truncated = true
	}

	return dispatch.OK(map[string]any{
		"path":        path,
		"content":     strings.Join(lines[:shown], ""),
		"truncated":   truncated,
		"total_lines": len(lines),
		"shown_lines": shown,
		"size":        info.Size(),
		"encoding":    "utf-8",
	})
}

func (f *Filesystem) searchFiles(path, pattern string) dispatch.Result {
	if !f.policy.IsAllowed(path) {
		return dispatch.Errorf(dispatch.KindAccessDenied, "access denied to search path: %s", path)
	}

	matches := make([]map[string]any, 0, 8)
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			return nil // skip unreadable subtrees
		}
		if p == path {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr != nil || !ok {
			return matchErr
		}
		if !f.policy.IsAllowed(p) {
			return nil
		}
		m := map[string]any{
			"name": d.Name(),
			"path": p,
			"type": entryType(d.IsDir()),
		}
		if d.IsDir() {
			m["size"] = nil
		} else if info, err := d.Info(); err == nil {
			m["size"] = info.Size()
		}
		matches = append(matches, m)
		if len(matches) >= maxSearchHits {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			return dispatch.Errorf(dispatch.KindNotFound, "search path not found: %s", path)
		}
		if walkErr == filepath.ErrBadPattern {
			return dispatch.Errorf(dispatch.KindValidation, "invalid search pattern: %s", pattern)
		}
		return dispatch.Errorf(dispatch.KindUpstream, "failed to search files: %v", walkErr)
	}

	return dispatch.OK(map[string]any{
		"matches":     matches,
		"pattern":     pattern,
		"search_path": path,
	})
}

// splitKeepEnds splits s into lines retaining the trailing newline of each,
// so rejoining the slice reproduces the exact input.
func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for len(s) > 0 {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:idx+1])
		s = s[idx+1:]
	}
	return lines
}

func entryType(isDir bool) string {
	if isDir {
		return "directory"
	}
	return "file"
}

func stringParam(params map[string]any, name string) string {
	v, _ := params[name].(string)
	return v
}
