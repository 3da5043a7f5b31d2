package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Policy is the set of root directories below which filesystem access is
// permitted. It is built once at startup and is safe for concurrent use.
type Policy struct {
	roots  []string
	logger *zap.Logger
}

// NewPolicy canonicalizes the given roots and returns a Policy. Roots that
// cannot be made absolute are skipped with a warning; a root that does not
// exist yet is kept in cleaned form so it starts matching once created.
func NewPolicy(roots []string, logger *zap.Logger) *Policy {
	p := &Policy{logger: logger}
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			logger.Warn("skipping sandbox root", zap.String("root", r), zap.Error(err))
			continue
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		p.roots = append(p.roots, abs)
	}
	return p
}

// Roots returns the canonicalized root list.
func (p *Policy) Roots() []string {
	out := make([]string, len(p.roots))
	copy(out, p.roots)
	return out
}

// IsAllowed reports whether path is equal to or a descendant of at least one
// configured root after canonicalization. Canonicalization failures (empty or
// malformed paths) deny access. The check goes through filepath.Rel, never a
// string prefix comparison, so /home/alice2 is not a descendant of
// /home/alice.
func (p *Policy) IsAllowed(path string) bool {
	canon, err := canonicalize(path)
	if err != nil {
		return false
	}
	for _, root := range p.roots {
		if isDescendant(root, canon) {
			return true
		}
	}
	return false
}

// canonicalize resolves path to an absolute, symlink-free form. For paths
// whose leaf does not exist yet, the parent directory is resolved and the
// leaf re-joined, so the ancestor check still sees through symlinked parents.
func canonicalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", os.ErrInvalid
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	dir, base := filepath.Split(abs)
	resolvedDir, err := filepath.EvalSymlinks(filepath.Clean(dir))
	if err != nil {
		// Neither the path nor its parent resolves. Abs already collapsed
		// any ".." segments, so the cleaned form is still safe to compare.
		return abs, nil
	}
	return filepath.Join(resolvedDir, base), nil
}

func isDescendant(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
