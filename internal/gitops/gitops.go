// Package gitops records data file history in a git repository.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is a git working tree holding the data files.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths and commits them. Paths that do not exist or lie
// outside the repository are skipped. It returns the short commit hash,
// or an empty string when none of the paths changed.
func (r Repo) Commit(message string, paths ...string) (string, error) {
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		rp, err := filepath.Rel(r.Dir, p)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", p, err)
		}
		if strings.HasPrefix(rp, "..") {
			continue
		}
		rel = append(rel, rp)
	}
	if len(rel) == 0 {
		return "", nil
	}

	add := r.git(append([]string{"add", "--"}, rel...)...)
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Exit status 0 means nothing is staged.
	diff := r.git("diff", "--cached", "--quiet")
	err := diff.Run()
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", fmt.Errorf("git diff: %w", err)
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	commit := r.git("commit", "--quiet", "-m", message, "--author", author)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := r.git("rev-parse", "--short", "HEAD")
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// git builds a command run inside the repo with the configured identity
// as committer, so commits work without a global git config.
func (r Repo) git(args ...string) *exec.Cmd {
	full := append([]string{
		"-c", "user.name=" + r.AuthorName,
		"-c", "user.email=" + r.AuthorEmail,
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = r.Dir
	return cmd
}
