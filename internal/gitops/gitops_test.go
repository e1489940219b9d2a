package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func testRepo(t *testing.T) Repo {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	return Repo{Dir: dir, AuthorName: "Test Author", AuthorEmail: "test@example.com"}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	repo := testRepo(t)
	path := filepath.Join(repo.Dir, "expenses.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	hash, err := repo.Commit("add: test commit", path)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = repo.Dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "add: test commit|Test Author <test@example.com>")
}

func TestCommit_NoChanges(t *testing.T) {
	repo := testRepo(t)
	path := filepath.Join(repo.Dir, "expenses.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := repo.Commit("first", path)
	require.NoError(t, err)

	hash, err := repo.Commit("second", path)
	require.NoError(t, err)
	assert.Empty(t, hash, "unchanged file should not create a commit")
}

func TestCommit_OnlyGivenPaths(t *testing.T) {
	repo := testRepo(t)
	tracked := filepath.Join(repo.Dir, "expenses.csv")
	other := filepath.Join(repo.Dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))

	_, err := repo.Commit("add: data", tracked, filepath.Join(repo.Dir, "missing.csv"))
	require.NoError(t, err)

	status := exec.Command("git", "status", "--porcelain")
	status.Dir = repo.Dir
	out, err := status.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? notes.txt")
	assert.NotContains(t, string(out), "expenses.csv")
}

func TestCommit_SkipsPathsOutsideRepo(t *testing.T) {
	repo := testRepo(t)
	outside := filepath.Join(t.TempDir(), "activity.csv")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	hash, err := repo.Commit("add: nothing inside", outside)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
