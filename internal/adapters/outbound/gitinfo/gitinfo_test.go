package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/openkraft/codereview/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_ChangedFiles(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	writeFile(t, dir, "clean.py", "x = 1\n")
	writeFile(t, dir, "edited.py", "y = 1\n")
	writeFile(t, dir, "removed.js", "var z = 1;\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	writeFile(t, dir, "edited.py", "y = eval(input())\n")
	writeFile(t, dir, "new.ts", "let a = 1;\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "removed.js")))

	gi := gitinfo.New()
	files, err := gi.ChangedFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "edited.py", filepath.Base(files[0]))
	assert.Equal(t, "new.ts", filepath.Base(files[1]))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), f)
	}
}

func TestGitInfo_ChangedFiles_CleanTree(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	writeFile(t, dir, "a.py", "pass\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	files, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitInfo_ChangedFiles_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := gitinfo.New().ChangedFiles(dir)
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
