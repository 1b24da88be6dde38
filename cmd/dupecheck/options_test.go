package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dupecheck "github.com/Kaedenn/dupecheck/pkg"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func emptyConfig(t *testing.T) *dupecheck.Config {
	t.Helper()
	cfg, err := dupecheck.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestResolveRoots_DefaultsToCwd(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	roots, err := resolveRoots(nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, roots[0])
}

func TestResolveRoots_MakesAbsolute(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	chdir(t, dir)

	roots, err := resolveRoots([]string{"sub"})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, filepath.IsAbs(roots[0]))
	assert.Equal(t, "sub", filepath.Base(roots[0]))
}

func TestResolveCachePath_NoCache(t *testing.T) {
	opts := &options{noCache: true, cachePath: dupecheck.DefaultCacheName}
	path, err := resolveCachePath(opts, emptyConfig(t))
	require.NoError(t, err)
	assert.Equal(t, os.DevNull, path)
}

func TestResolveCachePath_Default(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	opts := &options{cachePath: dupecheck.DefaultCacheName}
	path, err := resolveCachePath(opts, emptyConfig(t))
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, dupecheck.DefaultCacheName), path)
}

func TestResolveCachePath_DirectoryGetsDefaultName(t *testing.T) {
	dir := t.TempDir()
	opts := &options{cachePath: dir}
	path, err := resolveCachePath(opts, emptyConfig(t))
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, dupecheck.DefaultCacheName), path)
}

func TestResolveCachePath_ConfigOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	configured := filepath.Join(dir, "custom.cache")
	configPath := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(configPath, []byte("[cache]\npath = "+configured+"\n"), 0644))
	cfg, err := dupecheck.LoadConfig(configPath)
	require.NoError(t, err)

	opts := &options{cachePath: dupecheck.DefaultCacheName}
	path, err := resolveCachePath(opts, cfg)
	require.NoError(t, err)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedDir, "custom.cache"), path)

	// An explicit --cache beats the config file.
	explicit := filepath.Join(dir, "explicit.cache")
	opts = &options{cachePath: explicit}
	path, err = resolveCachePath(opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedDir, "explicit.cache"), path)
}

func TestBuildExcludeList_Defaults(t *testing.T) {
	el := buildExcludeList(&options{}, emptyConfig(t))
	assert.True(t, el.Match("/repo/.git/config"))
	assert.True(t, el.Match("/repo/.svn/entries"))
}

func TestBuildExcludeList_DefaultsSuppressed(t *testing.T) {
	el := buildExcludeList(&options{noDefaultExclude: true}, emptyConfig(t))
	assert.False(t, el.Match("/repo/.git/config"))
	assert.True(t, el.Empty())
}

func TestBuildExcludeList_FlagFamilies(t *testing.T) {
	opts := &options{
		excludeDirs:      []string{"node_modules"},
		excludeDirGlobs:  []string{".?*"},
		excludePathGlobs: []string{"/srv/backup/*"},
		excludeFiles:     []string{"Thumbs.db"},
		excludeFileGlobs: []string{"*.tmp"},
		noDefaultExclude: true,
	}
	el := buildExcludeList(opts, emptyConfig(t))

	assert.True(t, el.Match("/code/node_modules/pkg/index.js"))
	assert.True(t, el.Match("/home/user/.config/app/settings"))
	assert.True(t, el.Match("/srv/backup/nightly"))
	assert.True(t, el.Match("/photos/Thumbs.db"))
	assert.True(t, el.Match("/work/scratch.tmp"))
	assert.False(t, el.Match("/work/keep.txt"))
}

func TestBuildExcludeList_ConfigRulesIncluded(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(configPath, []byte("[exclude]\nfile-globs = *.bak\n"), 0644))
	cfg, err := dupecheck.LoadConfig(configPath)
	require.NoError(t, err)

	el := buildExcludeList(&options{noDefaultExclude: true}, cfg)
	assert.True(t, el.Match("/work/old.bak"))
}
