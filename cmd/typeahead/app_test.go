package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func dummyCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	f := cmd.Flags()
	f.IntVar(&maxCost, "max-cost", 2, "")
	f.IntVar(&limit, "limit", 5, "")
	f.BoolVar(&prefixOnly, "prefix-only", false, "")
	f.StringVar(&dataPath, "data", "", "")
	f.BoolVar(&watch, "watch", false, "")
	require.NoError(t, f.Parse(args))
	return cmd
}

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.MaxCost = 1

	applyFlags(dummyCmd(t, "--limit", "9", "--data", "words.txt"), cfg)
	assert.Equal(t, 9, cfg.Engine.Limit)
	assert.Equal(t, "words.txt", cfg.Vocab.Path)
	assert.Equal(t, 1, cfg.Engine.MaxCost, "unset flags keep the config value")
	assert.False(t, cfg.Vocab.Watch)
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("cat\ncatfish\ndog\n"), 0o644))
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[engine]\nlimit = 1\n"), 0o644))

	old := configPath
	configPath = cfgFile
	defer func() { configPath = old }()

	a, err := setup(dummyCmd(t, "--data", words), true)
	require.NoError(t, err)
	assert.Equal(t, cfgFile, a.cfgPath)
	assert.Nil(t, a.watcher)

	a.session.Apply(session.InsertChar{Ch: 'c'})
	assert.Len(t, a.session.Suggestions(), 1)
	assert.Equal(t, "cat", a.session.Ghost())
}

func TestSetupEmptyVocabulary(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("# nothing\n"), 0o644))
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(""), 0o644))

	old := configPath
	configPath = cfgFile
	defer func() { configPath = old }()

	_, err := setup(dummyCmd(t, "--data", words), true)
	assert.ErrorContains(t, err, "no usable words")
}

func TestResolveVocabPath(t *testing.T) {
	p, err := resolveVocabPath("given.txt")
	require.NoError(t, err)
	assert.Equal(t, "given.txt", p)
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "words.csv")
	require.NoError(t, os.WriteFile(src, []byte("Dog,3\ncat,1\ncat,2\neel,4\n"), 0o644))
	out := filepath.Join(dir, "chunks")

	old := chunkSize
	chunkSize = 2
	defer func() { chunkSize = old }()

	require.NoError(t, runConvert(convertCmd, []string{src, out}))

	chunks, err := dictionary.ChunkFiles(out)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)

	ix, err := dictionary.LoadIndex(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "eel"}, ix.Words())
}
