package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/tui"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app is everything a mode needs, built once from config and flags.
type app struct {
	cfg        *config.Config
	cfgPath    string
	vocabPath  string
	engine     *fuzzy.Engine
	engineOpts []fuzzy.Option
	session    *session.Session
	watcher    *dictionary.Watcher
}

// setup loads config, applies flag overrides and builds the session.
// Component loggers are prefixed stderr loggers unless quiet is set, in
// which case everything goes through the default logger.
func setup(cmd *cobra.Command, quiet bool) (*app, error) {
	cfg, cfgPath, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))

	vocabPath, err := resolveVocabPath(cfg.Vocab.Path)
	if err != nil {
		return nil, err
	}
	ix, err := dictionary.LoadIndex(vocabPath)
	if err != nil {
		if errors.Is(err, vocab.ErrEmptyVocabulary) {
			return nil, fmt.Errorf("word list %s has no usable words: %w", vocabPath, err)
		}
		return nil, err
	}

	engineLog, sessionLog := log.Default(), log.Default()
	if !quiet {
		engineLog, sessionLog = logger.New("engine"), logger.New("session")
	}
	engineOpts := []fuzzy.Option{
		fuzzy.WithMaxCost(cfg.Engine.MaxCost),
		fuzzy.WithLimit(cfg.Engine.Limit),
		fuzzy.WithPrefixOnly(cfg.Engine.PrefixOnly),
		fuzzy.WithCacheSize(cfg.Engine.CacheSize),
		fuzzy.WithLogger(engineLog),
	}
	engine, err := fuzzy.NewEngine(ix, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init engine: %w", err)
	}
	log.Debug("Engine ready", "words", ix.Len(), "maxCost", cfg.Engine.MaxCost, "limit", cfg.Engine.Limit)

	a := &app{
		cfg:        cfg,
		cfgPath:    cfgPath,
		vocabPath:  vocabPath,
		engine:     engine,
		engineOpts: engineOpts,
		session:    session.New(engine, session.WithLogger(sessionLog)),
	}
	if cfg.Vocab.Watch {
		debounce := time.Duration(cfg.Vocab.DebounceMs) * time.Millisecond
		if a.watcher, err = dictionary.NewWatcher(vocabPath, debounce); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// applyFlags copies explicitly set flags over the config values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-cost") {
		cfg.Engine.MaxCost = maxCost
	}
	if flags.Changed("limit") {
		cfg.Engine.Limit = limit
	}
	if flags.Changed("prefix-only") {
		cfg.Engine.PrefixOnly = prefixOnly
	}
	if flags.Changed("data") {
		cfg.Vocab.Path = dataPath
	}
	if flags.Changed("watch") {
		cfg.Vocab.Watch = watch
	}
}

// resolveVocabPath falls back to a data/ dir next to the binary, then in
// the working directory.
func resolveVocabPath(p string) (string, error) {
	if p != "" {
		return p, nil
	}
	var candidates []string
	if execDir, err := utils.GetExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, "data"))
	}
	candidates = append(candidates, "data")
	for _, c := range candidates {
		if utils.FileExists(c) {
			log.Debugf("Using data dir at: %s", c)
			return c, nil
		}
	}
	return "", errors.New("no word list found: pass --data or set [vocab] path in the config")
}

func (a *app) startWatcher(ctx context.Context) <-chan *vocab.Index {
	if a.watcher == nil {
		return nil
	}
	go a.watcher.Run(ctx)
	log.Debugf("Watching %s for changes", a.vocabPath)
	return a.watcher.Updates()
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	srv := server.NewServer(a.engine, a.session,
		server.WithReadyBanner(a.cfg.Server.ReadyBanner),
		server.WithRequestLogging(a.cfg.Server.LogRequests),
		server.WithReloads(a.startWatcher(ctx), a.engineOpts...),
	)
	showStartupInfo(a.vocabPath, a.engine.Index().Len())

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func runCLI(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	if a.watcher != nil {
		log.Warn("--watch has no effect in cli mode")
		a.watcher.Close()
	}
	log.SetReportTimestamp(false)

	h := cli.NewInputHandler(a.session,
		cli.WithPrompt(a.cfg.CLI.Prompt),
		cli.WithShowCosts(a.cfg.CLI.ShowCosts),
		cli.WithStatusText(a.cfg.Session.WaitingText, a.cfg.Session.NoResultText),
	)
	if err := h.Start(); err != nil {
		return fmt.Errorf("cli error: %w", err)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if logFile != "" {
		closer, err := logger.ToFile(logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()
	} else {
		logger.Discard()
		defer log.SetOutput(os.Stderr)
	}

	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	m := tui.New(a.session,
		tui.WithAcceptKeys(a.cfg.Session.AcceptKeys...),
		tui.WithStatusText(a.cfg.Session.WaitingText, a.cfg.Session.NoResultText),
		tui.WithReloads(a.startWatcher(cmd.Context()), a.engineOpts...),
	)
	return tui.Run(m)
}

// runConvert writes the normalized, deduplicated and sorted words of a
// word list as chunk files that --data can point at.
func runConvert(cmd *cobra.Command, args []string) error {
	src, out := args[0], args[1]
	ix, err := dictionary.LoadIndex(src)
	if err != nil {
		return err
	}
	chunks, err := dictionary.WriteChunkDir(out, ix.Words(), chunkSize)
	if err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}
	for _, c := range chunks {
		log.Debugf("Wrote %s: %d words", c.Filename, c.WordCount)
	}
	log.Infof("Wrote %d words in %d chunks to %s", ix.Len(), len(chunks), out)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ typeahead ] completes the word you are typing")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	_, path, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return err
	}
	fmt.Println(config.GetActiveConfigPath(path))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.RebuildConfigFile()
	if err != nil {
		return fmt.Errorf("failed to rebuild config: %w", err)
	}
	fmt.Println(path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("no writable config file; pass --config")
	}

	flags := cmd.Flags()
	var mc, lim *int
	var po *bool
	if flags.Changed("max-cost") {
		mc = &maxCost
	}
	if flags.Changed("limit") {
		lim = &limit
	}
	if flags.Changed("prefix-only") {
		po = &prefixOnly
	}
	if mc == nil && lim == nil && po == nil {
		return errors.New("nothing to set: pass --max-cost, --limit or --prefix-only")
	}
	if err := cfg.Update(path, mc, lim, po); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	log.Infof("Updated %s", path)
	return nil
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(vocabPath string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" typeahead ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("vocabulary: ( %s, %d words )", vocabPath, words)
	log.Info("status: ready")
	println("===========")

	log.SetLevel(currentLevel)
}
