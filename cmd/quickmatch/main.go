// Copyright 2025 The QuickMatch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs QuickMatch as a msgpack IPC server or an interactive CLI.

QuickMatch indexes a corpus of short strings (product names, commands,
file names) once and answers search-as-you-type queries with a bounded
amount of work per keystroke. Known words are matched exactly; unknown
words fall back to a handful of sampled trigrams.

# Usage

Serve a local corpus over stdin/stdout:

	quickmatch -corpus products.txt

Try queries interactively:

	quickmatch -c -corpus products.txt -limit 10

Load from S3 or SQLite:

	quickmatch -corpus s3://my-bucket/corpora/products.txt.lz4
	quickmatch -corpus "sqlite://shop.db?query=SELECT name FROM products"

Convert a corpus, e.g. to compressed msgpack, and exit:

	quickmatch -corpus products.txt -export products.msgpack.lz4

# Configuration

Settings live in config.toml (or a .yaml file passed with -config). The
default file is created on first run:

	[matcher]
	limit = 100
	trigram_budget = 6
	separators = "_- "

	[corpus]
	source = ""
	lowercase = true

	[server]
	enable_cache = true
	cache_size = 1024

Command-line flags override the file.

# Command Line Flags

	-corpus string
	    Corpus source: file, directory, s3://bucket/key or sqlite://path?query=
	-config string
	    Path to a config file
	-d  Enable debug logging
	-c  Run the interactive CLI instead of the IPC server
	-limit int
	    Maximum results per query
	-budget int
	    Trigram probes per query (0-20, 0 disables fuzzy matching)
	-sep string
	    Word separator characters
	-lower
	    Lowercase the corpus on load
	-export string
	    Write the prepared corpus to this file and exit
	-reset-config
	    Overwrite the default config file with defaults and exit

See package server for the IPC protocol.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bastiangx/quickmatch/internal/cli"
	"github.com/bastiangx/quickmatch/internal/logger"
	"github.com/bastiangx/quickmatch/internal/utils"
	"github.com/bastiangx/quickmatch/pkg/config"
	"github.com/bastiangx/quickmatch/pkg/corpus"
	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/bastiangx/quickmatch/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "quickmatch"
	gh      = "https://github.com/bastiangx/quickmatch"
)

// sigHandler exits cleanly on SIGINT/SIGTERM.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func formatList() string {
	var exts []string
	for _, info := range corpus.ListSupportedFormats() {
		exts = append(exts, info.Extensions...)
	}
	return strings.Join(exts, ", ")
}

// main wires config, corpus and matcher, then hands off to the server or CLI.
func main() {
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	source := flag.String("corpus", "", "Corpus source: file or dir ("+formatList()+", optionally .lz4), s3://bucket/key or sqlite://path?query=")
	configPath := flag.String("config", "", "Path to a config file (.toml or .yaml)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive CLI instead of the IPC server")
	limit := flag.Int("limit", defaults.Matcher.Limit, "Maximum results per query")
	budget := flag.Int("budget", defaults.Matcher.TrigramBudget, "Trigram probes per query (0-20, 0 disables fuzzy matching)")
	separators := flag.String("sep", defaults.Matcher.Separators, "Word separator characters")
	lowercase := flag.Bool("lower", defaults.Corpus.Lowercase, "Lowercase the corpus on load")
	export := flag.String("export", "", "Write the prepared corpus to this file and exit")
	resetConfig := flag.Bool("reset-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to reset config: %v", err)
		}
		log.Printf("Config reset: %s", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	// -d wins over the config level, which is only known after loading.
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !*debugMode {
		log.SetLevel(logger.ParseLevel(appConfig.Log.Level))
	}

	// flags given explicitly override the config file
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["corpus"] {
		appConfig.Corpus.Source = *source
	}
	if set["limit"] {
		appConfig.Matcher.Limit = *limit
	}
	if set["budget"] {
		appConfig.Matcher.TrigramBudget = *budget
	}
	if set["sep"] {
		appConfig.Matcher.Separators = *separators
	}
	if set["lower"] {
		appConfig.Corpus.Lowercase = *lowercase
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	sigHandler()

	src := appConfig.Corpus.Source
	if src == "" {
		log.Fatal("No corpus given. Use -corpus or set [corpus] source in the config file.")
	}

	start := time.Now()
	items, err := corpus.Load(context.Background(), src, corpus.Options{
		Region:    appConfig.Corpus.S3.Region,
		Endpoint:  appConfig.Corpus.S3.Endpoint,
		AccessKey: appConfig.Corpus.S3.AccessKey,
		SecretKey: appConfig.Corpus.S3.SecretKey,
		Lowercase: appConfig.Corpus.Lowercase,
	})
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	if *export != "" {
		if err := corpus.SaveFile(*export, items); err != nil {
			log.Fatalf("Failed to export corpus: %v", err)
		}
		log.Printf("Exported %s items to %s", utils.FormatWithCommas(len(items)), *export)
		return
	}

	m := matcher.New(items, appConfig.MatcherConfig())
	log.Debugf("Init matcher: items=[%d], took [ %v ]", m.Len(), time.Since(start))

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", m.Config().Limit(),
			"budget", m.Config().TrigramBudget(),
			"separators", m.Config().Separators())

		out := logger.NewWithConfig(os.Stdout, "", log.InfoLevel, false, false, log.TextFormatter)
		inputHandler := cli.NewInputHandler(m, m.Config(), out, cli.Options{
			HistoryFile: appConfig.HistoryPath(),
			ShowTiming:  appConfig.CLI.ShowTiming,
		})
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(m, appConfig, activePath)
	showStartupInfo(src, m.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ QuickMatch ] Fuzzy matching at typing speed")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo writes basic info about the init process to stderr.
// stdout is reserved for the protocol.
func showStartupInfo(source string, items int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, " QuickMatch ")
	fmt.Fprintln(os.Stderr, "============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("corpus: ( %s ), %s items", source, utils.FormatWithCommas(items))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "============")

	log.SetLevel(currentLevel)
}
