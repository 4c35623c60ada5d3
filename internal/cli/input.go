// Package cli is an interactive REPL for trying queries against a corpus.
package cli

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/quickmatch/internal/utils"
	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

var (
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Options tune the REPL.
type Options struct {
	// HistoryFile persists input between sessions. Empty disables history.
	HistoryFile string
	// ShowTiming prints how long each query took.
	ShowTiming bool
}

// InputHandler reads queries and commands and prints ranked matches.
type InputHandler struct {
	matcher      *matcher.Matcher
	config       matcher.Config
	out          *log.Logger
	opts         Options
	requestCount int
}

// NewInputHandler starts with cfg as the query config; commands change it.
// All output goes to out.
func NewInputHandler(m *matcher.Matcher, cfg matcher.Config, out *log.Logger, opts Options) *InputHandler {
	return &InputHandler{
		matcher: m,
		config:  cfg,
		out:     out,
		opts:    opts,
	}
}

// Start runs the loop until :quit, Ctrl+D, or Ctrl+C on an empty line.
func (h *InputHandler) Start() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     h.opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	h.out.Print(headerStyle.Render("QuickMatch CLI"))
	h.out.Printf("%s items indexed. Type a query and press Enter, :help for commands.",
		utils.FormatWithCommas(h.matcher.Len()))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if !h.HandleLine(line) {
			return nil
		}
	}
}

// HandleLine processes one line of input and reports whether to keep going.
func (h *InputHandler) HandleLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if command, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), ":"); ok {
		return h.handleCommand(command)
	}
	h.handleInput(line)
	return true
}

// handleInput runs a query and prints the results.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++

	start := time.Now()
	results := h.matcher.MatchWith(query, h.config)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		h.out.Printf("No matches for '%s'", strings.TrimSpace(query))
		return
	}

	summary := ""
	if h.opts.ShowTiming {
		summary = faintStyle.Render(" (" + elapsed.String() + ")")
	}
	h.out.Printf("Found %d matches for '%s'%s:", len(results), strings.TrimSpace(query), summary)
	for i, item := range results {
		h.out.Printf("%2d. %s", i+1, itemStyle.Render(item))
	}
}
