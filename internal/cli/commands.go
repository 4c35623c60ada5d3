package cli

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bastiangx/quickmatch/internal/utils"
	"github.com/bastiangx/quickmatch/pkg/matcher"
)

const helpText = `Commands:
  :limit N     maximum number of results
  :budget N    trigram probes per query (0 disables fuzzy matching)
  :sep CHARS   word separators for queries, e.g. :sep "_- "
  :config      show the current settings
  :stats       show index statistics
  :help        show this help
  :quit        exit`

// handleCommand runs a ":" command. It returns false for :quit.
func (h *InputHandler) handleCommand(command string) bool {
	name, arg, _ := strings.Cut(command, " ")

	switch name {
	case "q", "quit", "exit":
		return false
	case "help", "h":
		h.out.Print(helpText)
	case "limit":
		if n, ok := h.parseInt(name, arg); ok {
			h.config = h.config.WithLimit(n)
			h.printConfig()
		}
	case "budget":
		if n, ok := h.parseInt(name, arg); ok {
			h.config = h.config.WithTrigramBudget(n)
			h.printConfig()
		}
	case "sep":
		seps, err := parseSeparators(arg)
		if err != nil {
			h.out.Errorf("Invalid separators %s: %v", arg, err)
			return true
		}
		h.config = h.config.WithSeparators(seps)
		h.printConfig()
	case "config":
		h.printConfig()
	case "stats":
		h.printStats()
	default:
		h.out.Errorf("Unknown command :%s, try :help", name)
	}
	return true
}

func (h *InputHandler) parseInt(name, arg string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		h.out.Errorf("Usage: :%s N", name)
		return 0, false
	}
	return n, true
}

// parseSeparators accepts a Go-quoted string, so spaces can be given
// explicitly, or the raw characters.
func parseSeparators(arg string) (string, error) {
	trimmed := strings.TrimSpace(arg)
	if strings.HasPrefix(trimmed, `"`) {
		return strconv.Unquote(trimmed)
	}
	return trimmed, nil
}

func (h *InputHandler) printConfig() {
	h.out.Printf("limit=%d budget=%d separators=%q",
		h.config.Limit(), h.config.TrigramBudget(), h.config.Separators())
}

func (h *InputHandler) printStats() {
	stats := h.matcher.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		h.out.Printf("%-14s %12s", k, utils.FormatWithCommas(stats[k]))
	}
	h.out.Printf("%-14s %12s", "queries", utils.FormatWithCommas(h.requestCount))
}

// Config returns the query config currently in effect.
func (h *InputHandler) Config() matcher.Config {
	return h.config
}
