/*
Package server implements msgpack IPC for QuickMatch.

Clients write a stream of msgpack-encoded requests to stdin and read one
msgpack response per request from stdout. Requests are handled in order,
synchronously, with timing info included in match responses. The first
message the server writes is a ready signal:

	{"status": "ready"}

# Match

A request without an action, or with action "match", runs a query:

	{"id": "q1", "q": "chrom", "l": 5}

Limit ("l"), trigram budget ("b") and separators ("sep") override the live
config for that request only. Results are ranked from 1:

	{"id": "q1", "s": [{"w": "chrome", "r": 1}], "c": 1, "t": 42}

"t" is the time taken in microseconds.

# Config

Config requests change the live matcher config. The index is not rebuilt:
new separators only change how queries are split. Setting "persist" writes
the values back to the config file.

	{"id": "c1", "action": "config", "l": 20, "b": 9, "persist": true}

# Stats and health

	{"id": "s1", "action": "stats"}
	{"id": "h1", "action": "health"}

Errors are reported in-band:

	{"id": "q2", "e": "missing 'q' parameter", "c": 400}
*/
package server

// Actions understood by the server. An empty action means ActionMatch.
const (
	ActionMatch  = "match"
	ActionConfig = "config"
	ActionStats  = "stats"
	ActionHealth = "health"
)

// Request is the single inbound message shape; which fields apply depends on Action.
type Request struct {
	ID         string  `msgpack:"id"`
	Action     string  `msgpack:"action,omitempty"`
	Query      string  `msgpack:"q,omitempty"`
	Limit      int     `msgpack:"l,omitempty"`
	Budget     *int    `msgpack:"b,omitempty"`
	Separators *string `msgpack:"sep,omitempty"`
	Persist    bool    `msgpack:"persist,omitempty"`
}

// MatchResult - one ranked item
type MatchResult struct {
	Item string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// MatchResponse - match response
type MatchResponse struct {
	ID        string        `msgpack:"id"`
	Results   []MatchResult `msgpack:"s"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// ConfigResponse reports the live config after a config request.
type ConfigResponse struct {
	ID            string `msgpack:"id"`
	Status        string `msgpack:"status"`
	Limit         int    `msgpack:"l"`
	TrigramBudget int    `msgpack:"b"`
	Separators    string `msgpack:"sep"`
	Persisted     bool   `msgpack:"persisted,omitempty"`
}

// StatsResponse carries index and cache statistics.
type StatsResponse struct {
	ID       string         `msgpack:"id"`
	Matcher  map[string]int `msgpack:"matcher"`
	Cache    map[string]int `msgpack:"cache,omitempty"`
	Requests int            `msgpack:"requests"`
}

// StatusResponse is used for the ready signal and health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
