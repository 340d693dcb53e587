package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"nidhi/internal/core"
	"nidhi/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseAggregateOptions reads window, from/to, kind, and the budget-exclusion
// flag from the query string. Window defaults to month; custom requires both
// bounds as YYYY-MM-DD.
func parseAggregateOptions(r *http.Request) (engine.AggregateOptions, error) {
	q := r.URL.Query()
	opts := engine.AggregateOptions{Window: engine.WindowMonth}

	switch w := strings.TrimSpace(q.Get("window")); w {
	case "", string(engine.WindowMonth):
	case string(engine.WindowToday), string(engine.WindowWeek):
		opts.Window = engine.Window(w)
	case string(engine.WindowCustom):
		from, err := core.ParseDate(strings.TrimSpace(q.Get("from")))
		if err != nil {
			return opts, fmt.Errorf("custom window requires from=YYYY-MM-DD")
		}
		to, err := core.ParseDate(strings.TrimSpace(q.Get("to")))
		if err != nil {
			return opts, fmt.Errorf("custom window requires to=YYYY-MM-DD")
		}
		if to.Before(from.Time) {
			return opts, fmt.Errorf("custom window end %s precedes start %s", to, from)
		}
		opts.Window = engine.WindowCustom
		opts.Custom = engine.NewRange(from, to)
	default:
		return opts, fmt.Errorf("unknown window %q", w)
	}

	switch k := strings.TrimSpace(q.Get("kind")); k {
	case "":
	case string(core.Expense), string(core.Income):
		opts.Kind = core.TxKind(k)
	default:
		return opts, fmt.Errorf("unknown kind %q", k)
	}

	if v := strings.TrimSpace(q.Get("exclude_budget_excluded")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("exclude_budget_excluded must be a boolean")
		}
		opts.ExcludeBudgetExcluded = b
	}

	return opts, nil
}

// aggregateCacheKey is stable for identical query semantics regardless of
// parameter order in the URL.
func aggregateCacheKey(opts engine.AggregateOptions) string {
	var b strings.Builder
	b.WriteString(string(opts.Window))
	if opts.Window == engine.WindowCustom {
		b.WriteString("|")
		b.WriteString(opts.Custom.From.Format("2006-01-02"))
		b.WriteString("|")
		b.WriteString(opts.Custom.To.Format("2006-01-02"))
	}
	b.WriteString("|")
	b.WriteString(string(opts.Kind))
	if opts.ExcludeBudgetExcluded {
		b.WriteString("|nobex")
	}
	return b.String()
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("missing required parameter %q", name)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be a number", name)
	}
	return f, nil
}

func parseOptionalFloatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be a number", name)
	}
	return f, nil
}
