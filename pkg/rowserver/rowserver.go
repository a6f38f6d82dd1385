// Package rowserver serves a row store over the subset of the PostgREST
// dialect that the remote client speaks, so a local store can stand in for a
// hosted table.
package rowserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/store"
)

// DefaultPrefix matches the hosted REST path.
const DefaultPrefix = "/rest/v1"

const (
	minDate = datekey.Key("0000-01-01")
	maxDate = datekey.Key("9999-12-31")
)

// Options configures the router.
type Options struct {
	// Table is the only table name served.
	Table string
	// Key, when set, must be presented as the apikey header or a bearer token.
	Key string
	Log *slog.Logger
}

type handler struct {
	rs    store.RowStore
	table string
	log   *slog.Logger
}

// NewRouter returns a router serving rs at /{table}. Mount it under
// DefaultPrefix.
func NewRouter(rs store.RowStore, opts Options) chi.Router {
	h := &handler{rs: rs, table: opts.Table, log: opts.Log}
	if h.table == "" {
		h.table = "notes"
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(KeyMiddleware(opts.Key))

	r.Route("/{table}", func(r chi.Router) {
		r.Use(h.tableOnly)
		r.Head("/", h.probe)
		r.Get("/", h.list)
		r.Post("/", h.insert)
		r.Delete("/", h.remove)
	})
	return r
}

// NewServer mounts the router under DefaultPrefix with health checks.
func NewServer(rs store.RowStore, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount(DefaultPrefix, NewRouter(rs, opts))
	return r
}

// KeyMiddleware rejects requests that do not carry key. An empty key
// disables the check.
func KeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if r.Header.Get("apikey") != key && bearer != key {
				writeError(w, &store.Error{Status: http.StatusUnauthorized, Message: "Invalid API key", Hint: "Double check your key."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func (h *handler) tableOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t := chi.URLParam(r, "table"); t != h.table {
			writeError(w, &store.Error{
				Status:  http.StatusNotFound,
				Code:    "42P01",
				Message: fmt.Sprintf("relation \"public.%s\" does not exist", t),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) probe(w http.ResponseWriter, r *http.Request) {
	if err := h.rs.Probe(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Range", "*/*")
	w.WriteHeader(http.StatusOK)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateBounds(r.URL.Query()["note_date"])
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.rs.Range(r.Context(), start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	switch q.Get("order") {
	case "", "created_at.asc":
	case "created_at.desc":
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	default:
		writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "PGRST100", Message: "unsupported order " + q.Get("order")})
		return
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "PGRST103", Message: "invalid limit " + l})
			return
		}
		if n < len(rows) {
			rows = rows[:n]
		}
	}
	if rows == nil {
		rows = []note.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type insertBody struct {
	Date    *string `json:"note_date"`
	Content *string `json:"content"`
}

func (h *handler) insert(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "PGRST102", Message: "Empty or invalid json"})
		return
	}
	var bodies []insertBody
	if t := strings.TrimSpace(string(raw)); strings.HasPrefix(t, "[") {
		if err := json.Unmarshal(raw, &bodies); err != nil {
			writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "PGRST102", Message: err.Error()})
			return
		}
	} else {
		var b insertBody
		if err := json.Unmarshal(raw, &b); err != nil {
			writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "PGRST102", Message: err.Error()})
			return
		}
		bodies = append(bodies, b)
	}

	for _, b := range bodies {
		if b.Date == nil || b.Content == nil {
			writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "23502", Message: "null value in column violates not-null constraint"})
			return
		}
		k, err := datekey.Parse(*b.Date)
		if err != nil {
			writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "22007", Message: fmt.Sprintf("invalid input syntax for type date: %q", *b.Date)})
			return
		}
		if err := h.rs.Insert(r.Context(), k, *b.Content); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutPrefix(r.URL.Query().Get("id"), "eq.")
	if !ok || id == "" {
		writeError(w, &store.Error{Status: http.StatusBadRequest, Code: "21000", Message: "DELETE requires a WHERE clause"})
		return
	}
	if err := h.rs.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dateBounds folds note_date filters (gte., lte., eq.) into an inclusive range.
func dateBounds(filters []string) (datekey.Key, datekey.Key, error) {
	start, end := minDate, maxDate
	for _, f := range filters {
		op, val, ok := strings.Cut(f, ".")
		if !ok {
			return "", "", &store.Error{Status: http.StatusBadRequest, Code: "PGRST100", Message: "failed to parse filter " + f}
		}
		switch op {
		case "gte", "lte", "eq":
		default:
			return "", "", &store.Error{Status: http.StatusBadRequest, Code: "PGRST100", Message: "unsupported operator " + op}
		}
		k, err := datekey.Parse(val)
		if err != nil {
			return "", "", &store.Error{Status: http.StatusBadRequest, Code: "22007", Message: fmt.Sprintf("invalid input syntax for type date: %q", val)}
		}
		switch op {
		case "gte":
			if k > start {
				start = k
			}
		case "lte":
			if k < end {
				end = k
			}
		case "eq":
			if k > start {
				start = k
			}
			if k < end {
				end = k
			}
		}
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, err error) {
	var se *store.Error
	if !errors.As(err, &se) {
		se = &store.Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	status := se.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, se)
}
