package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

const rowColumns = "id,note_date,content,created_at"

// PostgREST talks to a hosted table through the PostgREST query dialect.
type PostgREST struct {
	base       string
	key        string
	httpClient *http.Client
}

// NewPostgREST returns a client for the table described by cfg.
func NewPostgREST(cfg *Config) *PostgREST {
	restPath := cfg.RESTPath
	if restPath == "" {
		restPath = defaultRESTPath
	}
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.URL, "/") + "/" + strings.Trim(restPath, "/") + "/" + url.PathEscape(table)
	if strings.Trim(restPath, "/") == "" {
		base = strings.TrimRight(cfg.URL, "/") + "/" + url.PathEscape(table)
	}
	return &PostgREST{
		base: base,
		key:  cfg.Key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Probe issues a bounded count-only request to check reachability and key.
func (p *PostgREST) Probe(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	req, err := p.newRequest(ctx, http.MethodHead, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "count=exact")
	return p.do(req, nil)
}

// Range fetches rows dated within [start, end], oldest first.
func (p *PostgREST) Range(ctx context.Context, start, end datekey.Key) ([]note.Row, error) {
	q := url.Values{}
	q.Set("select", rowColumns)
	q.Add("note_date", "gte."+start.String())
	q.Add("note_date", "lte."+end.String())
	q.Set("order", "created_at.asc")
	req, err := p.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]note.Row, 0)
	if err := p.do(req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert adds a row for date.
func (p *PostgREST) Insert(ctx context.Context, date datekey.Key, content string) error {
	body, err := json.Marshal(map[string]string{
		"note_date": date.String(),
		"content":   content,
	})
	if err != nil {
		return err
	}
	req, err := p.newRequest(ctx, http.MethodPost, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	return p.do(req, nil)
}

// Delete removes the row with id.
func (p *PostgREST) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	req, err := p.newRequest(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return err
	}
	return p.do(req, nil)
}

func (p *PostgREST) newRequest(ctx context.Context, method string, q url.Values, body io.Reader) (*http.Request, error) {
	u := p.base
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("apikey", p.key)
	req.Header.Set("Authorization", "Bearer "+p.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (p *PostgREST) do(req *http.Request, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, e); err != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(data))
		}
	}
	return e
}
