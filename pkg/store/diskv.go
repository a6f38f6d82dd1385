package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

// Diskv keeps one file per row under base/YYYY/MM/DD/<id>.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

// NewDiskv opens a diskv-backed row store rooted at basePath.
func NewDiskv(basePath string) *Diskv {
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		now:      time.Now,
	}
}

// Probe checks that the base directory is usable.
func (s *Diskv) Probe(ctx context.Context) error {
	if s.basePath == "" {
		return errors.New("store: base path unknown")
	}
	probe := "probe" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.d.WriteString(probe, ""); err != nil {
		return fmt.Errorf("store: probe %s: %w", s.basePath, err)
	}
	return s.d.Erase(probe)
}

func (s *Diskv) Range(ctx context.Context, start, end datekey.Key) ([]note.Row, error) {
	rows := make([]note.Row, 0)
	for key := range s.d.Keys(ctx.Done()) {
		date, _, ok := splitKey(key)
		if !ok || date < start || date > end {
			continue
		}
		r, err := s.read(key)
		if err != nil {
			slog.Warn("store: skipping unreadable row", slog.String("key", key), slog.String("error", err.Error()))
			continue
		}
		rows = append(rows, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortRows(rows)
	return rows, nil
}

func (s *Diskv) Insert(ctx context.Context, date datekey.Key, content string) error {
	if !date.Valid() {
		return fmt.Errorf("%w: %q", datekey.ErrMalformedKey, date)
	}
	r := note.Row{
		ID:        uuid.NewString(),
		Date:      date,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.d.Write(toKey(r), data)
}

func (s *Diskv) Delete(ctx context.Context, id string) error {
	cancel := make(chan struct{})
	defer close(cancel)
	for key := range s.d.Keys(cancel) {
		if _, kid, ok := splitKey(key); ok && kid == id {
			return s.d.Erase(key)
		}
	}
	// Deleting a missing row is not an error, matching a filtered DELETE.
	return nil
}

func (s *Diskv) read(key string) (note.Row, error) {
	var r note.Row
	val, err := s.d.Read(key)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(val, &r); err != nil {
		return r, err
	}
	return r, nil
}

func sortRows(rows []note.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		lt, rt := rows[i].CreatedAt, rows[j].CreatedAt
		if lt.Equal(rt) {
			return rows[i].ID < rows[j].ID
		}
		return lt.Before(rt)
	})
}

// toKey makes `YYYY-MM-DD-id`
func toKey(r note.Row) string {
	return fmt.Sprintf("%s-%s", r.Date, r.ID)
}

// splitKey undoes toKey. Ids may contain dashes themselves.
func splitKey(key string) (datekey.Key, string, bool) {
	parts := strings.SplitN(key, "-", 4)
	if len(parts) != 4 || parts[3] == "" {
		return "", "", false
	}
	date := datekey.Key(strings.Join(parts[:3], "-"))
	if !date.Valid() {
		return "", "", false
	}
	return date, parts[3], true
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 4)
	if len(parts) != 4 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     parts[:3],
		FileName: parts[3],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
