package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/ucga/core/metrics"
)

// JournalConfig sets the file and rotation of the run journal. Sizes are in
// megabytes and ages in days.
type JournalConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// JournalRecord is one line of the journal; exactly one of Generation and Run
// is set.
type JournalRecord struct {
	Kind       string                       `json:"kind"`
	Generation *coremetrics.GenerationEvent `json:"generation,omitempty"`
	Run        *coremetrics.RunSummary      `json:"run,omitempty"`
}

const (
	kindGeneration = "generation"
	kindRun        = "run"
)

// JournalSink appends generation events and run summaries to a rotating
// JSONL file.
type JournalSink struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *json.Encoder
}

// NewJournalSink creates the journal directory and opens the writer lazily.
func NewJournalSink(cfg JournalConfig) (*JournalSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal sink: path is required")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &JournalSink{out: lj, enc: json.NewEncoder(lj)}, nil
}

func (s *JournalSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	return s.append(JournalRecord{Kind: kindGeneration, Generation: &ev})
}

func (s *JournalSink) RecordRun(sum coremetrics.RunSummary) error {
	return s.append(JournalRecord{Kind: kindRun, Run: &sum})
}

func (s *JournalSink) append(rec JournalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(rec)
}

// Close flushes and closes the current file.
func (s *JournalSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.out.Close()
}

// RunHistory is the journaled progress of one run.
type RunHistory struct {
	RunID       string
	Generations []coremetrics.GenerationEvent
	// Summary is nil when the run did not complete.
	Summary *coremetrics.RunSummary
}

// ReadJournal reads the journal at path and its rotated backups and groups
// the records by run. Runs are ordered by their first event; an empty runID
// selects every run. Malformed lines are skipped.
func ReadJournal(path, runID string) ([]RunHistory, error) {
	files, err := journalFiles(path)
	if err != nil {
		return nil, err
	}
	byRun := map[string]*RunHistory{}
	var order []*RunHistory
	get := func(id string) *RunHistory {
		h, ok := byRun[id]
		if !ok {
			h = &RunHistory{RunID: id}
			byRun[id] = h
			order = append(order, h)
		}
		return h
	}
	for _, f := range files {
		if err := scanJournal(f, func(rec JournalRecord) {
			switch {
			case rec.Generation != nil && (runID == "" || rec.Generation.RunID == runID):
				h := get(rec.Generation.RunID)
				h.Generations = append(h.Generations, *rec.Generation)
			case rec.Run != nil && (runID == "" || rec.Run.RunID == runID):
				get(rec.Run.RunID).Summary = rec.Run
			}
		}); err != nil {
			return nil, err
		}
	}
	out := make([]RunHistory, 0, len(order))
	for _, h := range order {
		sort.SliceStable(h.Generations, func(i, j int) bool {
			return h.Generations[i].Generation < h.Generations[j].Generation
		})
		out = append(out, *h)
	}
	sort.SliceStable(out, func(i, j int) bool { return firstTime(out[i]).Before(firstTime(out[j])) })
	return out, nil
}

// journalFiles lists the lumberjack backups, named <name>-<timestamp><ext>,
// followed by the live file.
func journalFiles(path string) ([]string, error) {
	ext := filepath.Ext(path)
	backups, err := filepath.Glob(escapeGlob(strings.TrimSuffix(path, ext)) + "-*" + escapeGlob(ext))
	if err != nil {
		return nil, err
	}
	files := backups
	if _, err := os.Stat(path); err == nil {
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("journal %s: %w", path, os.ErrNotExist)
	}
	return files, nil
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scanJournal(path string, fn func(JournalRecord)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var rec JournalRecord
		if json.Unmarshal(sc.Bytes(), &rec) != nil {
			continue
		}
		fn(rec)
	}
	return sc.Err()
}

func firstTime(h RunHistory) (t time.Time) {
	if len(h.Generations) > 0 {
		return h.Generations[0].Time
	}
	if h.Summary != nil {
		return h.Summary.Time
	}
	return t
}
