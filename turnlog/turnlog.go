// Package turnlog writes every decision, with the commands it produced, to a
// zstd-compressed JSONL file per match.
package turnlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/nstehr/rampart/ipc"
)

type Entry struct {
	MatchID   string         `json:"matchId"`
	Team      string         `json:"team"`
	Turn      int            `json:"turn"`
	Mode      string         `json:"mode"`
	Rule      string         `json:"rule,omitempty"`
	Balance   int            `json:"balance"`
	RingTotal int            `json:"ringTotal"`
	Pending   int            `json:"pending"`
	Events    []string       `json:"events,omitempty"`
	Commands  []ipc.Envelope `json:"commands"`
}

// Path is where the log for matchID lives under dir.
func Path(dir, matchID string) string {
	return filepath.Join(dir, matchID+".jsonl.zst")
}

type Writer struct {
	dir string

	mu    sync.Mutex
	files map[string]*matchFile
}

type matchFile struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, files: make(map[string]*matchFile)}
}

func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	mf, ok := w.files[e.MatchID]
	if !ok {
		var err error
		if mf, err = w.openLocked(e.MatchID); err != nil {
			return err
		}
		w.files[e.MatchID] = mf
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if _, err := mf.w.Write(b); err != nil {
		return err
	}
	if err := mf.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := mf.w.Flush(); err != nil {
		return err
	}
	// One zstd frame per entry: the file reads back up to the last written turn.
	if err := mf.enc.Close(); err != nil {
		return fmt.Errorf("finish frame: %w", err)
	}
	mf.enc.Reset(mf.f)
	return nil
}

func (w *Writer) openLocked(matchID string) (*matchFile, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(Path(w.dir, matchID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &matchFile{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// CloseMatch finishes the zstd frame for one match.
func (w *Writer) CloseMatch(matchID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	mf, ok := w.files[matchID]
	if !ok {
		return nil
	}
	delete(w.files, matchID)
	return mf.close()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	for id, mf := range w.files {
		if err := mf.close(); err != nil && first == nil {
			first = err
		}
		delete(w.files, id)
	}
	return first
}

func (mf *matchFile) close() error {
	_ = mf.w.Flush()
	err := mf.enc.Close()
	if cerr := mf.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile calls fn for every entry in a log file, in write order.
func ReadFile(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadAll returns every entry in a log file.
func ReadAll(path string) ([]Entry, error) {
	var out []Entry
	err := ReadFile(path, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}
