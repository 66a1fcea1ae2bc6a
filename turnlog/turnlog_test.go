package turnlog

import (
	"errors"
	"testing"

	"github.com/nstehr/rampart/ipc"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	move, _ := ipc.NewEnvelope(ipc.TypeMove, ipc.MoveCommand{UnitID: 4, Direction: "up"})
	for turn := 1; turn <= 3; turn++ {
		if err := w.Write(Entry{MatchID: "m1", Turn: turn, Mode: "FARM", Commands: []ipc.Envelope{move}}); err != nil {
			t.Fatalf("Write m1/%d: %v", turn, err)
		}
	}
	if err := w.Write(Entry{MatchID: "m2", Turn: 1, Mode: "RUSH"}); err != nil {
		t.Fatalf("Write m2: %v", err)
	}
	if err := w.CloseMatch("m1"); err != nil {
		t.Fatalf("CloseMatch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := ReadAll(Path(dir, "m1"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("read %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Turn != i+1 || len(e.Commands) != 1 || e.Commands[0].Type != ipc.TypeMove {
			t.Errorf("entry %d = %+v", i, e)
		}
	}

	other, err := ReadAll(Path(dir, "m2"))
	if err != nil || len(other) != 1 || other[0].Mode != "RUSH" {
		t.Errorf("m2 entries = %+v, %v", other, err)
	}
}

func TestReopenAppends(t *testing.T) {
	dir := t.TempDir()
	for turn := 1; turn <= 2; turn++ {
		w := NewWriter(dir)
		if err := w.Write(Entry{MatchID: "m1", Turn: turn}); err != nil {
			t.Fatal(err)
		}
		w.Close()
	}
	entries, err := ReadAll(Path(dir, "m1"))
	if err != nil || len(entries) != 2 {
		t.Errorf("entries = %+v, %v, want 2 across frames", entries, err)
	}
}

func TestReadFileStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.Write(Entry{MatchID: "m1", Turn: 1})
	w.Write(Entry{MatchID: "m1", Turn: 2})
	w.Close()

	stop := errors.New("stop")
	seen := 0
	err := ReadFile(Path(dir, "m1"), func(Entry) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) || seen != 1 {
		t.Errorf("ReadFile = %v after %d entries, want stop after 1", err, seen)
	}
}

func TestEntriesReadableBeforeClose(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	defer w.Close()

	for turn := 1; turn <= 2; turn++ {
		if err := w.Write(Entry{MatchID: "live", Turn: turn, Mode: "FARM"}); err != nil {
			t.Fatalf("Write %d: %v", turn, err)
		}
		entries, err := ReadAll(Path(dir, "live"))
		if err != nil {
			t.Fatalf("ReadAll after turn %d: %v", turn, err)
		}
		if len(entries) != turn || entries[turn-1].Turn != turn {
			t.Fatalf("after turn %d read %+v", turn, entries)
		}
	}
}
