package behavior

import (
	"sync"
	"testing"
	"time"
)

func eventAt(hour int, kind Kind) Event {
	ts := time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
	e := NewEvent(kind, ts)
	return e
}

func TestLogRecordAndSnapshot(t *testing.T) {
	l := NewLog(10)

	l.Record(eventAt(9, KindBlockCreated))
	l.Record(eventAt(10, KindBlockCompleted))

	events := l.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != KindBlockCreated {
		t.Errorf("expected oldest event first, got %s", events[0].Kind)
	}
	if events[1].Context.HourOfDay != 10 {
		t.Errorf("expected hour 10, got %d", events[1].Context.HourOfDay)
	}
}

func TestLogEvictsOldestAtCapacity(t *testing.T) {
	l := NewLog(5)

	for i := 0; i < 8; i++ {
		e := eventAt(i, KindBlockCreated)
		e.Rating = i
		l.Record(e)
	}

	if l.Len() != 5 {
		t.Fatalf("expected len 5, got %d", l.Len())
	}

	events := l.Snapshot()
	if len(events) != 5 {
		t.Fatalf("expected 5 events in snapshot, got %d", len(events))
	}
	// Events 0-2 should have been evicted in FIFO order.
	for i, e := range events {
		if e.Rating != i+3 {
			t.Errorf("position %d: expected rating %d, got %d", i, i+3, e.Rating)
		}
	}
}

func TestLogSnapshotIsolation(t *testing.T) {
	l := NewLog(10)
	l.Record(eventAt(9, KindBlockCompleted))

	snap := l.Snapshot()
	l.Record(eventAt(10, KindBlockCompleted))

	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later record: len %d", len(snap))
	}
}

func TestLogRecent(t *testing.T) {
	l := NewLog(20)
	for i := 0; i < 15; i++ {
		l.Record(eventAt(i, KindBlockCreated))
	}

	recent := l.Recent(10)
	if len(recent) != 10 {
		t.Fatalf("expected 10 recent events, got %d", len(recent))
	}
	if recent[0].Context.HourOfDay != 5 {
		t.Errorf("expected recent window to start at hour 5, got %d", recent[0].Context.HourOfDay)
	}
}

func TestLogHandlerFanout(t *testing.T) {
	l := NewLog(10)
	var got []Kind
	l.OnRecord(func(e Event) {
		got = append(got, e.Kind)
	})

	l.Record(eventAt(9, KindChainApplied))
	l.Record(eventAt(10, KindFeedbackGiven))

	if len(got) != 2 || got[0] != KindChainApplied || got[1] != KindFeedbackGiven {
		t.Errorf("handler saw %v", got)
	}
}

func TestLogConcurrentRecord(t *testing.T) {
	l := NewLog(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Record(eventAt(j%24, KindBlockCompleted))
			}
		}()
	}
	wg.Wait()

	if l.Len() != 100 {
		t.Errorf("expected log at capacity 100, got %d", l.Len())
	}
}

func TestLogReplaceTrimsToCapacity(t *testing.T) {
	l := NewLog(5)

	events := make([]Event, 9)
	for i := range events {
		events[i] = eventAt(i, KindBlockCreated)
		events[i].Rating = i
	}
	l.Replace(events)

	snap := l.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("expected 5 events after replace, got %d", len(snap))
	}
	if snap[0].Rating != 4 {
		t.Errorf("expected oldest surviving event rating 4, got %d", snap[0].Rating)
	}
}
