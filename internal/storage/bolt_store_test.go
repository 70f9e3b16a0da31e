package storage

import (
	"fmt"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTestJournal(t *testing.T, opts Options) *boltJournal {
	t.Helper()
	raw, err := openBolt(t.TempDir()+"/journal.db", normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	j := raw.(*boltJournal)
	t.Cleanup(func() { j.Close() })
	return j
}

// count returns the number of stored entries, expired or not.
func count(t *testing.T, j *boltJournal) int {
	t.Helper()
	n := 0
	err := j.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(callBucket)).Stats().KeyN
		return nil
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestBoltJournalRecordsNewestFirst(t *testing.T) {
	j := openTestJournal(t, Options{})
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := j.Record(Entry{
			Method: "GET",
			Input:  "post",
			Path:   fmt.Sprintf("/posts/%d", i),
			Status: 200,
			At:     base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Path != "/posts/2" || recent[1].Path != "/posts/1" {
		t.Fatalf("expected newest first, got %s, %s", recent[0].Path, recent[1].Path)
	}
	if !recent[0].At.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("timestamp not preserved: %v", recent[0].At)
	}
}

func TestBoltJournalFillsTimestamp(t *testing.T) {
	j := openTestJournal(t, Options{})
	fixed := time.Date(2025, time.April, 2, 8, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	if err := j.Record(Entry{Method: "DELETE", Path: "/posts/1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	recent, err := j.Recent(10)
	if err != nil || len(recent) != 1 {
		t.Fatalf("Recent: %v (%d entries)", err, len(recent))
	}
	if !recent[0].At.Equal(fixed) {
		t.Fatalf("expected At to default to now, got %v", recent[0].At)
	}
}

func TestBoltJournalExpiresEntries(t *testing.T) {
	j := openTestJournal(t, Options{
		EntryTTL:        time.Minute,
		CleanupInterval: time.Minute,
	})
	now := time.Now()
	j.now = func() time.Time { return now }

	if err := j.Record(Entry{Method: "GET", Path: "/old"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Move past the TTL: the old entry is hidden before cleanup runs.
	now = now.Add(2 * time.Minute)
	recent, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected expired entry to be hidden, got %#v", recent)
	}

	// The next write triggers cleanup and removes it from the bucket.
	if err := j.Record(Entry{Method: "GET", Path: "/new"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if n := count(t, j); n != 1 {
		t.Fatalf("expected 1 stored entry after cleanup, got %d", n)
	}
	recent, _ = j.Recent(10)
	if len(recent) != 1 || recent[0].Path != "/new" {
		t.Fatalf("unexpected entries after cleanup %#v", recent)
	}
}

func TestNewJournalSupportsNoop(t *testing.T) {
	j, err := NewJournal("none", "", Options{})
	if err != nil {
		t.Fatalf("NewJournal none: %v", err)
	}
	if err := j.Record(Entry{Path: "/x"}); err != nil {
		t.Fatalf("noop journal Record: %v", err)
	}
	entries, err := j.Recent(5)
	if err != nil || len(entries) != 0 {
		t.Fatalf("noop journal Recent: %v %v", entries, err)
	}
}

func TestNewJournalValidation(t *testing.T) {
	if _, err := NewJournal("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
	if _, err := NewJournal("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
