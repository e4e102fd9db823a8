package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycleRecording(t *testing.T) {
	db := openTestDB(t)

	id, err := db.StartSession()
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	record, err := db.GetSessionByID(id)
	if err != nil {
		t.Fatalf("GetSessionByID returned error: %v", err)
	}
	if record.Status != "running" {
		t.Errorf("status = %q, want running", record.Status)
	}
	if record.CompletedAt != nil {
		t.Error("new session already has a completion time")
	}

	err = db.CompleteSession(id, "reached_max_height", 10, 8, 2, 3200, "/tmp/out.png")
	if err != nil {
		t.Fatalf("CompleteSession returned error: %v", err)
	}

	record, err = db.GetSessionByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != "completed" {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.StopReason == nil || *record.StopReason != "reached_max_height" {
		t.Errorf("stop reason = %v, want reached_max_height", record.StopReason)
	}
	if record.TotalFrames != 10 || record.UsedFrames != 8 || record.SkippedFrames != 2 {
		t.Errorf("frame counts = %d/%d/%d, want 10/8/2",
			record.TotalFrames, record.UsedFrames, record.SkippedFrames)
	}
	if record.FinalHeight != 3200 {
		t.Errorf("final height = %d, want 3200", record.FinalHeight)
	}
	if record.OutputPath == nil || *record.OutputPath != "/tmp/out.png" {
		t.Errorf("output path = %v, want /tmp/out.png", record.OutputPath)
	}
	if record.CompletedAt == nil || record.DurationSeconds == nil {
		t.Error("completion time or duration missing")
	}
}

func TestFailAndAbortSessions(t *testing.T) {
	db := openTestDB(t)

	failedID, _ := db.StartSession()
	if err := db.FailSession(failedID, "display disconnected"); err != nil {
		t.Fatalf("FailSession returned error: %v", err)
	}
	record, err := db.GetSessionByID(failedID)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != "failed" {
		t.Errorf("status = %q, want failed", record.Status)
	}
	if record.ErrorMessage == nil || *record.ErrorMessage != "display disconnected" {
		t.Errorf("error message = %v, want display disconnected", record.ErrorMessage)
	}

	abortedID, _ := db.StartSession()
	if err := db.AbortSession(abortedID, "user"); err != nil {
		t.Fatalf("AbortSession returned error: %v", err)
	}
	record, err = db.GetSessionByID(abortedID)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != "aborted" {
		t.Errorf("status = %q, want aborted", record.Status)
	}
}

func TestGetRecentSessions(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := db.StartSession(); err != nil {
			t.Fatal(err)
		}
	}

	records, err := db.GetRecentSessions(3)
	if err != nil {
		t.Fatalf("GetRecentSessions returned error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}

	all, err := db.GetRecentSessions(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("got %d records with default limit, want 5", len(all))
	}
}
