package session

import (
	"testing"
	"time"
)

func TestManagerCreateGet(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	s := m.Create()
	if s.Selection == nil {
		t.Fatal("new session has no selection")
	}
	if got := m.Get(s.ID); got != s {
		t.Errorf("Get(%q) = %v, want the created session", s.ID, got)
	}
	if m.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	m := NewManager(time.Hour, time.Minute)
	s := m.Create()
	s.LastActiveAt = time.Now().Add(-2 * time.Minute)

	if m.Get(s.ID) != nil {
		t.Error("idle session should be expired on Get")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestCleanup(t *testing.T) {
	m := NewManager(time.Minute, time.Hour)
	old := m.Create()
	old.CreatedAt = time.Now().Add(-time.Hour)
	fresh := m.Create()

	m.Cleanup()
	if m.Len() != 1 || m.Get(fresh.ID) == nil {
		t.Errorf("Cleanup kept %d sessions, want only the fresh one", m.Len())
	}
}

func TestAddHistoryTouches(t *testing.T) {
	s := NewSession()
	s.LastActiveAt = time.Time{}
	s.AddHistory("select Person")
	if len(s.History) != 1 || s.History[0] != "select Person" {
		t.Errorf("History = %v", s.History)
	}
	if s.LastActiveAt.IsZero() {
		t.Error("AddHistory did not touch the session")
	}
}
