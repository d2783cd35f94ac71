package store

import (
	"testing"

	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := New()

	first := s.Create()
	second := s.Create()

	if first.ID != "s-1" {
		t.Errorf("expected first ID s-1, got %s", first.ID)
	}
	if second.ID != "s-2" {
		t.Errorf("expected second ID s-2, got %s", second.ID)
	}
	if first.Calc == nil || first.Calc.Buffer() != "" {
		t.Error("expected new session to start with an empty buffer")
	}
}

func TestGetUnknownSession(t *testing.T) {
	s := New()

	_, err := s.Get("s-99")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !types.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if err.Error() != "session 's-99' not found (code=404, tags=[NotFound])" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestListReturnsCreationOrder(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Create()
	}

	sessions := s.List()
	if len(sessions) != 5 {
		t.Fatalf("expected 5 sessions, got %d", len(sessions))
	}
	want := []string{"s-1", "s-2", "s-3", "s-4", "s-5"}
	for i, sess := range sessions {
		if sess.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], sess.ID)
		}
	}
}

func TestDelete(t *testing.T) {
	s := New()
	sess := s.Create()

	if err := s.Delete(sess.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(sess.ID); err == nil {
		t.Error("expected deleted session to be gone")
	}
	if err := s.Delete(sess.ID); !types.IsNotFound(err) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestWithSessionStampsUpdateTime(t *testing.T) {
	s := New()
	sess := s.Create()
	created := sess.UpdatedAt

	err := s.WithSession(sess.ID, func(st *Session) error {
		st.Calc.Append("2+2")
		_, eerr := st.Calc.Equals()
		return eerr
	})
	if err != nil {
		t.Fatalf("WithSession failed: %v", err)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Calc.Buffer() != "4" {
		t.Errorf("expected buffer 4, got %q", got.Calc.Buffer())
	}
	if got.UpdatedAt.Before(created) {
		t.Error("expected UpdatedAt to advance after mutation")
	}

	if err := s.WithSession("s-99", func(*Session) error { return nil }); !types.IsNotFound(err) {
		t.Errorf("expected not-found for unknown session, got %v", err)
	}
}
