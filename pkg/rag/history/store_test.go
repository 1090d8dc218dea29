package history

import "testing"

func TestAppendAndGet(t *testing.T) {
	s := NewStore()

	if err := s.Append("sess-1", RoleUser, "hello"); err != nil {
		t.Fatalf("append user: %v", err)
	}
	if err := s.Append("sess-1", RoleAssistant, "hi there"); err != nil {
		t.Fatalf("append assistant: %v", err)
	}

	turns := s.Get("sess-1")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Text != "hello" {
		t.Errorf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Text != "hi there" {
		t.Errorf("unexpected second turn: %+v", turns[1])
	}
}

func TestAppendRejectsUnknownRole(t *testing.T) {
	s := NewStore()

	if err := s.Append("sess-1", "system", "nope"); err == nil {
		t.Error("expected error for unknown role")
	}
	if len(s.Get("sess-1")) != 0 {
		t.Error("rejected append must not store a turn")
	}
}

func TestGetUnknownSession(t *testing.T) {
	s := NewStore()

	if turns := s.Get("missing"); len(turns) != 0 {
		t.Errorf("expected empty history, got %v", turns)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	_ = s.Append("sess-1", RoleUser, "original")

	turns := s.Get("sess-1")
	turns[0].Text = "mutated"

	if s.Get("sess-1")[0].Text != "original" {
		t.Error("mutating the returned slice leaked into the store")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore()
	_ = s.Append("a", RoleUser, "question about go")
	_ = s.Append("b", RoleUser, "question about rust")

	if got := s.Get("a")[0].Text; got != "question about go" {
		t.Errorf("session a polluted: %q", got)
	}
	if got := s.Get("b")[0].Text; got != "question about rust" {
		t.Errorf("session b polluted: %q", got)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	_ = s.Append("sess-1", RoleUser, "hello")

	s.Clear("sess-1")
	if len(s.Get("sess-1")) != 0 {
		t.Error("history survived clear")
	}

	// Clearing unknown sessions must not panic.
	s.Clear("never-existed")
}
