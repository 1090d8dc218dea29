package records

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"docchat-be/pkg/rag/history"
)

type memStore struct {
	records []Record
	nextID  uint
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) List(ctx context.Context) ([]Record, error) {
	return m.records, nil
}

func (m *memStore) FindByName(ctx context.Context, name string) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if strings.EqualFold(r.Name, name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Create(ctx context.Context, record Record) (Record, error) {
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, record)
	return record, nil
}

func (m *memStore) Update(ctx context.Context, record Record) error {
	for i, r := range m.records {
		if r.ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memStore) Delete(ctx context.Context, id uint) error {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	return NewEngine(store, history.NewStore(), log.New(io.Discard, "", 0)), store
}

func ask(t *testing.T, e *Engine, question string) string {
	t.Helper()
	answer, err := e.Answer(context.Background(), "sess-1", question)
	if err != nil {
		t.Fatalf("answer %q: %v", question, err)
	}
	return answer
}

func TestGreetingAndHelp(t *testing.T) {
	e, _ := newTestEngine()

	if got := ask(t, e, "hi"); !strings.Contains(got, "Hello") {
		t.Errorf("unexpected greeting: %q", got)
	}
	if got := ask(t, e, "help"); !strings.Contains(got, "show all records") {
		t.Errorf("unexpected help: %q", got)
	}
	if got := ask(t, e, "bye"); got != "Goodbye!" {
		t.Errorf("unexpected farewell: %q", got)
	}
}

func TestAddAndShowRecords(t *testing.T) {
	e, _ := newTestEngine()

	got := ask(t, e, "add record Alice 21 A")
	if !strings.Contains(got, "Alice") || !strings.Contains(got, "grade A") {
		t.Errorf("unexpected add reply: %q", got)
	}

	got = ask(t, e, "show all records")
	if !strings.Contains(got, "Alice, age 21, grade A") {
		t.Errorf("record missing from listing: %q", got)
	}
}

func TestAddRecordWithMultiWordName(t *testing.T) {
	e, store := newTestEngine()

	got := ask(t, e, "add record Mary Jane Watson 20 B")
	if !strings.Contains(got, "Mary Jane Watson, age 20, grade B") {
		t.Errorf("unexpected add reply: %q", got)
	}
	if store.records[0].Name != "Mary Jane Watson" {
		t.Errorf("name not joined: %q", store.records[0].Name)
	}
}

func TestShowAllWhenEmpty(t *testing.T) {
	e, _ := newTestEngine()

	if got := ask(t, e, "show all records"); got != "There are no records yet." {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestFindRecord(t *testing.T) {
	e, _ := newTestEngine()
	ask(t, e, "add record Bob 22 B")

	if got := ask(t, e, "find record Bob"); !strings.Contains(got, "Bob, age 22, grade B") {
		t.Errorf("unexpected find reply: %q", got)
	}
	if got := ask(t, e, "find record Carol"); !strings.Contains(got, "No record found") {
		t.Errorf("unexpected miss reply: %q", got)
	}
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	e, store := newTestEngine()
	ask(t, e, "add record Bob 22 B")

	got := ask(t, e, "update record 1 Bob 23 A")
	if !strings.Contains(got, "age 23, grade A") {
		t.Errorf("unexpected update reply: %q", got)
	}
	if store.records[0].Age != 23 {
		t.Errorf("store not updated: %+v", store.records[0])
	}

	got = ask(t, e, "delete record 1")
	if got != "Deleted record 1." {
		t.Errorf("unexpected delete reply: %q", got)
	}
	if len(store.records) != 0 {
		t.Error("record survived delete")
	}
}

func TestValidationErrors(t *testing.T) {
	e, _ := newTestEngine()

	tests := []struct {
		question string
		want     string
	}{
		{"add record Alice", "Usage: add record"},
		{"add record Alice abc A", "Invalid age"},
		{"add record Alice 21 Z", "Invalid grade"},
		{"update record x Bob 23 A", "Invalid record id"},
		{"delete record abc", "Invalid record id"},
		{"update record 99 Bob 23 A", "Couldn't update record 99"},
		{"delete record 99", "Couldn't delete record 99"},
	}

	for _, tt := range tests {
		if got := ask(t, e, tt.question); !strings.Contains(got, tt.want) {
			t.Errorf("%q: expected %q in reply, got %q", tt.question, tt.want, got)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	e, _ := newTestEngine()

	if got := ask(t, e, "what is the meaning of life"); !strings.Contains(got, "help") {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestConversationIsRecorded(t *testing.T) {
	e, _ := newTestEngine()
	ask(t, e, "hi")

	turns := e.GetHistory("sess-1")
	if len(turns) != 2 || turns[0].Role != history.RoleUser {
		t.Errorf("exchange not recorded: %v", turns)
	}

	e.ClearSession("sess-1")
	if len(e.GetHistory("sess-1")) != 0 {
		t.Error("history survived clear")
	}
}
