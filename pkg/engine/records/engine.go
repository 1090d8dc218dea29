package records

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"docchat-be/pkg/rag/history"
)

const helpText = `I understand these commands:
- show all records
- find record <name>
- add record <name> <age> <grade>
- update record <id> <name> <age> <grade>
- delete record <id>
- bye`

var validGrades = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "F": true,
}

// Engine is a keyword-driven assistant over student records. It shares the
// ChatEngine interface with the document engine but answers by matching
// commands instead of calling a language model.
type Engine struct {
	store   Store
	history *history.Store
	logger  *log.Logger
}

func NewEngine(store Store, historyStore *history.Store, logger *log.Logger) *Engine {
	return &Engine{
		store:   store,
		history: historyStore,
		logger:  logger,
	}
}

func (e *Engine) Answer(ctx context.Context, sessionID, question string) (string, error) {
	answer := e.dispatch(ctx, strings.TrimSpace(question))

	if err := e.history.Append(sessionID, history.RoleUser, question); err != nil {
		return "", err
	}
	if err := e.history.Append(sessionID, history.RoleAssistant, answer); err != nil {
		return "", err
	}

	return answer, nil
}

func (e *Engine) GetHistory(sessionID string) []history.Turn {
	return e.history.Get(sessionID)
}

func (e *Engine) ClearSession(sessionID string) {
	e.history.Clear(sessionID)
}

func (e *Engine) dispatch(ctx context.Context, question string) string {
	lower := strings.ToLower(question)

	switch {
	case lower == "hi" || lower == "hello":
		return "Hello! I can help you manage student records. Type 'help' to see what I can do."
	case lower == "help":
		return helpText
	case lower == "bye":
		return "Goodbye!"
	case lower == "show all records":
		return e.showAll(ctx)
	case strings.HasPrefix(lower, "find record "):
		return e.find(ctx, strings.TrimSpace(question[len("find record "):]))
	case strings.HasPrefix(lower, "add record "):
		return e.add(ctx, strings.Fields(question[len("add record "):]))
	case strings.HasPrefix(lower, "update record "):
		return e.update(ctx, strings.Fields(question[len("update record "):]))
	case strings.HasPrefix(lower, "delete record "):
		return e.delete(ctx, strings.TrimSpace(question[len("delete record "):]))
	default:
		return "Sorry, I didn't understand that. Type 'help' to see available commands."
	}
}

func (e *Engine) showAll(ctx context.Context) string {
	records, err := e.store.List(ctx)
	if err != nil {
		e.logger.Printf("[RECORDS] list failed: %v", err)
		return "Sorry, I couldn't load the records right now."
	}
	if len(records) == 0 {
		return "There are no records yet."
	}

	var sb strings.Builder
	sb.WriteString("Here are all records:\n")
	for _, r := range records {
		sb.WriteString(formatRecord(r))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (e *Engine) find(ctx context.Context, name string) string {
	if name == "" {
		return "Usage: find record <name>"
	}

	records, err := e.store.FindByName(ctx, name)
	if err != nil {
		e.logger.Printf("[RECORDS] find failed: %v", err)
		return "Sorry, I couldn't search the records right now."
	}
	if len(records) == 0 {
		return fmt.Sprintf("No record found for %q.", name)
	}

	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = formatRecord(r)
	}

	return strings.Join(lines, "\n")
}

func (e *Engine) add(ctx context.Context, args []string) string {
	// Names may span several words; age and grade are always the last two.
	if len(args) < 3 {
		return "Usage: add record <name> <age> <grade>"
	}

	name := strings.Join(args[:len(args)-2], " ")
	record, errMsg := parseRecord(name, args[len(args)-2], args[len(args)-1])
	if errMsg != "" {
		return errMsg
	}

	created, err := e.store.Create(ctx, record)
	if err != nil {
		e.logger.Printf("[RECORDS] create failed: %v", err)
		return "Sorry, I couldn't add the record right now."
	}

	return fmt.Sprintf("Added %s.", formatRecord(created))
}

func (e *Engine) update(ctx context.Context, args []string) string {
	if len(args) < 4 {
		return "Usage: update record <id> <name> <age> <grade>"
	}

	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Sprintf("Invalid record id: %s", args[0])
	}

	name := strings.Join(args[1:len(args)-2], " ")
	record, errMsg := parseRecord(name, args[len(args)-2], args[len(args)-1])
	if errMsg != "" {
		return errMsg
	}
	record.ID = uint(id)

	if err := e.store.Update(ctx, record); err != nil {
		e.logger.Printf("[RECORDS] update failed: %v", err)
		return fmt.Sprintf("Couldn't update record %d. Does it exist?", id)
	}

	return fmt.Sprintf("Updated %s.", formatRecord(record))
}

func (e *Engine) delete(ctx context.Context, rawID string) string {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return fmt.Sprintf("Invalid record id: %s", rawID)
	}

	if err := e.store.Delete(ctx, uint(id)); err != nil {
		e.logger.Printf("[RECORDS] delete failed: %v", err)
		return fmt.Sprintf("Couldn't delete record %d. Does it exist?", id)
	}

	return fmt.Sprintf("Deleted record %d.", id)
}

func parseRecord(name, rawAge, rawGrade string) (Record, string) {
	age, err := strconv.Atoi(rawAge)
	if err != nil || age <= 0 || age > 150 {
		return Record{}, fmt.Sprintf("Invalid age: %s", rawAge)
	}

	grade := strings.ToUpper(rawGrade)
	if !validGrades[grade] {
		return Record{}, fmt.Sprintf("Invalid grade: %s (use A, B, C, D, or F)", rawGrade)
	}

	return Record{Name: name, Age: age, Grade: grade}, ""
}

func formatRecord(r Record) string {
	return fmt.Sprintf("record %d: %s, age %d, grade %s", r.ID, r.Name, r.Age, r.Grade)
}
