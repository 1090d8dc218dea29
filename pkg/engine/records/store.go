package records

import "context"

// Record is one student entry managed by the assistant.
type Record struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Grade string `json:"grade"`
}

// Store persists student records.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	FindByName(ctx context.Context, name string) ([]Record, error)
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) error
	Delete(ctx context.Context, id uint) error
}
