package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/LiboWorks/agentflow/internal/message"
)

// Document is one persisted conversation message: which workflow produced
// it, its position in the run, and the message parts themselves.
type Document struct {
	ID        uuid.UUID      `json:"id"`
	Workflow  string         `json:"workflow"`
	Seq       int            `json:"seq"`
	Role      string         `json:"role"`
	Parts     []message.Part `json:"parts"`
	CreatedAt time.Time      `json:"created_at"`
}

// New builds a document from a message, stamping id and creation time.
func New(workflow string, seq int, msg *message.Message) *Document {
	return &Document{
		ID:        uuid.New(),
		Workflow:  workflow,
		Seq:       seq,
		Role:      msg.Role,
		Parts:     msg.Parts,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists documents. Implementations must be safe for concurrent use;
// workflows append from their own goroutines.
type Store interface {
	Create(doc *Document) error
	Close() error
}
