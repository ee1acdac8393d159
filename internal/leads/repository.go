package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository appends captured leads to a JSONL file, one lead per line.
type Repository struct {
	mu   sync.Mutex
	path string
}

// NewRepository creates a lead repository writing to path.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Save assigns an identifier and timestamp and appends the lead.
func (r *Repository) Save(_ context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	line, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("leads: marshal lead: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("leads: open %s: %w", r.path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("leads: write lead: %w", err)
	}
	return nil
}
