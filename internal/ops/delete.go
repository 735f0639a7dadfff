package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string `json:"id"`
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`

	// Record is the record as it was before deletion
	Record *record.Record `json:"record"`
}

// Delete permanently removes a record and returns it.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetByID(ctx, database, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(ctx, database, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
		Record:  r,
	}, nil
}
