package tickets

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/pkg/pagination"
)

// System defines the public contract for ticket domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Ticket], error)

	Find(ctx context.Context, id uuid.UUID) (*Ticket, error)
	Process(ctx context.Context, cmd ProcessCommand) (*Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
