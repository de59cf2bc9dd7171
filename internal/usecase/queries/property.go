package queries

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type PropertyQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PropertyView, error)
	List(ctx context.Context, limit int, after string) (*PropertyPage, error)
}

type PropertyReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PropertyView, error)
	ListFirstPage(ctx context.Context, limit int32) ([]*PropertyView, error)
	ListKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*PropertyView, error)
}

type PropertyPage struct {
	Items      []*PropertyView
	NextCursor string
}

type propertyQueriesImpl struct {
	readStore      PropertyReadStore
	storageTimeout time.Duration
}

func NewPropertyQueries(readStore PropertyReadStore, storageTimeout time.Duration) PropertyQueries {
	return &propertyQueriesImpl{
		readStore:      readStore,
		storageTimeout: storageTimeout,
	}
}

func (q *propertyQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*PropertyView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPropertyNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	return view, nil
}

// List pages newest first. One extra row is fetched to know whether a next
// page exists.
func (q *propertyQueriesImpl) List(ctx context.Context, limit int, after string) (*PropertyPage, error) {
	limit = ValidateLimit(limit)
	// #nosec G115 -- limit is capped by ValidateLimit
	fetch := int32(limit + 1)

	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	var (
		items []*PropertyView
		err   error
	)
	if after == "" {
		items, err = q.readStore.ListFirstPage(ctx, fetch)
	} else {
		lastCreatedAt, lastID, decodeErr := DecodeAfterCursor(after)
		if decodeErr != nil {
			return nil, errs.Mark(decodeErr, errs.ErrValidation)
		}
		items, err = q.readStore.ListKeyset(ctx, lastCreatedAt, lastID, fetch)
	}
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}

	page := &PropertyPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = EncodeAfterCursor(last.CreatedAt, last.ID)
	}
	if page.Items == nil {
		page.Items = []*PropertyView{}
	}

	return page, nil
}
