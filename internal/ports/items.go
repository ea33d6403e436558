package ports

import (
	"context"

	"scaffale/internal/domain"
)

// ItemCounter answers the deletion guard for the hierarchy store
type ItemCounter interface {
	// CountActiveIn counts non-trashed items assigned to any of the locations
	CountActiveIn(ctx context.Context, locationIDs []string) (int, error)
	// ClearLocation nulls location_id of every remaining (trashed) item
	// assigned to the locations
	ClearLocation(ctx context.Context, locationIDs []string) (int, error)
}

// ItemRepository maps inventory items to durable rows, including the trash
type ItemRepository interface {
	ItemCounter

	Save(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)

	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PurgeAllDeleted(ctx context.Context) (int, error)
	TrashCount(ctx context.Context) (int, error)

	ListActive(ctx context.Context) ([]domain.InventoryItem, ListReport, error)
	ListTrashed(ctx context.Context) ([]domain.InventoryItem, ListReport, error)
	ListByLocation(ctx context.Context, locationIDs []string, includeTrashed bool) ([]domain.InventoryItem, error)

	// BatchSave stores every item or none of them
	BatchSave(ctx context.Context, items []*domain.InventoryItem) error
	// MoveToLocation reassigns every item or none of them
	MoveToLocation(ctx context.Context, itemIDs []string, locationID *string) error
}

// ClassificationRepository stores the rule table behind Classify
type ClassificationRepository interface {
	ListRules(ctx context.Context) ([]domain.ClassificationRule, error)
	AddRule(ctx context.Context, rule *domain.ClassificationRule) error
	DeleteRule(ctx context.Context, id int64) error
	Classify(ctx context.Context, title, publisher, description string) (domain.CollectionType, error)
}
