package mock

import (
	"context"

	"github.com/jbekker/capescout"
)

var _ capescout.PropertyService = (*PropertyService)(nil)

// PropertyService is a mock implementation of capescout.PropertyService.
type PropertyService struct {
	CreatePropertyFn   func(ctx context.Context, p *capescout.Property) error
	FindPropertyByIDFn func(ctx context.Context, id string) (*capescout.Property, error)
	FindPropertiesFn   func(ctx context.Context, filter capescout.PropertyFilter) ([]*capescout.Property, int, error)
	UpdatePropertyFn   func(ctx context.Context, id string, upd capescout.PropertyUpdate) (*capescout.Property, error)
	DeletePropertiesFn func(ctx context.Context, del capescout.PropertyDelete) (int, error)
	ImportPropertiesFn func(ctx context.Context, records []*capescout.Property) (*capescout.ImportStats, error)
	IncrementViewsFn   func(ctx context.Context, id string) (int, error)
	IncrementLikesFn   func(ctx context.Context, id string) (int, error)
	AreaCountsFn       func(ctx context.Context) ([]capescout.AreaCount, error)
	StatsFn            func(ctx context.Context) (*capescout.ScrapeStats, error)
}

func (s *PropertyService) CreateProperty(ctx context.Context, p *capescout.Property) error {
	return s.CreatePropertyFn(ctx, p)
}

func (s *PropertyService) FindPropertyByID(ctx context.Context, id string) (*capescout.Property, error) {
	return s.FindPropertyByIDFn(ctx, id)
}

func (s *PropertyService) FindProperties(ctx context.Context, filter capescout.PropertyFilter) ([]*capescout.Property, int, error) {
	return s.FindPropertiesFn(ctx, filter)
}

func (s *PropertyService) UpdateProperty(ctx context.Context, id string, upd capescout.PropertyUpdate) (*capescout.Property, error) {
	return s.UpdatePropertyFn(ctx, id, upd)
}

func (s *PropertyService) DeleteProperties(ctx context.Context, del capescout.PropertyDelete) (int, error) {
	return s.DeletePropertiesFn(ctx, del)
}

func (s *PropertyService) ImportProperties(ctx context.Context, records []*capescout.Property) (*capescout.ImportStats, error) {
	return s.ImportPropertiesFn(ctx, records)
}

func (s *PropertyService) IncrementViews(ctx context.Context, id string) (int, error) {
	return s.IncrementViewsFn(ctx, id)
}

func (s *PropertyService) IncrementLikes(ctx context.Context, id string) (int, error) {
	return s.IncrementLikesFn(ctx, id)
}

func (s *PropertyService) AreaCounts(ctx context.Context) ([]capescout.AreaCount, error) {
	return s.AreaCountsFn(ctx)
}

func (s *PropertyService) Stats(ctx context.Context) (*capescout.ScrapeStats, error) {
	return s.StatsFn(ctx)
}
