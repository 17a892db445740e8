package service

import (
	"context"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// SiteInfo summarises the workspace for the assistant and the public site.
type SiteInfo struct {
	BookableSpaces    int      `json:"bookable_spaces"`
	ConfirmedBookings int      `json:"confirmed_bookings"`
	Locations         []string `json:"locations"`
}

// CatalogService is the read side of the space catalog.
type CatalogService struct {
	spaces   *repository.SpaceRepo
	bookings *repository.BookingRepo
	checker  *AvailabilityChecker
}

func NewCatalogService(spaces *repository.SpaceRepo, bookings *repository.BookingRepo, checker *AvailabilityChecker) *CatalogService {
	if spaces == nil || bookings == nil || checker == nil {
		panic("nil dependency passed to NewCatalogService")
	}
	return &CatalogService{spaces: spaces, bookings: bookings, checker: checker}
}

// Search lists spaces matching f, ordered by name.
func (s *CatalogService) Search(ctx context.Context, f model.SpaceFilter) ([]model.Space, error) {
	out, err := s.spaces.Search(ctx, f)
	if err != nil {
		return nil, &StorageError{Op: "search spaces", Err: err}
	}
	return out, nil
}

// Get returns one space or ErrSpaceNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (model.Space, error) {
	sp, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return model.Space{}, storageErr("get space", err)
	}
	return sp, nil
}

// Places lists the distinct secondary groupings.
func (s *CatalogService) Places(ctx context.Context) ([]string, error) {
	out, err := s.spaces.Places(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list places", Err: err}
	}
	return out, nil
}

// AvailableFor returns offerable spaces that have no blocking booking
// intersecting the slot.
func (s *CatalogService) AvailableFor(ctx context.Context, date, start, end string) ([]model.Space, error) {
	slot, err := s.checker.Slot(date, start, end)
	if err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, invalid("end_time", "must be after start_time")
	}
	return s.AvailableForSlot(ctx, slot)
}

// AvailableForSlot is AvailableFor with a parsed slot.
func (s *CatalogService) AvailableForSlot(ctx context.Context, slot model.Slot) ([]model.Space, error) {
	spaces, err := s.spaces.ListOfferable(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list spaces", Err: err}
	}
	taken, err := s.bookings.OverlappingSpaceIDs(ctx, slot)
	if err != nil {
		return nil, &StorageError{Op: "check availability", Err: err}
	}
	out := make([]model.Space, 0, len(spaces))
	for _, sp := range spaces {
		if _, busy := taken[sp.ID]; !busy {
			out = append(out, sp)
		}
	}
	return out, nil
}

// SiteInfo counts bookable spaces and confirmed bookings and lists the
// locations in use.
func (s *CatalogService) SiteInfo(ctx context.Context) (SiteInfo, error) {
	var info SiteInfo
	var err error
	if info.BookableSpaces, err = s.spaces.CountBookable(ctx); err != nil {
		return SiteInfo{}, &StorageError{Op: "count spaces", Err: err}
	}
	if info.ConfirmedBookings, err = s.bookings.CountByStatus(ctx, model.BookingConfirmed); err != nil {
		return SiteInfo{}, &StorageError{Op: "count bookings", Err: err}
	}
	if info.Locations, err = s.spaces.ActiveLocations(ctx); err != nil {
		return SiteInfo{}, &StorageError{Op: "list locations", Err: err}
	}
	return info, nil
}
