package listings

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gharbazaar/internal/app/dto"
	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/infra/storage/s3"
)

var (
	ErrOwnerRequired   = errors.New("owner id is required")
	ErrListingNotOwned = errors.New("listing does not belong to this owner")
)

// Notifier is the outbound lifecycle-event port; the Kafka adapter
// implements it, tests stub it. All methods are fire-and-forget.
type Notifier interface {
	ListingPublished(ctx context.Context, l *listing.Listing)
	ListingRejected(ctx context.Context, l *listing.Listing)
	ListingBlocked(ctx context.Context, l *listing.Listing)
}

// ListingPayload carries the owner-editable field set.
type ListingPayload struct {
	ListingType string
	Category    string
	Title       string
	Description string
	Details     listing.Details
	Pricing     listing.Pricing
	Location    listing.Location
	Contact     listing.Contact
	Amenities   []string
	Preferences []string
}

// OwnerHandler serves the draft lifecycle: create, edit, publish, delete,
// plus photo management.
type OwnerHandler struct {
	Repo     listing.Repository
	Notifier Notifier
	Uploader s3.Uploader
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *OwnerHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// CreateDraft builds a new draft listing for the owner.
func (h *OwnerHandler) CreateDraft(ctx context.Context, ownerID string, payload ListingPayload) (dto.ListingView, error) {
	if strings.TrimSpace(ownerID) == "" {
		return dto.ListingView{}, ErrOwnerRequired
	}
	listingType, err := listing.ParseType(payload.ListingType)
	if err != nil {
		return dto.ListingView{}, err
	}
	l, err := listing.New(listing.CreateParams{
		ID:          listing.ID(uuid.NewString()),
		Owner:       listing.OwnerID(ownerID),
		Type:        listingType,
		Category:    payload.Category,
		Title:       payload.Title,
		Description: payload.Description,
		Details:     payload.Details,
		Pricing:     payload.Pricing,
		Location:    payload.Location,
		Contact:     payload.Contact,
		Amenities:   payload.Amenities,
		Preferences: payload.Preferences,
		Now:         h.now(),
	})
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("draft listing created", "listing_id", l.ID, "owner_id", ownerID, "listing_type", l.Type)
	}
	return dto.MapListing(l), nil
}

// Get returns an owned listing in any state, drafts included.
func (h *OwnerHandler) Get(ctx context.Context, ownerID, listingID string) (dto.ListingView, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}
	return dto.MapListing(l), nil
}

// UpdateDraft applies an edit to an owned draft.
func (h *OwnerHandler) UpdateDraft(ctx context.Context, ownerID, listingID string, payload ListingPayload) (dto.ListingView, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}
	err = l.UpdateDraft(listing.UpdateParams{
		Category:    payload.Category,
		Title:       payload.Title,
		Description: payload.Description,
		Details:     payload.Details,
		Pricing:     payload.Pricing,
		Location:    payload.Location,
		Contact:     payload.Contact,
		Amenities:   payload.Amenities,
		Preferences: payload.Preferences,
		Now:         h.now(),
	})
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	return dto.MapListing(l), nil
}

// Publish runs the validation gate and, on success, persists the scored
// listing in its published state and emits the lifecycle event.
func (h *OwnerHandler) Publish(ctx context.Context, ownerID, listingID string) (dto.ListingView, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.Publish(h.now()); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Notifier != nil {
		h.Notifier.ListingPublished(ctx, l)
	}
	if h.Logger != nil {
		h.Logger.Info("listing published", "listing_id", l.ID, "score", l.Score, "grade", l.Grade)
	}
	return dto.MapListing(l), nil
}

// Delete soft-deletes an owned listing; it stays in the store for audit but
// vanishes from every search.
func (h *OwnerHandler) Delete(ctx context.Context, ownerID, listingID string) error {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return err
	}
	l.SoftDelete(h.now(), ownerID)
	return h.Repo.Save(ctx, l)
}

// List returns the owner's listings, newest first, deleted ones excluded.
func (h *OwnerHandler) List(ctx context.Context, ownerID string, page, limit int) (dto.SearchResponse, error) {
	if strings.TrimSpace(ownerID) == "" {
		return dto.SearchResponse{}, ErrOwnerRequired
	}
	query := listing.Query{
		Owner: listing.OwnerID(ownerID),
		Sort:  listing.SortNewest,
		Page:  page,
		Limit: limit,
	}.Normalized()
	result, err := h.Repo.Search(ctx, query)
	if err != nil {
		return dto.SearchResponse{}, err
	}
	views := make([]dto.ListingView, 0, len(result.Items))
	for _, item := range result.Items {
		views = append(views, dto.MapListing(item))
	}
	totalPages := int((result.Total + int64(query.Limit) - 1) / int64(query.Limit))
	return dto.SearchResponse{
		Results:    views,
		Pagination: dto.Pagination{Page: query.Page, TotalPages: totalPages, TotalCount: result.Total},
	}, nil
}

// ScorePreview reports what an owned listing would score right now without
// persisting anything.
func (h *OwnerHandler) ScorePreview(ctx context.Context, ownerID, listingID string) (dto.ScoreResult, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ScoreResult{}, err
	}
	score := listing.ComputeScore(l)
	return dto.ScoreResult{Score: score, Grade: string(listing.GradeFor(score))}, nil
}

func (h *OwnerHandler) owned(ctx context.Context, ownerID, listingID string) (*listing.Listing, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}
	l, err := h.Repo.ByID(ctx, listing.ID(listingID))
	if err != nil {
		return nil, err
	}
	if l.Owner != listing.OwnerID(ownerID) {
		return nil, ErrListingNotOwned
	}
	return l, nil
}
