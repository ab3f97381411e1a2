package listings

import (
	"context"
	"log/slog"
	"time"

	"gharbazaar/internal/app/dto"
	"gharbazaar/internal/domain/listing"
)

// AdminHandler serves moderation: reject/block published listings and grant
// premium boosts.
type AdminHandler struct {
	Repo     listing.Repository
	Notifier Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *AdminHandler) Reject(ctx context.Context, listingID string) (dto.ListingView, error) {
	l, err := h.Repo.ByID(ctx, listing.ID(listingID))
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.Reject(h.now()); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Notifier != nil {
		h.Notifier.ListingRejected(ctx, l)
	}
	if h.Logger != nil {
		h.Logger.Info("listing rejected", "listing_id", l.ID)
	}
	return dto.MapListing(l), nil
}

func (h *AdminHandler) Block(ctx context.Context, listingID string) (dto.ListingView, error) {
	l, err := h.Repo.ByID(ctx, listing.ID(listingID))
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.Block(h.now()); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Notifier != nil {
		h.Notifier.ListingBlocked(ctx, l)
	}
	if h.Logger != nil {
		h.Logger.Info("listing blocked", "listing_id", l.ID)
	}
	return dto.MapListing(l), nil
}

// GrantPremium attaches a paid boost window to a listing.
func (h *AdminHandler) GrantPremium(ctx context.Context, listingID, planName string, start, end time.Time, boostRank int) (dto.ListingView, error) {
	l, err := h.Repo.ByID(ctx, listing.ID(listingID))
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.GrantPremium(planName, start, end, boostRank); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("premium granted", "listing_id", l.ID, "plan", planName, "until", end)
	}
	return dto.MapListing(l), nil
}
