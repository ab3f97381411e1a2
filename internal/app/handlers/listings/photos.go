package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"gharbazaar/internal/app/dto"
)

// UploadPhoto stores the content in object storage and appends it to the
// listing's photo set. The score is recomputed as part of the append.
func (h *OwnerHandler) UploadPhoto(ctx context.Context, ownerID, listingID, filename, contentType string, reader io.Reader) (dto.ListingView, error) {
	if h.Uploader == nil {
		return dto.ListingView{}, errors.New("photo uploader unavailable")
	}
	if reader == nil {
		return dto.ListingView{}, errors.New("photo content is required")
	}
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}

	key := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.NewString(), path.Ext(filename))
	publicURL, err := h.Uploader.Upload(ctx, key, reader, contentType)
	if err != nil {
		return dto.ListingView{}, fmt.Errorf("upload photo: %w", err)
	}

	l.AddPhoto(publicURL, key, h.now())
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing photo added", "listing_id", l.ID, "key", key, "score", l.Score)
	}
	return dto.MapListing(l), nil
}

// RemovePhoto drops a photo from the listing, then from object storage.
// A failed storage delete is logged but does not undo the listing change.
func (h *OwnerHandler) RemovePhoto(ctx context.Context, ownerID, listingID, storageKey string) (dto.ListingView, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.RemovePhoto(storageKey, h.now()); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	if h.Uploader != nil {
		if err := h.Uploader.Remove(ctx, storageKey); err != nil && h.Logger != nil {
			h.Logger.Warn("stored photo removal failed", "key", storageKey, "error", err)
		}
	}
	return dto.MapListing(l), nil
}

// SetPrimaryPhoto marks one photo as the cover image.
func (h *OwnerHandler) SetPrimaryPhoto(ctx context.Context, ownerID, listingID, storageKey string) (dto.ListingView, error) {
	l, err := h.owned(ctx, ownerID, listingID)
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.SetPrimaryPhoto(storageKey, h.now()); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Repo.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	return dto.MapListing(l), nil
}
