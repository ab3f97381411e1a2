package listing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gharbazaar/internal/domain/listing"
)

func TestNew_RequiresIdentityAndType(t *testing.T) {
	_, err := listing.New(listing.CreateParams{Owner: "u-1", Type: listing.TypeRent})
	assert.ErrorIs(t, err, listing.ErrIDRequired)

	_, err = listing.New(listing.CreateParams{ID: "l-1", Type: listing.TypeRent})
	assert.ErrorIs(t, err, listing.ErrOwnerRequired)

	_, err = listing.New(listing.CreateParams{ID: "l-1", Owner: "u-1", Type: "LEASE"})
	assert.ErrorIs(t, err, listing.ErrUnknownType)
}

func TestNew_RejectsMismatchedDetails(t *testing.T) {
	_, err := listing.New(listing.CreateParams{
		ID:      "l-1",
		Owner:   "u-1",
		Type:    listing.TypePG,
		Details: &listing.ResidentialDetails{BHKType: "1BHK"},
	})
	assert.ErrorIs(t, err, listing.ErrDetailMismatch)
}

func TestNew_DerivesPropertyTypeFromDetails(t *testing.T) {
	l, err := listing.New(listing.CreateParams{
		ID:      "l-1",
		Owner:   "u-1",
		Type:    listing.TypeSell,
		Details: &listing.CommercialDetails{ConstructionStatus: "READY"},
		Now:     time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, listing.PropertyCommercial, l.PropertyType)
	assert.Equal(t, listing.StatusDraft, l.Status)

	pg, err := listing.New(listing.CreateParams{
		ID:      "l-2",
		Owner:   "u-1",
		Type:    listing.TypePG,
		Details: &listing.PGDetails{PGName: "Sunrise"},
		Now:     time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, pg.PropertyType, "PG listings carry no property type")
}

func TestParseType_NormalizesCase(t *testing.T) {
	typ, err := listing.ParseType("  rent ")
	require.NoError(t, err)
	assert.Equal(t, listing.TypeRent, typ)
}

func TestPublish_IncompleteDraftFailsWithoutSideEffects(t *testing.T) {
	l := completeRentListing(t)
	l.Contact.Phone = ""

	err := l.Publish(time.Now())
	assert.ErrorIs(t, err, listing.ErrIncompleteListing)
	assert.Equal(t, listing.StatusDraft, l.Status)

	l.Contact.Phone = "+919876543210"
	require.NoError(t, l.Publish(time.Now()))
	assert.Equal(t, listing.StatusActive, l.Status)
	assert.Equal(t, 100, l.Score)
	assert.Equal(t, listing.GradeExcellent, l.Grade)
}

func TestPublish_RentNeedsPriceAndMatchingDetails(t *testing.T) {
	l := completeRentListing(t)
	l.Pricing = listing.Pricing{}
	assert.ErrorIs(t, l.Publish(time.Now()), listing.ErrIncompleteListing)

	l = completeRentListing(t)
	l.Details = nil
	assert.ErrorIs(t, l.Publish(time.Now()), listing.ErrIncompleteListing)
}

func TestPublish_RequiresAtLeastOnePhoto(t *testing.T) {
	l := completeRentListing(t)
	l.Photos = nil
	assert.ErrorIs(t, l.Publish(time.Now()), listing.ErrIncompleteListing)
}

func TestPublish_OnlyFromDraft(t *testing.T) {
	l := completeRentListing(t)
	require.NoError(t, l.Publish(time.Now()))
	assert.ErrorIs(t, l.Publish(time.Now()), listing.ErrInvalidTransition)
}

func TestModeration_Transitions(t *testing.T) {
	l := completeRentListing(t)

	// Draft listings are not subject to moderation.
	assert.ErrorIs(t, l.Reject(time.Now()), listing.ErrInvalidTransition)
	assert.ErrorIs(t, l.Block(time.Now()), listing.ErrInvalidTransition)

	require.NoError(t, l.Publish(time.Now()))
	require.NoError(t, l.Block(time.Now()))
	assert.Equal(t, listing.StatusBlocked, l.Status)

	// Blocked and rejected convert into each other.
	require.NoError(t, l.Reject(time.Now()))
	assert.Equal(t, listing.StatusRejected, l.Status)
	require.NoError(t, l.Block(time.Now()))
	assert.Equal(t, listing.StatusBlocked, l.Status)
}

func TestUpdateDraft_RejectedOutsideDraft(t *testing.T) {
	l := completeRentListing(t)
	require.NoError(t, l.Publish(time.Now()))

	err := l.UpdateDraft(listing.UpdateParams{Title: "new title", Now: time.Now()})
	assert.ErrorIs(t, err, listing.ErrNotEditable)
}

func TestUpdateDraft_ReplacesDetailsAndPropertyType(t *testing.T) {
	l := completeRentListing(t)
	err := l.UpdateDraft(listing.UpdateParams{
		Category: "office",
		Title:    "corner shop",
		Details:  &listing.CommercialDetails{ConstructionStatus: "READY"},
		Now:      time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, listing.PropertyCommercial, l.PropertyType)
}

func TestSoftDelete_BlocksFurtherLifecycle(t *testing.T) {
	l := completeRentListing(t)
	l.SoftDelete(time.Now(), "u-1")
	assert.True(t, l.IsDeleted)
	assert.Equal(t, "u-1", l.DeletedBy)

	assert.ErrorIs(t, l.Publish(time.Now()), listing.ErrDeleted)
	assert.ErrorIs(t, l.UpdateDraft(listing.UpdateParams{Now: time.Now()}), listing.ErrDeleted)
}

func TestPhotos_FirstBecomesPrimary(t *testing.T) {
	l := completeRentListing(t)
	require.Len(t, l.Photos, 3)
	assert.True(t, l.Photos[0].IsPrimary)
	assert.False(t, l.Photos[1].IsPrimary)

	require.NoError(t, l.SetPrimaryPhoto("p2", time.Now()))
	primary := l.PrimaryPhoto()
	require.NotNil(t, primary)
	assert.Equal(t, "p2", primary.StorageKey)
	assert.False(t, l.Photos[0].IsPrimary)
}

func TestPhotos_RemovingPrimaryPromotesNext(t *testing.T) {
	l := completeRentListing(t)
	require.NoError(t, l.RemovePhoto("p1", time.Now()))
	primary := l.PrimaryPhoto()
	require.NotNil(t, primary)
	assert.Equal(t, "p2", primary.StorageKey)

	assert.ErrorIs(t, l.RemovePhoto("missing", time.Now()), listing.ErrPhotoNotFound)
	assert.ErrorIs(t, l.SetPrimaryPhoto("missing", time.Now()), listing.ErrPhotoNotFound)
}

func TestGrantPremium_ValidatesWindow(t *testing.T) {
	l := completeRentListing(t)
	start := time.Now()

	err := l.GrantPremium("spotlight", start, start, 3)
	assert.ErrorIs(t, err, listing.ErrPremiumWindow)
	assert.False(t, l.IsPremium)

	require.NoError(t, l.GrantPremium("spotlight", start, start.Add(30*24*time.Hour), 3))
	assert.True(t, l.IsPremium)
	require.NotNil(t, l.Premium)
	assert.Equal(t, 3, l.Premium.BoostRank)
}
