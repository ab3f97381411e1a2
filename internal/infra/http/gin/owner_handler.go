package ginserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	listingapp "gharbazaar/internal/app/handlers/listings"
	"gharbazaar/internal/domain/listing"
)

const maxListingPhotoSizeBytes int64 = 10 * 1024 * 1024

// OwnerListingHandler serves the authenticated owner surface.
type OwnerListingHandler struct {
	App    *listingapp.OwnerHandler
	Logger *slog.Logger
}

// listingRequest is the owner-submitted body for create and update. Exactly
// one detail block is expected; which one depends on listing_type and
// property_type.
type listingRequest struct {
	ListingType string `json:"listing_type"`
	Category    string `json:"property_category"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Residential *residentialDetailsRequest `json:"residential_details"`
	Commercial  *commercialDetailsRequest  `json:"commercial_details"`
	PG          *pgDetailsRequest          `json:"pg_details"`
	CoLiving    *coLivingDetailsRequest    `json:"co_living_details"`

	Pricing  pricingRequest  `json:"pricing"`
	Location locationRequest `json:"location"`
	Contact  contactRequest  `json:"contact"`

	Amenities   []string `json:"amenities"`
	Preferences []string `json:"preferences"`
}

type residentialDetailsRequest struct {
	BHKType          string  `json:"bhk_type"`
	Bathrooms        int     `json:"bathrooms"`
	Balconies        int     `json:"balconies"`
	FurnishType      string  `json:"furnish_type"`
	TenantPreference string  `json:"tenant_preference"`
	BuiltUpAreaSqft  float64 `json:"builtup_area_sqft"`
	Floor            int     `json:"floor"`
	TotalFloors      int     `json:"total_floors"`
}

type commercialDetailsRequest struct {
	ConstructionStatus string              `json:"construction_status"`
	FurnishType        string              `json:"furnish_type"`
	BuiltUpAreaSqft    float64             `json:"builtup_area_sqft"`
	Plot               *plotDetailsRequest `json:"plot_details"`
}

type plotDetailsRequest struct {
	PlotArea   float64 `json:"plot_area"`
	PlotLength float64 `json:"plot_length"`
	PlotWidth  float64 `json:"plot_width"`
}

type pgDetailsRequest struct {
	PGName          string `json:"pg_name"`
	PGFor           string `json:"pg_for"`
	RoomSharingType string `json:"room_sharing_type"`
	FurnishType     string `json:"furnish_type"`
	MealsIncluded   bool   `json:"meals_included"`
}

type coLivingDetailsRequest struct {
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	Occupation      string `json:"occupation"`
	RoomSharingType string `json:"room_sharing_type"`
}

type pricingRequest struct {
	RentAmount  int64 `json:"rent_amount"`
	SaleAmount  int64 `json:"sale_amount"`
	Deposit     int64 `json:"deposit"`
	Maintenance int64 `json:"maintenance"`
}

type locationRequest struct {
	City     string   `json:"city"`
	Locality string   `json:"locality"`
	Society  string   `json:"society"`
	Landmark string   `json:"landmark"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

type contactRequest struct {
	Phone     string `json:"phone"`
	HidePhone bool   `json:"hide_phone"`
}

type premiumRequest struct {
	PlanName  string `json:"plan_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	BoostRank int    `json:"boost_rank"`
}

func (r listingRequest) payload() (listingapp.ListingPayload, error) {
	details, err := r.details()
	if err != nil {
		return listingapp.ListingPayload{}, err
	}
	location := listing.Location{
		City:     strings.TrimSpace(r.Location.City),
		Locality: strings.TrimSpace(r.Location.Locality),
		Society:  strings.TrimSpace(r.Location.Society),
		Landmark: strings.TrimSpace(r.Location.Landmark),
	}
	if r.Location.Lat != nil && r.Location.Lng != nil {
		location.Coordinates = &listing.Coordinates{Lat: *r.Location.Lat, Lng: *r.Location.Lng}
	}
	return listingapp.ListingPayload{
		ListingType: r.ListingType,
		Category:    strings.TrimSpace(r.Category),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Details:     details,
		Pricing: listing.Pricing{
			RentAmount:  r.Pricing.RentAmount,
			SaleAmount:  r.Pricing.SaleAmount,
			Deposit:     r.Pricing.Deposit,
			Maintenance: r.Pricing.Maintenance,
		},
		Location: location,
		Contact: listing.Contact{
			Phone:     strings.TrimSpace(r.Contact.Phone),
			HidePhone: r.Contact.HidePhone,
		},
		Amenities:   r.Amenities,
		Preferences: r.Preferences,
	}, nil
}

func (r listingRequest) details() (listing.Details, error) {
	blocks := 0
	var details listing.Details
	if r.Residential != nil {
		blocks++
		details = &listing.ResidentialDetails{
			BHKType:          r.Residential.BHKType,
			Bathrooms:        r.Residential.Bathrooms,
			Balconies:        r.Residential.Balconies,
			FurnishType:      r.Residential.FurnishType,
			TenantPreference: r.Residential.TenantPreference,
			BuiltUpAreaSqft:  r.Residential.BuiltUpAreaSqft,
			Floor:            r.Residential.Floor,
			TotalFloors:      r.Residential.TotalFloors,
		}
	}
	if r.Commercial != nil {
		blocks++
		commercial := &listing.CommercialDetails{
			ConstructionStatus: r.Commercial.ConstructionStatus,
			FurnishType:        r.Commercial.FurnishType,
			BuiltUpAreaSqft:    r.Commercial.BuiltUpAreaSqft,
		}
		if r.Commercial.Plot != nil {
			commercial.Plot = &listing.PlotDetails{
				PlotArea:   r.Commercial.Plot.PlotArea,
				PlotLength: r.Commercial.Plot.PlotLength,
				PlotWidth:  r.Commercial.Plot.PlotWidth,
			}
		}
		details = commercial
	}
	if r.PG != nil {
		blocks++
		details = &listing.PGDetails{
			PGName:          r.PG.PGName,
			PGFor:           r.PG.PGFor,
			RoomSharingType: r.PG.RoomSharingType,
			FurnishType:     r.PG.FurnishType,
			MealsIncluded:   r.PG.MealsIncluded,
		}
	}
	if r.CoLiving != nil {
		blocks++
		details = &listing.CoLivingDetails{
			Name:            r.CoLiving.Name,
			Gender:          r.CoLiving.Gender,
			Occupation:      r.CoLiving.Occupation,
			RoomSharingType: r.CoLiving.RoomSharingType,
		}
	}
	if blocks != 1 {
		return nil, errors.New("exactly one details block is required")
	}
	return details, nil
}

func (h OwnerListingHandler) List(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.List(c.Request.Context(), ownerID, parseInt(c.Query("page")), parseInt(c.Query("limit")))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Create(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.App.CreateDraft(c.Request.Context(), ownerID, payload)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/my/listings/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h OwnerListingHandler) Get(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Update(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.App.UpdateDraft(c.Request.Context(), ownerID, c.Param("id"), payload)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Publish(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.Publish(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Delete(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.App.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h OwnerListingHandler) ScorePreview(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.ScorePreview(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) UploadPhoto(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	if fileHeader.Size <= 0 {
		h.respondWithError(c, http.StatusBadRequest, errors.New("file is empty"))
		return
	}
	if fileHeader.Size > maxListingPhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file too large (max %d MB)", maxListingPhotoSizeBytes/1024/1024))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.respondWithError(c, http.StatusInternalServerError, fmt.Errorf("cannot read file: %w", err))
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !isAllowedImageType(contentType) {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("unsupported content type: %s", contentType))
		return
	}

	reader := io.MultiReader(strings.NewReader(string(head)), io.LimitReader(file, maxListingPhotoSizeBytes))
	result, err := h.App.UploadPhoto(c.Request.Context(), ownerID, c.Param("id"), fileHeader.Filename, contentType, reader)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OwnerListingHandler) RemovePhoto(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.RemovePhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("key"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) SetPrimaryPhoto(c *gin.Context) {
	ownerID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.App.SetPrimaryPhoto(c.Request.Context(), ownerID, c.Param("id"), c.Param("key"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listing.ErrNotFound), errors.Is(err, listingapp.ErrListingNotOwned):
		// Someone else's listing reads as not found rather than forbidden.
		h.respondWithError(c, http.StatusNotFound, errors.New("listing not found"))
	case errors.Is(err, listingapp.ErrOwnerRequired):
		h.respondWithError(c, http.StatusUnauthorized, err)
	case errors.Is(err, listing.ErrPhotoNotFound):
		h.respondWithError(c, http.StatusNotFound, err)
	case isListingValidationError(err):
		h.respondWithError(c, http.StatusBadRequest, err)
	case errors.Is(err, listing.ErrInvalidTransition), errors.Is(err, listing.ErrNotEditable), errors.Is(err, listing.ErrDeleted):
		h.respondWithError(c, http.StatusConflict, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h OwnerListingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil && status >= http.StatusInternalServerError {
		h.Logger.Error("owner listing request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isListingValidationError(err error) bool {
	return errors.Is(err, listing.ErrUnknownType) ||
		errors.Is(err, listing.ErrDetailMismatch) ||
		errors.Is(err, listing.ErrIncompleteListing) ||
		errors.Is(err, listing.ErrPremiumWindow)
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

var _ OwnerListingHTTP = OwnerListingHandler{}
