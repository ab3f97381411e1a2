package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	listingapp "gharbazaar/internal/app/handlers/listings"
	"gharbazaar/internal/domain/listing"
)

// AdminListingHandler serves the moderation surface.
type AdminListingHandler struct {
	App    *listingapp.AdminHandler
	Logger *slog.Logger
}

func (h AdminListingHandler) Reject(c *gin.Context) {
	adminID, ok := requireAdmin(c)
	if !ok {
		return
	}
	result, err := h.App.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("moderation action", "action", "reject", "listing_id", c.Param("id"), "admin_id", adminID)
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminListingHandler) Block(c *gin.Context) {
	adminID, ok := requireAdmin(c)
	if !ok {
		return
	}
	result, err := h.App.Block(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("moderation action", "action", "block", "listing_id", c.Param("id"), "admin_id", adminID)
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminListingHandler) GrantPremium(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be a valid date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be a valid date"})
		return
	}
	result, err := h.App.GrantPremium(c.Request.Context(), c.Param("id"), req.PlanName, start, end, req.BoostRank)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminListingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.Is(err, listing.ErrPremiumWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, listing.ErrInvalidTransition), errors.Is(err, listing.ErrDeleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("admin listing request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}

var _ AdminListingHTTP = AdminListingHandler{}
