package listing

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("listing: not found")
	ErrIDRequired        = errors.New("listing: id is required")
	ErrOwnerRequired     = errors.New("listing: owner is required")
	ErrUnknownType       = errors.New("listing: unknown listing type")
	ErrInvalidTransition = errors.New("listing: invalid state transition")
	ErrNotEditable       = errors.New("listing: only draft listings accept edits")
	ErrDeleted           = errors.New("listing: listing has been deleted")
	// ErrIncompleteListing is the single publication-gate failure. The API
	// layer tells the user which section to revisit; the gate does not
	// enumerate missing fields.
	ErrIncompleteListing = errors.New("listing: required fields missing for publication")
	ErrPhotoNotFound     = errors.New("listing: photo not found")
	ErrPremiumWindow     = errors.New("listing: premium end date must be after start date")
)

type ID string
type OwnerID string

// Type classifies what is being advertised.
type Type string

const (
	TypeRent     Type = "RENT"
	TypeSell     Type = "SELL"
	TypeCoLiving Type = "CO_LIVING"
	TypePG       Type = "PG"
)

// ParseType validates a raw listing type value.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case TypeRent, TypeSell, TypeCoLiving, TypePG:
		return t, nil
	}
	return "", ErrUnknownType
}

// PropertyType applies only to RENT and SELL listings.
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCommercial  PropertyType = "COMMERCIAL"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusRejected Status = "REJECTED"
	StatusBlocked  Status = "BLOCKED"
)

type Coordinates struct {
	Lat float64
	Lng float64
}

type Location struct {
	City        string
	Locality    string
	Society     string
	Landmark    string
	Coordinates *Coordinates
}

type Contact struct {
	Phone     string
	HidePhone bool
}

// Pricing amounts are in rupees; zero means not provided.
type Pricing struct {
	RentAmount  int64
	SaleAmount  int64
	Deposit     int64
	Maintenance int64
}

type Photo struct {
	URL        string
	StorageKey string
	IsPrimary  bool
}

// Premium is a time-limited paid ranking boost.
type Premium struct {
	StartDate time.Time
	EndDate   time.Time
	PlanName  string
	BoostRank int
}

// Listing is the central marketplace entity.
type Listing struct {
	ID           ID
	Owner        OwnerID
	Type         Type
	PropertyType PropertyType
	Category     string
	Status       Status
	Title        string
	Description  string
	Details      Details
	Pricing      Pricing
	Location     Location
	Contact      Contact
	Photos       []Photo
	Amenities    []string
	Preferences  []string
	Score        int
	Grade        Grade
	IsPremium    bool
	Premium      *Premium
	IsDeleted    bool
	DeletedAt    time.Time
	DeletedBy    string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the listing store boundary.
type Repository interface {
	ByID(ctx context.Context, id ID) (*Listing, error)
	Save(ctx context.Context, l *Listing) error
	Search(ctx context.Context, q Query) (SearchResult, error)
	// ExpirePremium clears the premium boost on every listing whose window
	// ended before now and reports how many were touched.
	ExpirePremium(ctx context.Context, now time.Time) (int64, error)
}

type CreateParams struct {
	ID          ID
	Owner       OwnerID
	Type        Type
	Category    string
	Title       string
	Description string
	Details     Details
	Pricing     Pricing
	Location    Location
	Contact     Contact
	Amenities   []string
	Preferences []string
	Now         time.Time
}

// New creates a draft listing. Only identity and classification are required
// at this point; everything else may arrive through draft edits.
func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if _, err := ParseType(string(params.Type)); err != nil {
		return nil, err
	}
	if params.Details != nil && !params.Details.matchesClassification(params.Type, propertyTypeOf(params.Details)) {
		return nil, ErrDetailMismatch
	}

	now := params.Now.UTC()
	l := &Listing{
		ID:           params.ID,
		Owner:        params.Owner,
		Type:         params.Type,
		PropertyType: propertyTypeOf(params.Details),
		Category:     strings.TrimSpace(params.Category),
		Status:       StatusDraft,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Details:      params.Details,
		Pricing:      params.Pricing,
		Location:     params.Location,
		Contact:      params.Contact,
		Amenities:    append([]string(nil), params.Amenities...),
		Preferences:  append([]string(nil), params.Preferences...),
		Grade:        GradePoor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return l, nil
}

type UpdateParams struct {
	Category    string
	Title       string
	Description string
	Details     Details
	Pricing     Pricing
	Location    Location
	Contact     Contact
	Amenities   []string
	Preferences []string
	Now         time.Time
}

// UpdateDraft replaces the mutable field set. Rejected outside DRAFT.
func (l *Listing) UpdateDraft(params UpdateParams) error {
	if l.IsDeleted {
		return ErrDeleted
	}
	if l.Status != StatusDraft {
		return ErrNotEditable
	}
	if params.Details != nil && !params.Details.matchesClassification(l.Type, propertyTypeOf(params.Details)) {
		return ErrDetailMismatch
	}
	l.Category = strings.TrimSpace(params.Category)
	l.Title = strings.TrimSpace(params.Title)
	l.Description = strings.TrimSpace(params.Description)
	l.Details = params.Details
	l.PropertyType = propertyTypeOf(params.Details)
	l.Pricing = params.Pricing
	l.Location = params.Location
	l.Contact = params.Contact
	l.Amenities = append([]string(nil), params.Amenities...)
	l.Preferences = append([]string(nil), params.Preferences...)
	l.UpdatedAt = params.Now.UTC()
	return nil
}

// ValidateForPublish is the DRAFT -> ACTIVE gate. It evaluates the
// requirements as a conjunction and reports the first failure as the single
// ErrIncompleteListing class.
func (l *Listing) ValidateForPublish() error {
	if l.Type == "" || strings.TrimSpace(l.Category) == "" {
		return ErrIncompleteListing
	}
	if (l.Type == TypeRent || l.Type == TypeSell) && l.PropertyType == "" {
		return ErrIncompleteListing
	}
	if strings.TrimSpace(l.Location.City) == "" || strings.TrimSpace(l.Location.Locality) == "" {
		return ErrIncompleteListing
	}
	if strings.TrimSpace(l.Contact.Phone) == "" {
		return ErrIncompleteListing
	}
	if len(l.Photos) == 0 {
		return ErrIncompleteListing
	}
	switch l.Type {
	case TypeRent, TypeSell:
		if l.Details == nil || !l.Details.matchesClassification(l.Type, l.PropertyType) {
			return ErrIncompleteListing
		}
		if l.Pricing.RentAmount <= 0 && l.Pricing.SaleAmount <= 0 {
			return ErrIncompleteListing
		}
	case TypePG:
		if _, ok := l.Details.(*PGDetails); !ok {
			return ErrIncompleteListing
		}
	case TypeCoLiving:
		if _, ok := l.Details.(*CoLivingDetails); !ok {
			return ErrIncompleteListing
		}
	}
	return nil
}

// Publish moves a draft to the published state. On success the quality score
// is computed and persisted with the entity; on failure nothing changes.
func (l *Listing) Publish(now time.Time) error {
	if l.IsDeleted {
		return ErrDeleted
	}
	if l.Status != StatusDraft {
		return ErrInvalidTransition
	}
	if err := l.ValidateForPublish(); err != nil {
		return err
	}
	l.RecomputeScore()
	l.Status = StatusActive
	l.UpdatedAt = now.UTC()
	return nil
}

// Reject is an administrator action, reachable from ACTIVE or BLOCKED.
func (l *Listing) Reject(now time.Time) error {
	if l.Status != StatusActive && l.Status != StatusBlocked {
		return ErrInvalidTransition
	}
	l.Status = StatusRejected
	l.UpdatedAt = now.UTC()
	return nil
}

// Block is an administrator action, reachable from ACTIVE or REJECTED.
func (l *Listing) Block(now time.Time) error {
	if l.Status != StatusActive && l.Status != StatusRejected {
		return ErrInvalidTransition
	}
	l.Status = StatusBlocked
	l.UpdatedAt = now.UTC()
	return nil
}

// SoftDelete hides the listing from every search while retaining it for audit.
func (l *Listing) SoftDelete(now time.Time, by string) {
	if l.IsDeleted {
		return
	}
	l.IsDeleted = true
	l.DeletedAt = now.UTC()
	l.DeletedBy = by
	l.UpdatedAt = now.UTC()
}

// AddPhoto appends a photo and recomputes the score. The first photo becomes
// primary.
func (l *Listing) AddPhoto(url, storageKey string, now time.Time) {
	l.Photos = append(l.Photos, Photo{URL: url, StorageKey: storageKey})
	l.normalizePrimary()
	l.RecomputeScore()
	l.UpdatedAt = now.UTC()
}

// RemovePhoto drops the photo with the given storage key.
func (l *Listing) RemovePhoto(storageKey string, now time.Time) error {
	for i, p := range l.Photos {
		if p.StorageKey == storageKey {
			l.Photos = append(l.Photos[:i], l.Photos[i+1:]...)
			l.normalizePrimary()
			l.RecomputeScore()
			l.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrPhotoNotFound
}

// SetPrimaryPhoto marks one photo primary and clears the flag everywhere else.
func (l *Listing) SetPrimaryPhoto(storageKey string, now time.Time) error {
	found := false
	for i := range l.Photos {
		if l.Photos[i].StorageKey == storageKey {
			found = true
			break
		}
	}
	if !found {
		return ErrPhotoNotFound
	}
	for i := range l.Photos {
		l.Photos[i].IsPrimary = l.Photos[i].StorageKey == storageKey
	}
	l.RecomputeScore()
	l.UpdatedAt = now.UTC()
	return nil
}

// PrimaryPhoto returns the marked photo, or the first one when nothing is
// marked.
func (l *Listing) PrimaryPhoto() *Photo {
	for i := range l.Photos {
		if l.Photos[i].IsPrimary {
			return &l.Photos[i]
		}
	}
	if len(l.Photos) > 0 {
		return &l.Photos[0]
	}
	return nil
}

// GrantPremium attaches a paid boost window.
func (l *Listing) GrantPremium(planName string, start, end time.Time, boostRank int) error {
	if !end.After(start) {
		return ErrPremiumWindow
	}
	l.IsPremium = true
	l.Premium = &Premium{
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		PlanName:  planName,
		BoostRank: boostRank,
	}
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// normalizePrimary keeps the at-most-one-primary invariant: the first marked
// photo wins, and a non-empty set with no mark promotes the first entry.
func (l *Listing) normalizePrimary() {
	seen := false
	for i := range l.Photos {
		if l.Photos[i].IsPrimary {
			if seen {
				l.Photos[i].IsPrimary = false
				continue
			}
			seen = true
		}
	}
	if !seen && len(l.Photos) > 0 {
		l.Photos[0].IsPrimary = true
	}
}
