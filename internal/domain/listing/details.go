package listing

import "errors"

// ErrDetailMismatch signals detail records that do not match the listing's
// classification fields.
var ErrDetailMismatch = errors.New("listing: detail record does not match classification")

// Details is the type-specific portion of a listing, modeled as a tagged
// union: a listing holds exactly one variant, selected by its listing type
// and, for RENT/SELL, its property type.
type Details interface {
	// matchesClassification reports whether this variant is legal for the
	// given classification.
	matchesClassification(t Type, pt PropertyType) bool
}

type ResidentialDetails struct {
	BHKType          string
	Bathrooms        int
	Balconies        int
	FurnishType      string
	TenantPreference string
	BuiltUpAreaSqft  float64
	Floor            int
	TotalFloors      int
}

func (*ResidentialDetails) matchesClassification(t Type, pt PropertyType) bool {
	return (t == TypeRent || t == TypeSell) && pt == PropertyResidential
}

type PlotDetails struct {
	PlotArea   float64
	PlotLength float64
	PlotWidth  float64
}

type CommercialDetails struct {
	ConstructionStatus string
	FurnishType        string
	BuiltUpAreaSqft    float64
	Plot               *PlotDetails
}

func (*CommercialDetails) matchesClassification(t Type, pt PropertyType) bool {
	return (t == TypeRent || t == TypeSell) && pt == PropertyCommercial
}

type PGDetails struct {
	PGName          string
	PGFor           string
	RoomSharingType string
	FurnishType     string
	MealsIncluded   bool
}

func (*PGDetails) matchesClassification(t Type, pt PropertyType) bool {
	return t == TypePG
}

type CoLivingDetails struct {
	Name            string
	Gender          string
	Occupation      string
	RoomSharingType string
}

func (*CoLivingDetails) matchesClassification(t Type, pt PropertyType) bool {
	return t == TypeCoLiving
}

// propertyTypeOf derives the classification implied by a detail variant.
// PG and co-living listings carry no property type.
func propertyTypeOf(d Details) PropertyType {
	switch d.(type) {
	case *ResidentialDetails:
		return PropertyResidential
	case *CommercialDetails:
		return PropertyCommercial
	default:
		return ""
	}
}
