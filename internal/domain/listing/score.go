package listing

import "strings"

// Grade buckets a listing score.
type Grade string

const (
	GradeExcellent Grade = "EXCELLENT"
	GradeGood      Grade = "GOOD"
	GradeAverage   Grade = "AVERAGE"
	GradePoor      Grade = "POOR"
)

// Score weights. Buckets are independent and additive; partial credit in one
// never affects another. Note the COMMERCIAL branch can earn up to 30 points
// from its two sub-bonuses where every other detail branch caps at 20; the
// asymmetry is intentional and pinned by a test.
const (
	pointsType         = 5
	pointsPropertyType = 5
	pointsDetails      = 20
	pointsCommercial   = 15
	pointsPricing      = 15
	pointsLocation     = 10
	pointsAmenities    = 10
	pointsPreferences  = 5
	pointsPhotosMany   = 20
	pointsPhotosFew    = 10
	pointsPhone        = 10

	maxScore = 100
)

// ComputeScore returns the completeness score in [0, 100]. Every field is
// treated as optional: absence withholds that bucket's points, it never
// fails. A completely empty listing scores 0.
func ComputeScore(l *Listing) int {
	if l == nil {
		return 0
	}
	score := 0
	if l.Type != "" {
		score += pointsType
	}
	if l.PropertyType != "" || l.Type == TypePG || l.Type == TypeCoLiving {
		score += pointsPropertyType
	}
	score += detailPoints(l.Details)
	if l.Pricing.RentAmount > 0 || l.Pricing.SaleAmount > 0 {
		score += pointsPricing
	}
	if strings.TrimSpace(l.Location.City) != "" && strings.TrimSpace(l.Location.Locality) != "" {
		score += pointsLocation
	}
	if len(l.Amenities) >= 3 {
		score += pointsAmenities
	}
	if len(l.Preferences) >= 1 {
		score += pointsPreferences
	}
	switch n := len(l.Photos); {
	case n >= 3:
		score += pointsPhotosMany
	case n >= 1:
		score += pointsPhotosFew
	}
	if strings.TrimSpace(l.Contact.Phone) != "" {
		score += pointsPhone
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

func detailPoints(d Details) int {
	switch v := d.(type) {
	case *PGDetails:
		if v.PGName != "" && v.PGFor != "" && v.RoomSharingType != "" {
			return pointsDetails
		}
	case *CoLivingDetails:
		if v.Name != "" && v.Gender != "" && v.Occupation != "" {
			return pointsDetails
		}
	case *ResidentialDetails:
		if v.BHKType != "" && v.Bathrooms > 0 {
			return pointsDetails
		}
	case *CommercialDetails:
		points := 0
		if v.ConstructionStatus != "" {
			points += pointsCommercial
		}
		if v.Plot != nil && v.Plot.PlotArea > 0 {
			points += pointsCommercial
		}
		return points
	}
	return 0
}

// GradeFor maps a score to its bucket; boundaries are inclusive on the lower
// bound.
func GradeFor(score int) Grade {
	switch {
	case score >= 85:
		return GradeExcellent
	case score >= 65:
		return GradeGood
	case score >= 40:
		return GradeAverage
	default:
		return GradePoor
	}
}

// RecomputeScore refreshes the persisted score and grade. It runs when a
// draft is submitted for publication and whenever the photo set changes; it
// is never computed on read.
func (l *Listing) RecomputeScore() {
	l.Score = ComputeScore(l)
	l.Grade = GradeFor(l.Score)
}
