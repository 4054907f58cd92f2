package domain

import "time"

// Offer is a seller-published, time-bounded discount listing. An offer is
// discoverable while now < EndDate; expiry is derived at query time and never
// stored as a flag.
type Offer struct {
	ID          int64
	SellerID    int64
	SellerName  string
	Title       string
	Description string
	Price       float64
	Discount    float64
	StartDate   time.Time
	EndDate     time.Time
	Location    GeoPoint
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DistanceMeters is populated on proximity query results only.
	DistanceMeters *float64
}

// Active reports whether the offer is discoverable at the given instant.
func (o *Offer) Active(now time.Time) bool {
	return now.Before(o.EndDate)
}

// OfferImage is a read-joined image record attached to an offer. Image
// ownership and upload are managed outside this service.
type OfferImage struct {
	ID        int64
	OfferID   int64
	URL       string
	CreatedAt time.Time
}

// OfferFeedback is a read-joined buyer review of an offer.
type OfferFeedback struct {
	ID        int64
	OfferID   int64
	BuyerID   int64
	BuyerName string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
