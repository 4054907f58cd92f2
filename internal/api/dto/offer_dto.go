package dto

import (
	"time"

	"github.com/localmarket/offers-service/internal/domain"
)

// LocationPayload carries a coordinate pair in requests. Fields are pointers
// so a half-supplied pair is detectable and ignorable.
type LocationPayload struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// CreateOfferRequest payload.
type CreateOfferRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Discount    float64          `json:"discount"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	Location    *LocationPayload `json:"location"`
	Category    string           `json:"category"`
}

// UpdateOfferRequest payload; any subset of create fields.
type UpdateOfferRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price"`
	Discount    *float64         `json:"discount"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	Location    *LocationPayload `json:"location"`
	Category    *string          `json:"category"`
}

// OfferResponse is the wire shape of an offer.
type OfferResponse struct {
	ID             int64           `json:"id"`
	SellerID       int64           `json:"sellerId"`
	SellerName     string          `json:"sellerName,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	Discount       float64         `json:"discount"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Location       domain.GeoPoint `json:"location"`
	Category       string          `json:"category"`
	DistanceMeters *float64        `json:"distanceMeters,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OfferImageResponse is a read-joined image record.
type OfferImageResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// OfferFeedbackResponse is a read-joined buyer review.
type OfferFeedbackResponse struct {
	ID        int64     `json:"id"`
	BuyerID   int64     `json:"buyerId"`
	BuyerName string    `json:"buyerName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// OfferDetailResponse is an offer enriched with images and feedback.
type OfferDetailResponse struct {
	OfferResponse
	Images   []OfferImageResponse    `json:"images"`
	Feedback []OfferFeedbackResponse `json:"feedback"`
}

// NewOfferResponse maps a domain offer to its wire shape.
func NewOfferResponse(offer *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:             offer.ID,
		SellerID:       offer.SellerID,
		SellerName:     offer.SellerName,
		Title:          offer.Title,
		Description:    offer.Description,
		Price:          offer.Price,
		Discount:       offer.Discount,
		StartDate:      offer.StartDate,
		EndDate:        offer.EndDate,
		Location:       offer.Location,
		Category:       offer.Category,
		DistanceMeters: offer.DistanceMeters,
		CreatedAt:      offer.CreatedAt,
		UpdatedAt:      offer.UpdatedAt,
	}
}
