package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/observability"
	"github.com/localmarket/offers-service/internal/repository"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// notFoundMessage deliberately covers both a missing offer and an offer owned
// by another seller, so callers cannot probe for other sellers' offers.
const notFoundMessage = "offer not found or unauthorized"

// OfferCreateInput describes offer creation payload.
type OfferCreateInput struct {
	Title       string
	Description string
	Price       float64
	Discount    float64
	StartDate   time.Time
	EndDate     time.Time
	Longitude   float64
	Latitude    float64
	Category    string
}

// OfferUpdateInput describes a partial update. Nil fields retain stored
// values. A location is applied only when both coordinates are supplied.
type OfferUpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
	Discount    *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Longitude   *float64
	Latitude    *float64
	Category    *string
}

// NearbyQuery describes a discovery request: a mandatory origin plus optional
// radius (kilometers) and category filters.
type NearbyQuery struct {
	Origin   domain.GeoPoint
	RadiusKM *float64
	Category *string
}

// OfferDetail bundles an offer with its read-joined collaborator records.
type OfferDetail struct {
	Offer    domain.Offer
	Images   []domain.OfferImage
	Feedback []domain.OfferFeedback
}

// OfferService enforces offer lifecycle and ownership rules.
type OfferService struct {
	offers repository.OfferRepository
	media  repository.MediaRepository
}

// NewOfferService constructs the service.
func NewOfferService(offers repository.OfferRepository, media repository.MediaRepository) *OfferService {
	return &OfferService{offers: offers, media: media}
}

// Create publishes a new offer for the seller. The offer is discoverable
// immediately; there is no draft state.
func (s *OfferService) Create(ctx context.Context, sellerID int64, input OfferCreateInput) (*domain.Offer, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must be non-negative")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date")
	}
	location, err := domain.NewGeoPoint(input.Longitude, input.Latitude)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	offer := &domain.Offer{
		SellerID:    sellerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Discount:    input.Discount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    location,
		Category:    input.Category,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// GetDetail fetches a single offer enriched with images and feedback.
// Expired offers remain fetchable by id; only discovery filters them out.
func (s *OfferService) GetDetail(ctx context.Context, id int64) (*OfferDetail, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, apperrors.NewNotFound("offer not found")
	}

	images, err := s.media.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback, err := s.media.ListFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OfferDetail{Offer: *offer, Images: images, Feedback: feedback}, nil
}

// FindNearby returns active offers ranked by distance from the origin.
// The caller supplies the radius in kilometers; the datastore predicate
// operates in meters.
func (s *OfferService) FindNearby(ctx context.Context, query NearbyQuery) ([]domain.Offer, error) {
	filter := repository.NearbyFilter{
		Origin:   query.Origin,
		Category: query.Category,
	}
	if query.RadiusKM != nil {
		if *query.RadiusKM < 0 {
			return nil, apperrors.NewValidationError("radius must be non-negative")
		}
		meters := *query.RadiusKM * 1000
		filter.RadiusMeters = &meters
	}

	offers, err := s.offers.FindNearby(ctx, filter)
	if err != nil {
		return nil, err
	}
	observability.RecordProximityQuery()
	return offers, nil
}

// Update applies a partial update to an offer owned by the seller.
func (s *OfferService) Update(ctx context.Context, id, sellerID int64, input OfferUpdateInput) (*domain.Offer, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, apperrors.NewValidationError("price must be non-negative")
	}
	if input.StartDate != nil && input.EndDate != nil && !input.EndDate.After(*input.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date")
	}

	patch := repository.OfferPatch{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Category:    input.Category,
	}
	// A half-supplied coordinate pair leaves the stored location untouched.
	if input.Longitude != nil && input.Latitude != nil {
		location, err := domain.NewGeoPoint(*input.Longitude, *input.Latitude)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		patch.Location = &location
	}

	offer, err := s.offers.Update(ctx, id, sellerID, patch)
	if errors.Is(err, repository.ErrNotFoundOrNotOwner) {
		return nil, apperrors.NewNotFound(notFoundMessage)
	}
	if errors.Is(err, repository.ErrInvalidDateWindow) {
		return nil, apperrors.NewValidationError("end date must be after start date")
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes an offer owned by the seller.
func (s *OfferService) Delete(ctx context.Context, id, sellerID int64) error {
	_, err := s.offers.Delete(ctx, id, sellerID)
	if errors.Is(err, repository.ErrNotFoundOrNotOwner) {
		return apperrors.NewNotFound(notFoundMessage)
	}
	return err
}
