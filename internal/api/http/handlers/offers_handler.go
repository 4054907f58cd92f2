package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/localmarket/offers-service/internal/api/dto"
	"github.com/localmarket/offers-service/internal/auth"
	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/service"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// OffersHandler exposes offer discovery and lifecycle endpoints.
type OffersHandler struct {
	service *service.OfferService
}

// NewOffersHandler constructs handler.
func NewOffersHandler(offerService *service.OfferService) *OffersHandler {
	return &OffersHandler{service: offerService}
}

// Create handles POST /offers (sellers only).
func (h *OffersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Location == nil || req.Location.Longitude == nil || req.Location.Latitude == nil {
		return apperrors.NewValidationError("location with longitude and latitude required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return apperrors.NewValidationError("startDate and endDate required")
	}

	offer, err := h.service.Create(c.Context(), principal.UserID, service.OfferCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Longitude:   *req.Location.Longitude,
		Latitude:    *req.Location.Latitude,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewOfferResponse(offer))
}

// Nearby handles GET /offers. Origin is mandatory; radius (km) and category
// are optional filters.
func (h *OffersHandler) Nearby(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return apperrors.NewValidationError("lat is required and must be numeric")
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return apperrors.NewValidationError("lng is required and must be numeric")
	}
	origin, err := domain.NewGeoPoint(lng, lat)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	query := service.NearbyQuery{Origin: origin}
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return apperrors.NewValidationError("radius must be numeric")
		}
		query.RadiusKM = &radius
	}
	if category := c.Query("category"); category != "" {
		query.Category = &category
	}

	offers, err := h.service.FindNearby(c.Context(), query)
	if err != nil {
		return err
	}
	items := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		items = append(items, dto.NewOfferResponse(&offers[i]))
	}
	return c.JSON(items)
}

// Get handles GET /offers/:id.
func (h *OffersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	detail, err := h.service.GetDetail(c.Context(), id)
	if err != nil {
		return err
	}

	resp := dto.OfferDetailResponse{
		OfferResponse: dto.NewOfferResponse(&detail.Offer),
		Images:        make([]dto.OfferImageResponse, 0, len(detail.Images)),
		Feedback:      make([]dto.OfferFeedbackResponse, 0, len(detail.Feedback)),
	}
	for _, img := range detail.Images {
		resp.Images = append(resp.Images, dto.OfferImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			CreatedAt: img.CreatedAt,
		})
	}
	for _, fb := range detail.Feedback {
		resp.Feedback = append(resp.Feedback, dto.OfferFeedbackResponse{
			ID:        fb.ID,
			BuyerID:   fb.BuyerID,
			BuyerName: fb.BuyerName,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			CreatedAt: fb.CreatedAt,
		})
	}
	return c.JSON(resp)
}

// Update handles PUT /offers/:id (owner seller only).
func (h *OffersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.UpdateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	input := service.OfferUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
	}
	if req.Location != nil {
		input.Longitude = req.Location.Longitude
		input.Latitude = req.Location.Latitude
	}

	offer, err := h.service.Update(c.Context(), id, principal.UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOfferResponse(offer))
}

// Delete handles DELETE /offers/:id (owner seller only).
func (h *OffersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id, principal.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "offer deleted successfully"})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid offer id")
	}
	return id, nil
}
