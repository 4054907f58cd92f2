package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localmarket/offers-service/internal/domain"
	"github.com/localmarket/offers-service/internal/repository"
	"github.com/localmarket/offers-service/internal/service"
	apperrors "github.com/localmarket/offers-service/pkg/util"
)

// --- Mock OfferRepository ---

type mockOfferRepo struct {
	createFn     func(ctx context.Context, offer *domain.Offer) error
	getByIDFn    func(ctx context.Context, id int64) (*domain.Offer, error)
	findNearbyFn func(ctx context.Context, filter repository.NearbyFilter) ([]domain.Offer, error)
	updateFn     func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error)
	deleteFn     func(ctx context.Context, id, sellerID int64) (bool, error)
}

func (m *mockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	if m.createFn != nil {
		return m.createFn(ctx, offer)
	}
	offer.ID = 1
	return nil
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOfferRepo) FindNearby(ctx context.Context, filter repository.NearbyFilter) ([]domain.Offer, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockOfferRepo) Update(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, sellerID, patch)
	}
	return &domain.Offer{ID: id, SellerID: sellerID}, nil
}

func (m *mockOfferRepo) Delete(ctx context.Context, id, sellerID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, sellerID)
	}
	return true, nil
}

type mockMediaRepo struct {
	images   []domain.OfferImage
	feedback []domain.OfferFeedback
}

func (m *mockMediaRepo) ListImages(ctx context.Context, offerID int64) ([]domain.OfferImage, error) {
	return m.images, nil
}

func (m *mockMediaRepo) ListFeedback(ctx context.Context, offerID int64) ([]domain.OfferFeedback, error) {
	return m.feedback, nil
}

func validCreateInput() service.OfferCreateInput {
	return service.OfferCreateInput{
		Title:       "Half-price pintxos",
		Description: "Evening deal",
		Price:       12.50,
		Discount:    50,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Longitude:   -2.935,
		Latitude:    43.263,
		Category:    "food",
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return de.HTTPStatus
}

// --- Create ---

func TestOfferService_Create(t *testing.T) {
	var created *domain.Offer
	repo := &mockOfferRepo{
		createFn: func(ctx context.Context, offer *domain.Offer) error {
			offer.ID = 7
			created = offer
			return nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	offer, err := svc.Create(context.Background(), 42, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", offer.ID)
	}
	if created.SellerID != 42 {
		t.Errorf("expected seller id 42, got %d", created.SellerID)
	}
	if created.Location.Longitude != -2.935 || created.Location.Latitude != 43.263 {
		t.Errorf("location not carried: %+v", created.Location)
	}
}

func TestOfferService_Create_RejectsBadDateWindow(t *testing.T) {
	svc := service.NewOfferService(&mockOfferRepo{}, &mockMediaRepo{})

	input := validCreateInput()
	input.EndDate = input.StartDate
	if status := statusOf(t, mustErr(svc.Create(context.Background(), 1, input))); status != 400 {
		t.Errorf("expected 400 for end == start, got %d", status)
	}

	input.EndDate = input.StartDate.Add(-time.Hour)
	if status := statusOf(t, mustErr(svc.Create(context.Background(), 1, input))); status != 400 {
		t.Errorf("expected 400 for end < start, got %d", status)
	}
}

func TestOfferService_Create_RejectsBadCoordinates(t *testing.T) {
	svc := service.NewOfferService(&mockOfferRepo{}, &mockMediaRepo{})

	input := validCreateInput()
	input.Latitude = 91
	if status := statusOf(t, mustErr(svc.Create(context.Background(), 1, input))); status != 400 {
		t.Errorf("expected 400 for out-of-range latitude, got %d", status)
	}
}

func TestOfferService_Create_RejectsNegativePrice(t *testing.T) {
	svc := service.NewOfferService(&mockOfferRepo{}, &mockMediaRepo{})

	input := validCreateInput()
	input.Price = -1
	if status := statusOf(t, mustErr(svc.Create(context.Background(), 1, input))); status != 400 {
		t.Errorf("expected 400 for negative price, got %d", status)
	}
}

// --- FindNearby ---

func TestOfferService_FindNearby_ConvertsRadiusToMeters(t *testing.T) {
	var seen repository.NearbyFilter
	repo := &mockOfferRepo{
		findNearbyFn: func(ctx context.Context, filter repository.NearbyFilter) ([]domain.Offer, error) {
			seen = filter
			return []domain.Offer{}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	radius := 2.5
	origin, _ := domain.NewGeoPoint(-2.935, 43.263)
	_, err := svc.FindNearby(context.Background(), service.NearbyQuery{Origin: origin, RadiusKM: &radius})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.RadiusMeters == nil || *seen.RadiusMeters != 2500 {
		t.Errorf("expected radius 2500m, got %v", seen.RadiusMeters)
	}
}

func TestOfferService_FindNearby_ZeroRadiusAllowed(t *testing.T) {
	var seen repository.NearbyFilter
	repo := &mockOfferRepo{
		findNearbyFn: func(ctx context.Context, filter repository.NearbyFilter) ([]domain.Offer, error) {
			seen = filter
			return []domain.Offer{}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	radius := 0.0
	origin, _ := domain.NewGeoPoint(0, 0)
	if _, err := svc.FindNearby(context.Background(), service.NearbyQuery{Origin: origin, RadiusKM: &radius}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.RadiusMeters == nil || *seen.RadiusMeters != 0 {
		t.Errorf("expected explicit 0m radius, got %v", seen.RadiusMeters)
	}
}

func TestOfferService_FindNearby_NegativeRadiusRejected(t *testing.T) {
	svc := service.NewOfferService(&mockOfferRepo{}, &mockMediaRepo{})

	radius := -1.0
	origin, _ := domain.NewGeoPoint(0, 0)
	_, err := svc.FindNearby(context.Background(), service.NearbyQuery{Origin: origin, RadiusKM: &radius})
	if status := statusOf(t, err); status != 400 {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestOfferService_FindNearby_EmptyResultIsNotAnError(t *testing.T) {
	repo := &mockOfferRepo{
		findNearbyFn: func(ctx context.Context, filter repository.NearbyFilter) ([]domain.Offer, error) {
			return []domain.Offer{}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	origin, _ := domain.NewGeoPoint(0, 0)
	offers, err := svc.FindNearby(context.Background(), service.NearbyQuery{Origin: origin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offers == nil || len(offers) != 0 {
		t.Errorf("expected empty slice, got %v", offers)
	}
}

// --- Update ---

func TestOfferService_Update_NonOwnerSurfacesNotFound(t *testing.T) {
	repo := &mockOfferRepo{
		updateFn: func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
			return nil, repository.ErrNotFoundOrNotOwner
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	title := "new title"
	_, err := svc.Update(context.Background(), 1, 99, service.OfferUpdateInput{Title: &title})
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.HTTPStatus != 404 {
		t.Errorf("expected 404, got %d", de.HTTPStatus)
	}
	if de.Message != "offer not found or unauthorized" {
		t.Errorf("ownership mismatch must not leak existence, got %q", de.Message)
	}
}

func TestOfferService_Update_HalfCoordinatePairIgnored(t *testing.T) {
	var seen repository.OfferPatch
	repo := &mockOfferRepo{
		updateFn: func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
			seen = patch
			return &domain.Offer{ID: id}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	lon := -2.935
	_, err := svc.Update(context.Background(), 1, 1, service.OfferUpdateInput{Longitude: &lon})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Location != nil {
		t.Errorf("half pair must leave location unchanged, got %+v", seen.Location)
	}
}

func TestOfferService_Update_FullCoordinatePairApplied(t *testing.T) {
	var seen repository.OfferPatch
	repo := &mockOfferRepo{
		updateFn: func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
			seen = patch
			return &domain.Offer{ID: id}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	lon, lat := -2.935, 43.263
	_, err := svc.Update(context.Background(), 1, 1, service.OfferUpdateInput{Longitude: &lon, Latitude: &lat})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Location == nil || seen.Location.Longitude != lon || seen.Location.Latitude != lat {
		t.Errorf("expected location patch, got %+v", seen.Location)
	}
}

func TestOfferService_Update_EndDateBehindStoredStartIsValidationError(t *testing.T) {
	repo := &mockOfferRepo{
		updateFn: func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
			return nil, repository.ErrInvalidDateWindow
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	endDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), 1, 1, service.OfferUpdateInput{EndDate: &endDate})
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.HTTPStatus != 400 {
		t.Errorf("an end date behind the stored start date must be a 400, got %d", de.HTTPStatus)
	}
	if de.Code != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %s", de.Code)
	}
}

func TestOfferService_Update_OmittedFieldsStayNil(t *testing.T) {
	var seen repository.OfferPatch
	repo := &mockOfferRepo{
		updateFn: func(ctx context.Context, id, sellerID int64, patch repository.OfferPatch) (*domain.Offer, error) {
			seen = patch
			return &domain.Offer{ID: id}, nil
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	endDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), 1, 1, service.OfferUpdateInput{EndDate: &endDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.EndDate == nil || !seen.EndDate.Equal(endDate) {
		t.Errorf("end date not carried: %v", seen.EndDate)
	}
	if seen.Title != nil || seen.Price != nil || seen.StartDate != nil || seen.Category != nil {
		t.Errorf("omitted fields must stay nil: %+v", seen)
	}
}

// --- Delete ---

func TestOfferService_Delete_NonOwnerSurfacesNotFound(t *testing.T) {
	repo := &mockOfferRepo{
		deleteFn: func(ctx context.Context, id, sellerID int64) (bool, error) {
			return false, repository.ErrNotFoundOrNotOwner
		},
	}
	svc := service.NewOfferService(repo, &mockMediaRepo{})

	err := svc.Delete(context.Background(), 1, 99)
	if status := statusOf(t, err); status != 404 {
		t.Errorf("expected 404, got %d", status)
	}
}

// --- GetDetail ---

func TestOfferService_GetDetail_MissingOfferIs404(t *testing.T) {
	svc := service.NewOfferService(&mockOfferRepo{}, &mockMediaRepo{})

	_, err := svc.GetDetail(context.Background(), 12345)
	if status := statusOf(t, err); status != 404 {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestOfferService_GetDetail_EnrichesMedia(t *testing.T) {
	repo := &mockOfferRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Offer, error) {
			return &domain.Offer{ID: id, Title: "deal"}, nil
		},
	}
	media := &mockMediaRepo{
		images:   []domain.OfferImage{{ID: 1, OfferID: 5, URL: "http://img/1"}},
		feedback: []domain.OfferFeedback{{ID: 2, OfferID: 5, BuyerName: "Ana", Rating: 4}},
	}
	svc := service.NewOfferService(repo, media)

	detail, err := svc.GetDetail(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Images) != 1 || len(detail.Feedback) != 1 {
		t.Errorf("expected 1 image and 1 feedback, got %d/%d", len(detail.Images), len(detail.Feedback))
	}
}

func mustErr[T any](_ T, err error) error { return err }
