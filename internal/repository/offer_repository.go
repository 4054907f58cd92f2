package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localmarket/offers-service/internal/domain"
)

// ErrNotFoundOrNotOwner is returned by ownership-scoped mutations when the
// conditional write matched no row. The offer may be absent or owned by
// another seller; the two cases are indistinguishable on purpose.
var ErrNotFoundOrNotOwner = errors.New("offer not found or not owned by seller")

// ErrInvalidDateWindow is returned when a write would leave end_date at or
// before start_date. A patch can touch only one side of the window, so the
// stored row is the only place the combined constraint can be checked.
var ErrInvalidDateWindow = errors.New("offer end date must be after start date")

// NearbyFilter captures a proximity discovery request. Origin is mandatory;
// radius and category are optional and compose conjunctively.
type NearbyFilter struct {
	Origin       domain.GeoPoint
	RadiusMeters *float64
	Category     *string
}

// OfferPatch holds partial-update fields. Nil fields keep their stored value.
// Location updates only as a whole validated point, never half a pair.
type OfferPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Discount    *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *domain.GeoPoint
	Category    *string
}

// OfferRepository encapsulates offer persistence.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	// GetByID returns (nil, nil) when the offer does not exist; absence is
	// not an error at this layer.
	GetByID(ctx context.Context, id int64) (*domain.Offer, error)
	FindNearby(ctx context.Context, filter NearbyFilter) ([]domain.Offer, error)
	Update(ctx context.Context, id, sellerID int64, patch OfferPatch) (*domain.Offer, error)
	Delete(ctx context.Context, id, sellerID int64) (bool, error)
}

type offerRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository returns a Postgres-backed implementation.
func NewOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &offerRepository{pool: pool}
}

func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	const query = `
        INSERT INTO offers (seller_id, title, description, price, discount, start_date, end_date, location, category)
        VALUES ($1, $2, $3, $4, $5, $6, $7, ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography, $10)
        RETURNING offer_id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		offer.SellerID,
		offer.Title,
		offer.Description,
		offer.Price,
		offer.Discount,
		offer.StartDate,
		offer.EndDate,
		offer.Location.Longitude,
		offer.Location.Latitude,
		offer.Category,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
}

func (r *offerRepository) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	const query = `
        SELECT o.offer_id, o.seller_id, u.name, o.title, o.description, o.price, o.discount,
               o.start_date, o.end_date,
               ST_X(o.location::geometry), ST_Y(o.location::geometry),
               o.category, o.created_at, o.updated_at
        FROM offers o
        JOIN users u ON o.seller_id = u.user_id
        WHERE o.offer_id = $1`

	var offer domain.Offer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&offer.ID,
		&offer.SellerID,
		&offer.SellerName,
		&offer.Title,
		&offer.Description,
		&offer.Price,
		&offer.Discount,
		&offer.StartDate,
		&offer.EndDate,
		&offer.Location.Longitude,
		&offer.Location.Latitude,
		&offer.Category,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// nearbyQuery composes the proximity query from independent predicate
// clauses joined with AND. The base predicate restricts results to active
// offers; radius and category clauses attach only when supplied. Ordering is
// distance ascending with offer id as a stable tie-break.
func nearbyQuery(filter NearbyFilter) (string, []any) {
	const base = `
        SELECT o.offer_id, o.seller_id, u.name, o.title, o.description, o.price, o.discount,
               o.start_date, o.end_date,
               ST_X(o.location::geometry), ST_Y(o.location::geometry),
               o.category, o.created_at, o.updated_at,
               ST_Distance(o.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
        FROM offers o
        JOIN users u ON o.seller_id = u.user_id`

	args := []any{filter.Origin.Longitude, filter.Origin.Latitude}
	clauses := []string{"o.end_date > NOW()"}

	if filter.RadiusMeters != nil {
		args = append(args, *filter.RadiusMeters)
		clauses = append(clauses, fmt.Sprintf(
			"ST_DWithin(o.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $%d)", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("o.category = $%d", len(args)))
	}

	query := base + "\n        WHERE " + strings.Join(clauses, " AND ") +
		"\n        ORDER BY distance ASC, o.offer_id ASC"
	return query, args
}

func (r *offerRepository) FindNearby(ctx context.Context, filter NearbyFilter) ([]domain.Offer, error) {
	query, args := nearbyQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		var offer domain.Offer
		var distance float64
		if err := rows.Scan(
			&offer.ID,
			&offer.SellerID,
			&offer.SellerName,
			&offer.Title,
			&offer.Description,
			&offer.Price,
			&offer.Discount,
			&offer.StartDate,
			&offer.EndDate,
			&offer.Location.Longitude,
			&offer.Location.Latitude,
			&offer.Category,
			&offer.CreatedAt,
			&offer.UpdatedAt,
			&distance,
		); err != nil {
			return nil, err
		}
		offer.DistanceMeters = &distance
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func (r *offerRepository) Update(ctx context.Context, id, sellerID int64, patch OfferPatch) (*domain.Offer, error) {
	// Ownership check and mutation are one conditional statement so a
	// concurrent delete cannot race the write.
	const query = `
        UPDATE offers
        SET title = COALESCE($1, title),
            description = COALESCE($2, description),
            price = COALESCE($3, price),
            discount = COALESCE($4, discount),
            start_date = COALESCE($5, start_date),
            end_date = COALESCE($6, end_date),
            location = CASE
                WHEN $7::float8 IS NOT NULL AND $8::float8 IS NOT NULL
                THEN ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography
                ELSE location
            END,
            category = COALESCE($9, category),
            updated_at = NOW()
        WHERE offer_id = $10 AND seller_id = $11
        RETURNING offer_id, seller_id, title, description, price, discount,
                  start_date, end_date,
                  ST_X(location::geometry), ST_Y(location::geometry),
                  category, created_at, updated_at`

	var lon, lat *float64
	if patch.Location != nil {
		lon = &patch.Location.Longitude
		lat = &patch.Location.Latitude
	}

	var offer domain.Offer
	err := r.pool.QueryRow(ctx, query,
		patch.Title,
		patch.Description,
		patch.Price,
		patch.Discount,
		patch.StartDate,
		patch.EndDate,
		lon,
		lat,
		patch.Category,
		id,
		sellerID,
	).Scan(
		&offer.ID,
		&offer.SellerID,
		&offer.Title,
		&offer.Description,
		&offer.Price,
		&offer.Discount,
		&offer.StartDate,
		&offer.EndDate,
		&offer.Location.Longitude,
		&offer.Location.Latitude,
		&offer.Category,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFoundOrNotOwner
	}
	if violatesConstraint(err, pgCheckViolation, "offers_valid_window") {
		return nil, ErrInvalidDateWindow
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) Delete(ctx context.Context, id, sellerID int64) (bool, error) {
	const query = `DELETE FROM offers WHERE offer_id = $1 AND seller_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, sellerID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, ErrNotFoundOrNotOwner
	}
	return true, nil
}
