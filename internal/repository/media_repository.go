package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localmarket/offers-service/internal/domain"
)

// MediaRepository reads image and feedback records attached to offers.
// Both are owned by external collaborators; this service only read-joins them
// into offer detail responses.
type MediaRepository interface {
	ListImages(ctx context.Context, offerID int64) ([]domain.OfferImage, error)
	ListFeedback(ctx context.Context, offerID int64) ([]domain.OfferFeedback, error)
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository returns a Postgres-backed implementation.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

func (r *mediaRepository) ListImages(ctx context.Context, offerID int64) ([]domain.OfferImage, error) {
	const query = `
        SELECT image_id, offer_id, url, created_at
        FROM images WHERE offer_id = $1
        ORDER BY image_id`

	rows, err := r.pool.Query(ctx, query, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]domain.OfferImage, 0)
	for rows.Next() {
		var img domain.OfferImage
		if err := rows.Scan(&img.ID, &img.OfferID, &img.URL, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *mediaRepository) ListFeedback(ctx context.Context, offerID int64) ([]domain.OfferFeedback, error) {
	const query = `
        SELECT f.feedback_id, f.offer_id, f.buyer_id, u.name, f.rating, f.comment, f.created_at
        FROM feedback f
        JOIN users u ON f.buyer_id = u.user_id
        WHERE f.offer_id = $1
        ORDER BY f.feedback_id`

	rows, err := r.pool.Query(ctx, query, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]domain.OfferFeedback, 0)
	for rows.Next() {
		var fb domain.OfferFeedback
		if err := rows.Scan(&fb.ID, &fb.OfferID, &fb.BuyerID, &fb.BuyerName, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}
