package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localmarket/offers-service/internal/domain"
)

// ErrDuplicateEmail is returned when an insert loses the unique-email race;
// the pre-insert lookup in the service cannot catch a concurrent signup.
var ErrDuplicateEmail = errors.New("email already registered")

// ProfilePatch holds partial profile-update fields. Nil fields keep their
// stored value; location follows the same whole-pair rule as offers.
type ProfilePatch struct {
	Name     *string
	Phone    *string
	Location *domain.GeoPoint
}

// UserRepository defines persistence access for marketplace users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// GetByID and GetByEmail return (nil, nil) when no user matches.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, phone, location)
        VALUES ($1, $2, $3, $4, $5,
                CASE WHEN $6::float8 IS NOT NULL AND $7::float8 IS NOT NULL
                     THEN ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography
                END)
        RETURNING user_id, created_at, updated_at`

	var lon, lat *float64
	if user.Location != nil {
		lon = &user.Location.Longitude
		lat = &user.Location.Latitude
	}

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		lon,
		lat,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if violatesConstraint(err, pgUniqueViolation, "") {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT user_id, name, email, password_hash, role, phone,
               ST_X(location::geometry), ST_Y(location::geometry),
               created_at, updated_at
        FROM users WHERE user_id = $1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT user_id, name, email, password_hash, role, phone,
               ST_X(location::geometry), ST_Y(location::geometry),
               created_at, updated_at
        FROM users WHERE email = $1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var lon, lat *float64
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&lon,
		&lat,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lon != nil && lat != nil {
		user.Location = &domain.GeoPoint{Longitude: *lon, Latitude: *lat}
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*domain.User, error) {
	const query = `
        UPDATE users
        SET name = COALESCE($1, name),
            phone = COALESCE($2, phone),
            location = CASE
                WHEN $3::float8 IS NOT NULL AND $4::float8 IS NOT NULL
                THEN ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography
                ELSE location
            END,
            updated_at = NOW()
        WHERE user_id = $5
        RETURNING user_id, name, email, password_hash, role, phone,
                  ST_X(location::geometry), ST_Y(location::geometry),
                  created_at, updated_at`

	var lon, lat *float64
	if patch.Location != nil {
		lon = &patch.Location.Longitude
		lat = &patch.Location.Latitude
	}

	var user domain.User
	var outLon, outLat *float64
	err := r.pool.QueryRow(ctx, query,
		patch.Name,
		patch.Phone,
		lon,
		lat,
		id,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&outLon,
		&outLat,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if outLon != nil && outLat != nil {
		user.Location = &domain.GeoPoint{Longitude: *outLon, Latitude: *outLat}
	}
	return &user, nil
}
