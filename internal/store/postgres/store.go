package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/pkg/database"
)

const uniqueViolation = "23505"

const userColumns = `id, username, password, player, height, matches, goals, min_played,
	position, preferred_foot, profile_pic_url, status, role`

// Store implements contracts.Store over PostgreSQL
type Store struct {
	db *database.DB
}

var _ contracts.Store = (*Store)(nil)

// New wraps an open database. The schema must already exist (see database.DB.Migrate).
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func scanUser(row pgx.Row) (*contracts.User, error) {
	var u contracts.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Player, &u.Height,
		&u.Matches, &u.Goals, &u.MinPlayed,
		&u.Position, &u.PreferredFoot, &u.ProfilePicURL, &u.Status, &u.Role,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user ordered by id
func (s *Store) ListUsers(ctx context.Context) ([]contracts.User, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]contracts.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*contracts.User, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUser returns the user with id
func (s *Store) GetUser(ctx context.Context, id int) (*contracts.User, error) {
	return s.getUserWhere(ctx, "id = $1", id)
}

// GetUserByUsername returns the user with the exact username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*contracts.User, error) {
	return s.getUserWhere(ctx, "username = $1", username)
}

// CreateUser inserts the user and returns it with the assigned id
func (s *Store) CreateUser(ctx context.Context, user contracts.User) (contracts.User, error) {
	query := `
		INSERT INTO users (username, password, player, height, matches, goals, min_played,
			position, preferred_foot, profile_pic_url, status, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := s.db.Pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Player, user.Height,
		user.Matches, user.Goals, user.MinPlayed,
		user.Position, user.PreferredFoot, user.ProfilePicURL, user.Status, user.Role,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return contracts.User{}, contracts.ErrDuplicateUsername
	}
	if err != nil {
		return contracts.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// UpdateUser applies update inside a transaction holding a row lock
func (s *Store) UpdateUser(ctx context.Context, id int, update contracts.ProfileUpdate) (contracts.User, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return contracts.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.User{}, contracts.ErrNotFound
	}
	if err != nil {
		return contracts.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	update.Apply(u)

	_, err = tx.Exec(ctx, `
		UPDATE users SET password = $2, player = $3, height = $4, matches = $5, goals = $6,
			min_played = $7, position = $8, preferred_foot = $9, profile_pic_url = $10,
			status = $11, role = $12
		WHERE id = $1
	`, u.ID, u.PasswordHash, u.Player, u.Height, u.Matches, u.Goals, u.MinPlayed,
		u.Position, u.PreferredFoot, u.ProfilePicURL, u.Status, u.Role)
	if err != nil {
		return contracts.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return contracts.User{}, fmt.Errorf("failed to commit: %w", err)
	}
	return *u, nil
}

// DeleteUser removes the user; ratings go with it via ON DELETE CASCADE
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// ListRatings returns every rating ordered by id
func (s *Store) ListRatings(ctx context.Context) ([]contracts.Rating, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT id, rater_id, rated_player_id, score FROM ratings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]contracts.Rating, 0)
	for rows.Next() {
		var r contracts.Rating
		if err := rows.Scan(&r.ID, &r.RaterID, &r.RatedPlayerID, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

// UpsertRating inserts or overwrites the (rater, rated) score.
// xmax = 0 only for freshly inserted rows.
func (s *Store) UpsertRating(ctx context.Context, raterID, ratedID, score int) (contracts.Rating, bool, error) {
	query := `
		INSERT INTO ratings (rater_id, rated_player_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (rater_id, rated_player_id) DO UPDATE SET score = EXCLUDED.score
		RETURNING id, (xmax = 0) AS inserted
	`
	r := contracts.Rating{RaterID: raterID, RatedPlayerID: ratedID, Score: score}
	var inserted bool
	if err := s.db.Pool.QueryRow(ctx, query, raterID, ratedID, score).Scan(&r.ID, &inserted); err != nil {
		return contracts.Rating{}, false, fmt.Errorf("failed to upsert rating: %w", err)
	}
	return r, inserted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
