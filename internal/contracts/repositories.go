package contracts

import "context"

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// UserRepository manages player accounts
type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, id int, update ProfileUpdate) (User, error)
	DeleteUser(ctx context.Context, id int) error
}

// RatingRepository manages peer ratings
type RatingRepository interface {
	ListRatings(ctx context.Context) ([]Rating, error)
	// UpsertRating stores the score for (raterID, ratedID), reporting whether a new record was created
	UpsertRating(ctx context.Context, raterID, ratedID, score int) (Rating, bool, error)
}

// Store is the full persistence surface the service depends on
type Store interface {
	UserRepository
	RatingRepository
	Close() error
}
