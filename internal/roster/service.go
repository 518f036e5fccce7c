// Package roster implements accounts, peer ratings and team generation on top of a store
package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/teamgen"
	"github.com/wonny/squadpick/pkg/logger"
	"github.com/wonny/squadpick/pkg/redis"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSelfRating is returned when a player rates themselves
	ErrSelfRating = errors.New("cannot rate yourself")
)

// Team generation outcomes recorded by Recorder
const (
	ResultOK           = "ok"
	ResultInvalid      = "invalid"
	ResultInsufficient = "insufficient"
	ResultError        = "error"
)

// Recorder receives team generation outcomes (implemented by internal/metrics)
type Recorder interface {
	TeamGeneration(strategy contracts.Strategy, result string)
}

type nopRecorder struct{}

func (nopRecorder) TeamGeneration(contracts.Strategy, string) {}

// Service is the roster use-case layer shared by the HTTP API and the CLI
// ⭐ SSOT: 계정/평점/팀 편성 비즈니스 규칙은 여기서만
type Service struct {
	store     contracts.Store
	hasher    *auth.Hasher
	tokens    *auth.TokenIssuer
	generator contracts.TeamGenerator
	cache     *redis.Cache
	metrics   Recorder
	log       *logger.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithGenerator replaces the default runtime-seeded team generator
func WithGenerator(g contracts.TeamGenerator) Option {
	return func(s *Service) { s.generator = g }
}

// WithCache serves the player list from redis
func WithCache(c *redis.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRecorder records team generation outcomes
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// New creates a roster service
func New(store contracts.Store, hasher *auth.Hasher, tokens *auth.TokenIssuer, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		generator: teamgen.New(nil),
		metrics:   nopRecorder{},
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and stores a new player account
func (s *Service) Register(ctx context.Context, in RegisterInput) (contracts.Player, error) {
	user, err := in.normalize()
	if err != nil {
		return contracts.Player{}, err
	}

	if _, err := s.store.GetUserByUsername(ctx, user.Username); err == nil {
		return contracts.Player{}, contracts.ErrDuplicateUsername
	} else if !errors.Is(err, contracts.ErrNotFound) {
		return contracts.Player{}, fmt.Errorf("lookup username: %w", err)
	}

	user.PasswordHash, err = s.hasher.Hash(in.Password)
	if err != nil {
		return contracts.Player{}, err
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return contracts.Player{}, fmt.Errorf("create user: %w", err)
	}
	s.invalidate(ctx)

	s.log.WithFields(map[string]interface{}{
		"user_id":  created.ID,
		"username": created.Username,
	}).Info("Player registered")

	return contracts.PlayerOf(created, 0), nil
}

// Login checks the password and issues a bearer token
func (s *Service) Login(ctx context.Context, in LoginInput) (string, contracts.Player, error) {
	in, err := in.normalize()
	if err != nil {
		return "", contracts.Player{}, err
	}

	user, err := s.store.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, contracts.ErrNotFound) {
		return "", contracts.Player{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", contracts.Player{}, fmt.Errorf("lookup username: %w", err)
	}

	if err := s.hasher.Check(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", contracts.Player{}, ErrInvalidCredentials
		}
		return "", contracts.Player{}, err
	}

	token, err := s.tokens.Issue(*user)
	if err != nil {
		return "", contracts.Player{}, err
	}

	player, err := s.withAverage(ctx, *user)
	if err != nil {
		return "", contracts.Player{}, err
	}
	return token, player, nil
}

// Players returns every user with their average rating
func (s *Service) Players(ctx context.Context) ([]contracts.Player, error) {
	if s.cache != nil {
		var cached []contracts.Player
		found, err := s.cache.Get(ctx, redis.PlayersKey, &cached)
		if err != nil {
			s.log.WithError(err).Warn("Player cache read failed")
		} else if found {
			return cached, nil
		}
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	ratings, err := s.store.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	players := make([]contracts.Player, 0, len(users))
	for _, u := range users {
		players = append(players, contracts.PlayerOf(u, contracts.AverageRating(u.ID, ratings)))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.PlayersKey, players, redis.TTLShort); err != nil {
			s.log.WithError(err).Warn("Player cache write failed")
		}
	}
	return players, nil
}

// Profile returns one player
func (s *Service) Profile(ctx context.Context, id int) (contracts.Player, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return contracts.Player{}, err
	}
	return s.withAverage(ctx, *user)
}

// UpdateProfile applies a player's own changes. Roles cannot be changed this way.
func (s *Service) UpdateProfile(ctx context.Context, id int, in UpdateInput) (contracts.Player, error) {
	return s.update(ctx, id, in, false)
}

// AdminUpdate applies changes to any account, including its role
func (s *Service) AdminUpdate(ctx context.Context, id int, in UpdateInput) (contracts.Player, error) {
	return s.update(ctx, id, in, true)
}

func (s *Service) update(ctx context.Context, id int, in UpdateInput, allowRole bool) (contracts.Player, error) {
	up, password, err := in.toUpdate(allowRole)
	if err != nil {
		return contracts.Player{}, err
	}
	if password != nil {
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return contracts.Player{}, err
		}
		up.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(ctx, id, up)
	if err != nil {
		return contracts.Player{}, err
	}
	s.invalidate(ctx)

	return s.withAverage(ctx, user)
}

// SetRole changes the role of the named user
func (s *Service) SetRole(ctx context.Context, username string, role contracts.Role) (contracts.Player, error) {
	if !role.Valid() {
		return contracts.Player{}, ValidationErrors{{Field: "role", Message: "Invalid role"}}
	}
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return contracts.Player{}, err
	}
	r := string(role)
	return s.AdminUpdate(ctx, user.ID, UpdateInput{Role: &r})
}

// DeleteUser removes the account and every rating it gave or received
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.WithField("user_id", id).Info("Player deleted")
	return nil
}

// Rate stores raterID's score for ratedID, overwriting an earlier one.
// The bool reports whether a new rating was created.
func (s *Service) Rate(ctx context.Context, raterID, ratedID int, score *int) (contracts.Rating, bool, error) {
	if err := validateScore(score); err != nil {
		return contracts.Rating{}, false, err
	}
	if raterID == ratedID {
		return contracts.Rating{}, false, ErrSelfRating
	}
	if _, err := s.store.GetUser(ctx, ratedID); err != nil {
		return contracts.Rating{}, false, err
	}

	rating, created, err := s.store.UpsertRating(ctx, raterID, ratedID, *score)
	if err != nil {
		return contracts.Rating{}, false, fmt.Errorf("save rating: %w", err)
	}
	s.invalidate(ctx)
	return rating, created, nil
}

// ReadyPool keeps the players whose status is Ready, in order
func ReadyPool(players []contracts.Player) []contracts.Player {
	pool := make([]contracts.Player, 0, len(players))
	for i := range players {
		if players[i].IsReady() {
			pool = append(pool, players[i])
		}
	}
	return pool
}

// GenerateTeams splits the ready players into teams
func (s *Service) GenerateTeams(ctx context.Context, req contracts.TeamRequest) (contracts.TeamSet, error) {
	players, err := s.Players(ctx)
	if err != nil {
		s.metrics.TeamGeneration(req.Strategy, ResultError)
		return nil, err
	}
	pool := ReadyPool(players)

	log := s.log.WithFields(map[string]interface{}{
		"strategy":         string(req.Strategy),
		"num_teams":        req.NumTeams,
		"players_per_team": req.PlayersPerTeam,
		"ready":            len(pool),
	})

	teams, err := s.generator.Generate(pool, req)
	if err != nil {
		s.metrics.TeamGeneration(req.Strategy, classify(err))
		log.WithError(err).Warn("Team generation rejected")
		return nil, err
	}

	s.metrics.TeamGeneration(req.Strategy, ResultOK)
	log.Info("Teams generated")
	return teams, nil
}

func classify(err error) string {
	var invalid *teamgen.InvalidRequestError
	var insufficient *teamgen.InsufficientPlayersError
	switch {
	case errors.As(err, &invalid):
		return ResultInvalid
	case errors.As(err, &insufficient):
		return ResultInsufficient
	default:
		return ResultError
	}
}

func (s *Service) withAverage(ctx context.Context, user contracts.User) (contracts.Player, error) {
	ratings, err := s.store.ListRatings(ctx)
	if err != nil {
		return contracts.Player{}, fmt.Errorf("list ratings: %w", err)
	}
	return contracts.PlayerOf(user, contracts.AverageRating(user.ID, ratings)), nil
}

// invalidate drops the cached player list after a write
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redis.PlayersKey); err != nil {
		s.log.WithError(err).Warn("Player cache invalidation failed")
	}
}
