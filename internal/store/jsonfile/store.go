package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wonny/squadpick/internal/contracts"
)

// document is the on-disk layout of the database file
type document struct {
	Users   []contracts.User   `json:"users"`
	Ratings []contracts.Rating `json:"ratings"`
}

// Store keeps users and ratings in a single JSON document.
// Every operation re-reads the file, so edits made by hand are picked up.
// ⭐ SSOT: JSON 파일 접근은 여기서만
type Store struct {
	path string
	mu   sync.Mutex
}

var _ contracts.Store = (*Store)(nil)

// New opens the document at path, creating an empty one when missing
func New(path string) (*Store, error) {
	s := &Store{path: path}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document location
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; the file is not held open between operations
func (s *Store) Close() error {
	return nil
}

// read loads the document. Callers must hold mu.
func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := &document{Users: []contracts.User{}, Ratings: []contracts.Rating{}}
		if err := s.write(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read database: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse database %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = []contracts.User{}
	}
	if doc.Ratings == nil {
		doc.Ratings = []contracts.Rating{}
	}
	return &doc, nil
}

// write replaces the document atomically via a temp file. Callers must hold mu.
func (s *Store) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode database: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not write database: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write database: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not write database: %w", err)
	}
	return nil
}

// update runs fn on the loaded document and persists it when fn succeeds
func (s *Store) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) snapshot() (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// ListUsers returns every user in insertion order
func (s *Store) ListUsers(ctx context.Context) ([]contracts.User, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// GetUser returns the user with id
func (s *Store) GetUser(ctx context.Context, id int) (*contracts.User, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i], nil
		}
	}
	return nil, contracts.ErrNotFound
}

// GetUserByUsername returns the user with the exact username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*contracts.User, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			return &doc.Users[i], nil
		}
	}
	return nil, contracts.ErrNotFound
}

// CreateUser assigns the next id (max+1) and appends the user
func (s *Store) CreateUser(ctx context.Context, user contracts.User) (contracts.User, error) {
	err := s.update(func(doc *document) error {
		next := 1
		for _, u := range doc.Users {
			if u.Username == user.Username {
				return contracts.ErrDuplicateUsername
			}
			if u.ID >= next {
				next = u.ID + 1
			}
		}
		user.ID = next
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return contracts.User{}, err
	}
	return user, nil
}

// UpdateUser applies update to the user with id
func (s *Store) UpdateUser(ctx context.Context, id int, update contracts.ProfileUpdate) (contracts.User, error) {
	var updated contracts.User
	err := s.update(func(doc *document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				update.Apply(&doc.Users[i])
				updated = doc.Users[i]
				return nil
			}
		}
		return contracts.ErrNotFound
	})
	if err != nil {
		return contracts.User{}, err
	}
	return updated, nil
}

// DeleteUser removes the user and every rating they gave or received
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	return s.update(func(doc *document) error {
		idx := -1
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return contracts.ErrNotFound
		}
		doc.Users = append(doc.Users[:idx], doc.Users[idx+1:]...)

		kept := doc.Ratings[:0]
		for _, r := range doc.Ratings {
			if r.RaterID != id && r.RatedPlayerID != id {
				kept = append(kept, r)
			}
		}
		doc.Ratings = kept
		return nil
	})
}

// ListRatings returns every rating
func (s *Store) ListRatings(ctx context.Context) ([]contracts.Rating, error) {
	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Ratings, nil
}

// UpsertRating overwrites the score of an existing (rater, rated) pair or appends a new rating
func (s *Store) UpsertRating(ctx context.Context, raterID, ratedID, score int) (contracts.Rating, bool, error) {
	var (
		saved   contracts.Rating
		created bool
	)
	err := s.update(func(doc *document) error {
		next := 1
		for i := range doc.Ratings {
			r := &doc.Ratings[i]
			if r.RaterID == raterID && r.RatedPlayerID == ratedID {
				r.Score = score
				saved = *r
				return nil
			}
			if r.ID >= next {
				next = r.ID + 1
			}
		}
		saved = contracts.Rating{ID: next, RaterID: raterID, RatedPlayerID: ratedID, Score: score}
		doc.Ratings = append(doc.Ratings, saved)
		created = true
		return nil
	})
	if err != nil {
		return contracts.Rating{}, false, err
	}
	return saved, created, nil
}
