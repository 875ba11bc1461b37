package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/storage"
)

var (
	ErrEmailExists     = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService manages local fallback accounts for deployments without
// Firebase. Passwords are stored bcrypt-hashed.
type UserService struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	users map[string]*models.User // id -> user
}

func NewUserService(dataDir string) (*UserService, error) {
	store, err := storage.NewJSONStore(dataDir, "users.json")
	if err != nil {
		return nil, err
	}

	s := &UserService{
		store: store,
		users: make(map[string]*models.User),
	}

	var saved []*models.User
	if err := store.Load(&saved); err != nil {
		return nil, err
	}
	for _, u := range saved {
		s.users[u.ID] = u
	}

	return s, nil
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.persistLocked()

	copy := *user
	return &copy, nil
}

func (s *UserService) Login(req *models.LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
				return nil, ErrInvalidPassword
			}
			copy := *u
			return &copy, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func (s *UserService) persistLocked() {
	saved := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		saved = append(saved, u)
	}
	_ = s.store.Save(saved)
}
