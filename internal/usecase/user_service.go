package usecase

import (
	"context"
	"errors"
	"strings"

	"example.com/userdir/internal/domain"
	"example.com/userdir/internal/repository"
)

var ErrNameRequired = errors.New("name is required")

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, name string) (domain.User, error) {
	trimmed, err := normalizeName(name)
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.Create(ctx, trimmed)
}

// Update validates the name before looking the record up, so an empty name
// is rejected even for unknown ids. It returns the previous name as well.
func (s *UserService) Update(ctx context.Context, id int64, name string) (domain.User, string, error) {
	trimmed, err := normalizeName(name)
	if err != nil {
		return domain.User{}, "", err
	}
	before, after, err := s.repo.Update(ctx, id, trimmed)
	if err != nil {
		return domain.User{}, "", err
	}
	return after, before.Name, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.Delete(ctx, id)
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrNameRequired
	}
	return trimmed, nil
}
