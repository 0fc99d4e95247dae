package employee

import (
	"context"
	"fmt"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns ErrNotFound when no employee has id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return FromDataModel(row), nil
}
