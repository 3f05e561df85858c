package resource

import (
	"context"
	"strings"

	"github.com/eventsfp/booking-backend/internal/pkg/timeutil"
)

type CreateRequest struct {
	Name        string
	Type        string
	Capacity    int
	CostPerHour float64
	OpenTime    string
	CloseTime   string
}

type UpdateRequest struct {
	Name        *string
	Type        *string
	Capacity    *int
	CostPerHour *float64
	OpenTime    *string
	CloseTime   *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validType(t string) bool {
	for _, v := range ValidTypes {
		if Type(t) == v {
			return true
		}
	}
	return false
}

func validHours(open, close string) bool {
	if _, _, _, err := timeutil.ParseClock(open); err != nil {
		return false
	}
	if _, _, _, err := timeutil.ParseClock(close); err != nil {
		return false
	}
	return true
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !validType(req.Type) {
		return nil, ErrInvalidType
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	open := req.OpenTime
	close := req.CloseTime
	if open == "" {
		open = "09:00:00"
	}
	if close == "" {
		close = "18:00:00"
	}
	if !validHours(open, close) {
		return nil, ErrInvalidHours
	}

	res := &Resource{
		Name:        req.Name,
		Type:        Type(req.Type),
		Capacity:    req.Capacity,
		CostPerHour: req.CostPerHour,
		OpenTime:    open,
		CloseTime:   close,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIDs(ctx context.Context, ids []string) ([]*Resource, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = *req.Name
	}
	if req.Type != nil {
		if !validType(*req.Type) {
			return nil, ErrInvalidType
		}
		res.Type = Type(*req.Type)
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		res.Capacity = *req.Capacity
	}
	if req.CostPerHour != nil {
		res.CostPerHour = *req.CostPerHour
	}
	if req.OpenTime != nil {
		res.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		res.CloseTime = *req.CloseTime
	}
	if !validHours(res.OpenTime, res.CloseTime) {
		return nil, ErrInvalidHours
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
