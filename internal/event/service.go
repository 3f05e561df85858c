package event

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

type CreateRequest struct {
	Name            string
	Description     string
	Location        string
	Timezone        string
	DurationMinutes int
	BasePrice       float64
	MinPrice        *float64
	MaxPrice        *float64
	MaxCapacity     int
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	Location        *string
	Timezone        *string
	DurationMinutes *int
	BasePrice       *float64
	MinPrice        *float64
	MaxPrice        *float64
	MaxCapacity     *int
	ImageID         *string
	IsActive        *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	// View is GetByID plus a view-counter increment; used by the public catalog.
	View(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Event, error)
	Deactivate(ctx context.Context, id string) error

	RequiredResourceIDs(ctx context.Context, eventID string) ([]string, error)
	SetRequiredResources(ctx context.Context, eventID string, resourceIDs []string) error
}

type service struct {
	repo   Repository
	views  *ViewCounter
	logger *zap.Logger
}

func NewService(repo Repository, views *ViewCounter, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		views:  views,
		logger: logger,
	}
}

func validateTimezone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Event, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.BasePrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.MaxCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if req.DurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, ErrInvalidBounds
	}
	if err := validateTimezone(req.Timezone); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}

	e := &Event{
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		Timezone:        req.Timezone,
		DurationMinutes: duration,
		BasePrice:       req.BasePrice,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		MaxCapacity:     req.MaxCapacity,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) View(ctx context.Context, id string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A failed counter update must not break the catalog page.
	if err := s.views.Record(ctx, id); err != nil {
		s.logger.Warn("failed to record event view", zap.String("event_id", id), zap.Error(err))
	}
	return e, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Event, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Timezone != nil {
		if err := validateTimezone(*req.Timezone); err != nil {
			return nil, err
		}
		e.Timezone = *req.Timezone
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		e.DurationMinutes = *req.DurationMinutes
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return nil, ErrInvalidPrice
		}
		e.BasePrice = *req.BasePrice
	}
	if req.MinPrice != nil {
		e.MinPrice = req.MinPrice
	}
	if req.MaxPrice != nil {
		e.MaxPrice = req.MaxPrice
	}
	if e.MinPrice != nil && e.MaxPrice != nil && *e.MinPrice > *e.MaxPrice {
		return nil, ErrInvalidBounds
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		e.MaxCapacity = *req.MaxCapacity
	}
	if req.ImageID != nil {
		e.ImageID = req.ImageID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) RequiredResourceIDs(ctx context.Context, eventID string) ([]string, error) {
	return s.repo.RequiredResourceIDs(ctx, eventID)
}

func (s *service) SetRequiredResources(ctx context.Context, eventID string, resourceIDs []string) error {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.SetRequiredResources(ctx, eventID, resourceIDs)
}
