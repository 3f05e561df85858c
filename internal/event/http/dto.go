package http

import (
	"time"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pkg/request"
)

// EventTag is the minimal event representation embedded in other responses.
type EventTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListEventsRequest struct {
	request.ListParams
	Search string `form:"search"`
}

type CreateBody struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Timezone        string   `json:"timezone"`
	DurationMinutes int      `json:"duration_minutes" binding:"omitempty,min=1"`
	BasePrice       float64  `json:"base_price" binding:"required,gt=0"`
	MinPrice        *float64 `json:"min_price" binding:"omitempty,gt=0"`
	MaxPrice        *float64 `json:"max_price" binding:"omitempty,gt=0"`
	MaxCapacity     int      `json:"max_capacity" binding:"required,min=1"`
}

type UpdateBody struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Location        *string  `json:"location"`
	Timezone        *string  `json:"timezone"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=1"`
	BasePrice       *float64 `json:"base_price" binding:"omitempty,gt=0"`
	MinPrice        *float64 `json:"min_price" binding:"omitempty,gt=0"`
	MaxPrice        *float64 `json:"max_price" binding:"omitempty,gt=0"`
	MaxCapacity     *int     `json:"max_capacity" binding:"omitempty,min=1"`
	ImageID         *string  `json:"image_id" binding:"omitempty,uuid"`
	IsActive        *bool    `json:"is_active"`
}

type SetResourcesBody struct {
	ResourceIDs []string `json:"resource_ids" binding:"required,dive,uuid"`
}

type Response struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Timezone        string    `json:"timezone"`
	DurationMinutes int       `json:"duration_minutes"`
	BasePrice       float64   `json:"base_price"`
	MinPrice        *float64  `json:"min_price,omitempty"`
	MaxPrice        *float64  `json:"max_price,omitempty"`
	MaxCapacity     int       `json:"max_capacity"`
	ImageID         *string   `json:"image_id,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewResponse(e *event.Event) Response {
	return Response{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		Location:        e.Location,
		Timezone:        e.Timezone,
		DurationMinutes: e.DurationMinutes,
		BasePrice:       e.BasePrice,
		MinPrice:        e.MinPrice,
		MaxPrice:        e.MaxPrice,
		MaxCapacity:     e.MaxCapacity,
		ImageID:         e.ImageID,
		IsActive:        e.IsActive,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
