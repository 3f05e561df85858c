package http

import (
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/request"
	"github.com/eventsfp/booking-backend/internal/resource"
)

// ResourceTag is the minimal resource representation embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListRequest struct {
	request.ListParams
	Type string `form:"type" binding:"omitempty,oneof=guide vehicle equipment room"`
}

type CreateBody struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=guide vehicle equipment room"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
	CostPerHour float64 `json:"cost_per_hour" binding:"omitempty,gte=0"`
	OpenTime    string  `json:"open_time"`
	CloseTime   string  `json:"close_time"`
}

type UpdateBody struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type" binding:"omitempty,oneof=guide vehicle equipment room"`
	Capacity    *int     `json:"capacity" binding:"omitempty,min=1"`
	CostPerHour *float64 `json:"cost_per_hour" binding:"omitempty,gte=0"`
	OpenTime    *string  `json:"open_time"`
	CloseTime   *string  `json:"close_time"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	CostPerHour float64   `json:"cost_per_hour"`
	OpenTime    string    `json:"open_time"`
	CloseTime   string    `json:"close_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewResponse(res *resource.Resource) Response {
	return Response{
		ID:          res.ID,
		Name:        res.Name,
		Type:        string(res.Type),
		Capacity:    res.Capacity,
		CostPerHour: res.CostPerHour,
		OpenTime:    res.OpenTime,
		CloseTime:   res.CloseTime,
		CreatedAt:   res.CreatedAt,
	}
}
