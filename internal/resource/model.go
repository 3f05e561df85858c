package resource

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidType     = apperror.New(http.StatusBadRequest, "invalid resource type")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "capacity must be positive")
	ErrInvalidHours    = apperror.New(http.StatusBadRequest, "invalid availability hours")
)

// Type categorizes a schedulable asset.
type Type string

const (
	TypeGuide     Type = "guide"
	TypeVehicle   Type = "vehicle"
	TypeEquipment Type = "equipment"
	TypeRoom      Type = "room"
)

var ValidTypes = []Type{TypeGuide, TypeVehicle, TypeEquipment, TypeRoom}

// Resource is a schedulable asset with finite capacity (guide, vehicle,
// equipment, room).
type Resource struct {
	ID          string
	Name        string
	Type        Type
	Capacity    int
	CostPerHour float64
	// OpenTime/CloseTime are wall-clock strings ("09:00:00") bounding the
	// daily window in which the resource may be reserved.
	OpenTime  string
	CloseTime string
	CreatedAt time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Type     string
	Page     int
	PageSize int
}
