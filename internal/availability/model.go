package availability

import (
	"time"
)

// Conflict describes an existing reservation blocking the requested window.
type Conflict struct {
	ResourceID   string    `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

// ResourceStatus is the per-resource verdict for the requested window.
type ResourceStatus struct {
	ResourceID string `json:"resource_id"`
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Conflicts  int    `json:"conflicts"`
	Reason     string `json:"reason,omitempty"`
}

// Recommendation is an alternative slot ranked by its score. Higher is
// better; ties keep scan order.
type Recommendation struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Score     float64   `json:"score"`
}

// Result is the full availability verdict for an event slot.
type Result struct {
	EventID         string           `json:"event_id"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	Available       bool             `json:"available"`
	CapacityOK      bool             `json:"capacity_ok"`
	UtilizationPct  float64          `json:"utilization_pct"`
	Conflicts       []Conflict       `json:"conflicts"`
	ResourceStatus  []ResourceStatus `json:"resource_status"`
	Recommendations []Recommendation `json:"recommendations"`
}
