package service

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
)

const dateLayout = "2006-01-02"

// ShipmentView is what the public lookup returns. It carries no internal ids.
type ShipmentView struct {
	TrackingNumber    string          `json:"tracking_number"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	CurrentStatus     status.Shipment `json:"current_status"`
	EstimatedDelivery *string         `json:"estimated_delivery"`
	StatusLogs        []StatusLogView `json:"shipment_status_logs"`
}

type StatusLogView struct {
	Status    status.Shipment `json:"status"`
	Location  string          `json:"location"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

// newShipmentView keeps the log order it is given, newest first.
func newShipmentView(s *storage.Shipment, log []storage.StatusLogEntry) *ShipmentView {
	v := &ShipmentView{
		TrackingNumber: s.TrackingNumber,
		Origin:         s.Origin,
		Destination:    s.Destination,
		CurrentStatus:  s.CurrentStatus,
		StatusLogs:     make([]StatusLogView, len(log)),
	}
	if s.EstimatedDelivery != nil {
		d := s.EstimatedDelivery.Format(dateLayout)
		v.EstimatedDelivery = &d
	}
	for i, e := range log {
		v.StatusLogs[i] = StatusLogView{
			Status:    e.Status,
			Location:  e.Location,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt,
		}
	}
	return v
}
