package storage

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
)

type Shipment struct {
	ID                string          `json:"id"`
	TrackingNumber    string          `json:"tracking_number"`
	SenderName        string          `json:"sender_name"`
	SenderPhone       string          `json:"sender_phone"`
	SenderAddress     string          `json:"sender_address"`
	ReceiverName      string          `json:"receiver_name"`
	ReceiverPhone     string          `json:"receiver_phone"`
	ReceiverAddress   string          `json:"receiver_address"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Weight            float64         `json:"weight"`
	Length            float64         `json:"length"`
	Width             float64         `json:"width"`
	Height            float64         `json:"height"`
	CurrentStatus     status.Shipment `json:"current_status"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewShipment carries the fields a privileged caller supplies on creation.
type NewShipment struct {
	TrackingNumber    string
	SenderName        string
	SenderPhone       string
	SenderAddress     string
	ReceiverName      string
	ReceiverPhone     string
	ReceiverAddress   string
	Origin            string
	Destination       string
	Weight            float64
	Length            float64
	Width             float64
	Height            float64
	EstimatedDelivery *time.Time
}

type StatusLogEntry struct {
	ID         string          `json:"id"`
	ShipmentID string          `json:"shipment_id"`
	Status     status.Shipment `json:"status"`
	Location   string          `json:"location"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Quote struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	ServiceType string       `json:"service_type"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Weight      float64      `json:"weight"`
	Message     string       `json:"message"`
	Status      status.Quote `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type NewQuote struct {
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Origin      string
	Destination string
	Weight      float64
	Message     string
}

func toShipment(r *repository.Shipment) *Shipment {
	return &Shipment{
		ID:                r.ID,
		TrackingNumber:    r.TrackingNumber,
		SenderName:        r.SenderName,
		SenderPhone:       r.SenderPhone,
		SenderAddress:     r.SenderAddress,
		ReceiverName:      r.ReceiverName,
		ReceiverPhone:     r.ReceiverPhone,
		ReceiverAddress:   r.ReceiverAddress,
		Origin:            r.Origin,
		Destination:       r.Destination,
		Weight:            r.Weight,
		Length:            r.Length,
		Width:             r.Width,
		Height:            r.Height,
		CurrentStatus:     status.Shipment(r.CurrentStatus),
		EstimatedDelivery: r.EstimatedDelivery,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toStatusLogEntry(r *repository.StatusLogEntry) StatusLogEntry {
	return StatusLogEntry{
		ID:         r.ID,
		ShipmentID: r.ShipmentID,
		Status:     status.Shipment(r.Status),
		Location:   r.Location,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
	}
}

func toQuote(r *repository.Quote) *Quote {
	return &Quote{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		ServiceType: r.ServiceType,
		Origin:      r.Origin,
		Destination: r.Destination,
		Weight:      r.Weight,
		Message:     r.Message,
		Status:      status.Quote(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
