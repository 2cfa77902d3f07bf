package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound = errors.New("not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

type Shipment struct {
	ID                string     `db:"id"`
	TrackingNumber    string     `db:"tracking_number"`
	SenderName        string     `db:"sender_name"`
	SenderPhone       string     `db:"sender_phone"`
	SenderAddress     string     `db:"sender_address"`
	ReceiverName      string     `db:"receiver_name"`
	ReceiverPhone     string     `db:"receiver_phone"`
	ReceiverAddress   string     `db:"receiver_address"`
	Origin            string     `db:"origin"`
	Destination       string     `db:"destination"`
	Weight            float64    `db:"weight"`
	Length            float64    `db:"length"`
	Width             float64    `db:"width"`
	Height            float64    `db:"height"`
	CurrentStatus     string     `db:"current_status"`
	EstimatedDelivery *time.Time `db:"estimated_delivery"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

type StatusLogEntry struct {
	ID         string    `db:"id"`
	ShipmentID string    `db:"shipment_id"`
	Seq        int64     `db:"seq"`
	Status     string    `db:"status"`
	Location   string    `db:"location"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

type Quote struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	ServiceType string    `db:"service_type"`
	Origin      string    `db:"origin"`
	Destination string    `db:"destination"`
	Weight      float64   `db:"weight"`
	Message     string    `db:"message"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type User struct {
	Username string `db:"username"`
	Password string `db:"password"`
}
