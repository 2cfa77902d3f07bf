// Package status defines the closed shipment and quote lifecycles and the
// transition policies applied to them.
package status

import (
	"errors"
	"fmt"
)

var (
	ErrUnknown           = errors.New("unknown status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type Shipment string

const (
	Registered     Shipment = "registered"
	PickedUp       Shipment = "picked_up"
	InTransit      Shipment = "in_transit"
	OutForDelivery Shipment = "out_for_delivery"
	Delivered      Shipment = "delivered"
	Cancelled      Shipment = "cancelled"
)

// ShipmentStatuses lists the lifecycle in canonical order, side state last.
var ShipmentStatuses = []Shipment{Registered, PickedUp, InTransit, OutForDelivery, Delivered, Cancelled}

var shipmentRank = map[Shipment]int{
	Registered:     0,
	PickedUp:       1,
	InTransit:      2,
	OutForDelivery: 3,
	Delivered:      4,
}

func ParseShipment(s string) (Shipment, error) {
	st := Shipment(s)
	if _, ok := shipmentRank[st]; ok || st == Cancelled {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

func (s Shipment) Terminal() bool {
	return s == Delivered || s == Cancelled
}

type Quote string

const (
	Pending   Quote = "pending"
	Contacted Quote = "contacted"
	Completed Quote = "completed"
)

var QuoteStatuses = []Quote{Pending, Contacted, Completed}

var quoteRank = map[Quote]int{
	Pending:   0,
	Contacted: 1,
	Completed: 2,
}

func ParseQuote(s string) (Quote, error) {
	q := Quote(s)
	if _, ok := quoteRank[q]; ok {
		return q, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Policy decides whether a move between two members of a lifecycle is legal.
type Policy int

const (
	// Permissive accepts any member as the next status, regressions included.
	Permissive Policy = iota
	// Strict only allows forward moves; for shipments cancelled is reachable
	// from every non-terminal state and terminal states are final.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "permissive"
}

func (p Policy) CheckShipment(from, to Shipment) error {
	if p != Strict {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s is terminal", ErrIllegalTransition, from)
	}
	if to == Cancelled {
		return nil
	}
	if shipmentRank[to] <= shipmentRank[from] {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

func (p Policy) CheckQuote(from, to Quote) error {
	if p != Strict {
		return nil
	}
	if quoteRank[to] <= quoteRank[from] {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}
