package trades

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
)

// Flow is the direction of a trade relative to the provider.
type Flow string

const (
	FlowImport Flow = "import"
	FlowExport Flow = "export"
)

var (
	ErrInvalidFlow         = errors.New("trades: flow must be import or export")
	ErrNonPositiveQuantity = errors.New("trades: quantity must be positive")
	ErrNonPositivePrice    = errors.New("trades: unit price must be positive")
	ErrMissingTimestamp    = errors.New("trades: timestamp is required")
)

// IsValid reports whether f is a known flow.
func (f Flow) IsValid() bool {
	return f == FlowImport || f == FlowExport
}

// Record is an immutable energy trade.
type Record struct {
	id        uuid.UUID
	kind      catalog.Kind
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	flow      Flow
	at        time.Time
}

// NewRecord validates and constructs a trade record.
func NewRecord(kind catalog.Kind, quantity, unitPrice decimal.Decimal, flow Flow, at time.Time) (Record, error) {
	if !kind.IsValid() {
		return Record{}, catalog.ErrUnknownKind
	}
	if !quantity.IsPositive() {
		return Record{}, ErrNonPositiveQuantity
	}
	if !unitPrice.IsPositive() {
		return Record{}, ErrNonPositivePrice
	}
	if !flow.IsValid() {
		return Record{}, ErrInvalidFlow
	}
	if at.IsZero() {
		return Record{}, ErrMissingTimestamp
	}
	return Record{
		id:        uuid.New(),
		kind:      kind,
		quantity:  quantity,
		unitPrice: unitPrice,
		flow:      flow,
		at:        at,
	}, nil
}

func (r Record) ID() uuid.UUID              { return r.id }
func (r Record) Kind() catalog.Kind         { return r.kind }
func (r Record) Quantity() decimal.Decimal  { return r.quantity }
func (r Record) UnitPrice() decimal.Decimal { return r.unitPrice }
func (r Record) Flow() Flow                 { return r.flow }
func (r Record) At() time.Time              { return r.at }

// Value returns quantity times unit price.
func (r Record) Value() decimal.Decimal {
	return r.quantity.Mul(r.unitPrice)
}
