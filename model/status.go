package model

// Status values for orders, sessions, tables and payments. Transition
// legality lives here so call sites never re-derive it with ad hoc checks.

type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderClosed    OrderStatus = "closed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderPreparing, OrderReady, OrderServed, OrderClosed, OrderCancelled:
		return true
	}
	return false
}

// Modifiable reports whether items may still be added to or removed from an
// order in this status.
func (s OrderStatus) Modifiable() bool {
	return s == OrderOpen || s == OrderPreparing
}

func (s OrderStatus) Terminal() bool {
	return s == OrderClosed || s == OrderCancelled
}

// CanTransitionTo is the single source of truth for order status updates.
// Kitchen statuses (open/preparing/ready/served) move freely between each
// other and to cancelled; a closed order may only be cancelled (correction
// path); cancelled is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case OrderCancelled:
		return false
	case OrderClosed:
		return next == OrderCancelled
	default:
		return true
	}
}

type OrderPaymentStatus string

const (
	OrderUnpaid OrderPaymentStatus = "unpaid"
	OrderPaid   OrderPaymentStatus = "paid"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PayCash  PaymentMethod = "cash"
	PayCard  PaymentMethod = "card"
	PayQris  PaymentMethod = "qris"
	PayGopay PaymentMethod = "gopay"
	PayOvo   PaymentMethod = "ovo"
	PayDana  PaymentMethod = "dana"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PayQris, PayGopay, PayOvo, PayDana:
		return true
	}
	return false
}
