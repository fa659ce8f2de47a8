package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies precondition failures so handlers can map them to HTTP
// statuses without parsing messages.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindSessionBusy        Kind = "session_busy"
	KindOrderNotModifiable Kind = "order_not_modifiable"
	KindMenuUnavailable    Kind = "menu_unavailable"
	KindItemMismatch       Kind = "item_mismatch"
	KindAlreadyClosed      Kind = "already_closed"
	KindEmptyOrder         Kind = "empty_order"
	KindPaymentIncomplete  Kind = "payment_incomplete"
	KindInvalidTransition  Kind = "invalid_transition"
	KindAlreadyPaid        Kind = "already_paid"
	KindOrderCancelled     Kind = "order_cancelled"
	KindInsufficientAmount Kind = "insufficient_amount"
	KindNothingToPay       Kind = "nothing_to_pay"
	KindPaymentNotFound    Kind = "payment_not_found"
	KindNotRefundable      Kind = "not_refundable"
	KindUnpaidOrdersExist  Kind = "unpaid_orders_exist"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps a service failure to the status the original API used for
// that condition. Anything that is not a *Error is an internal error.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound, KindPaymentNotFound, KindNothingToPay:
		return fiber.StatusNotFound
	case KindSessionBusy, KindOrderNotModifiable, KindMenuUnavailable,
		KindItemMismatch, KindAlreadyClosed, KindEmptyOrder, KindPaymentIncomplete:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}
