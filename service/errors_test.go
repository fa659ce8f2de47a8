package service

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, fiber.StatusNotFound},
		{KindPaymentNotFound, fiber.StatusNotFound},
		{KindNothingToPay, fiber.StatusNotFound},
		{KindSessionBusy, fiber.StatusUnprocessableEntity},
		{KindOrderNotModifiable, fiber.StatusUnprocessableEntity},
		{KindEmptyOrder, fiber.StatusUnprocessableEntity},
		{KindPaymentIncomplete, fiber.StatusUnprocessableEntity},
		{KindAlreadyPaid, fiber.StatusBadRequest},
		{KindInsufficientAmount, fiber.StatusBadRequest},
		{KindInvalidTransition, fiber.StatusBadRequest},
		{KindUnpaidOrdersExist, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(newError(tt.kind, "x")))
		})
	}

	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}

func TestIsKind(t *testing.T) {
	err := newError(KindSessionBusy, "busy")
	assert.True(t, IsKind(err, KindSessionBusy))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindSessionBusy))
}
