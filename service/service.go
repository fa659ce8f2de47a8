// Package service implements the order/session lifecycle and payment
// reconciliation rules. Every mutating operation runs inside one database
// transaction: all writes commit together or none do. Handlers stay thin and
// only translate HTTP to these calls.
package service

import (
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db            *gorm.DB
	clock         clockwork.Clock
	taxPercentage decimal.Decimal
}

// New builds a Service. The clock is injected so tests can supply
// deterministic instants for every stamped timestamp.
func New(db *gorm.DB, clock clockwork.Clock, taxPercentage decimal.Decimal) *Service {
	return &Service{db: db, clock: clock, taxPercentage: taxPercentage}
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
