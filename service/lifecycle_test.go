package service

// End-to-end lifecycle tests against a real postgres database. They exercise
// the advisory-lock session find-or-create, the order number sequence and the
// payment cascades, so they need more than sqlite can offer. Set
// TEST_DATABASE_URL to run them, e.g.
//
//	TEST_DATABASE_URL="host=localhost user=postgres password=postgres dbname=resto_test sslmode=disable" go test ./service/...

import (
	"os"
	"testing"
	"time"

	"resto_manager/database"
	"resto_manager/model"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type LifecycleSuite struct {
	suite.Suite
	db    *gorm.DB
	clock *clockwork.FakeClock
	svc   *Service

	waiter  model.User
	cashier model.User
	table1  model.Table
	table2  model.Table
	nasi    model.Menu // 25000
	esTeh   model.Menu // 5000
	sate    model.Menu // 10000
}

func TestLifecycleSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres lifecycle tests")
	}
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupSuite() {
	db, err := gorm.Open(postgres.Open(os.Getenv("TEST_DATABASE_URL")), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.db = db
	database.Migrate(db)
}

func (s *LifecycleSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE payments, order_items, orders, order_sessions, tables, menus, users RESTART IDENTITY CASCADE",
	).Error)

	// created_at is stamped by the database, so the fake clock must share
	// today's date for the daily order number lookup to see prior rows
	s.clock = clockwork.NewFakeClockAt(time.Now().Truncate(time.Second))
	s.svc = New(s.db, s.clock, decimal.NewFromInt(10))

	s.waiter = model.User{Username: "budi", Password: "x", Name: "Budi", Role: "pelayan", Active: true}
	s.cashier = model.User{Username: "siti", Password: "x", Name: "Siti", Role: "kasir", Active: true}
	s.Require().NoError(s.db.Create(&s.waiter).Error)
	s.Require().NoError(s.db.Create(&s.cashier).Error)

	s.table1 = model.Table{TableNumber: "T01", Capacity: 4, Status: model.TableAvailable}
	s.table2 = model.Table{TableNumber: "T02", Capacity: 2, Status: model.TableAvailable}
	s.Require().NoError(s.db.Create(&s.table1).Error)
	s.Require().NoError(s.db.Create(&s.table2).Error)

	s.nasi = model.Menu{Name: "Nasi Goreng", Price: decimal.NewFromInt(25000), Category: "makanan", IsAvailable: true}
	s.esTeh = model.Menu{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "minuman", IsAvailable: true}
	s.sate = model.Menu{Name: "Sate Ayam", Price: decimal.NewFromInt(10000), Category: "makanan", IsAvailable: true}
	s.Require().NoError(s.db.Create(&s.nasi).Error)
	s.Require().NoError(s.db.Create(&s.esTeh).Error)
	s.Require().NoError(s.db.Create(&s.sate).Error)
}

func (s *LifecycleSuite) mustOpen(tableId uint, customer string, items ...model.OpenOrderItemInput) *model.Order {
	order, err := s.svc.OpenOrder(model.OpenOrderInput{
		TableId:      tableId,
		CustomerName: customer,
		Items:        items,
	}, s.waiter.ID)
	s.Require().NoError(err)
	return order
}

func (s *LifecycleSuite) reloadOrder(id uint) model.Order {
	var order model.Order
	s.Require().NoError(s.db.First(&order, id).Error)
	return order
}

func (s *LifecycleSuite) reloadSession(id uint) model.OrderSession {
	var session model.OrderSession
	s.Require().NoError(s.db.First(&session, id).Error)
	return session
}

func (s *LifecycleSuite) reloadTable(id uint) model.Table {
	var table model.Table
	s.Require().NoError(s.db.First(&table, id).Error)
	return table
}

func (s *LifecycleSuite) TestOpenOrderStartsSessionAndOccupiesTable() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	s.Equal(s.clock.Now().Format("20060102")+"0001", order.OrderNumber)
	s.Equal(model.OrderOpen, order.Status)
	s.Equal(model.OrderUnpaid, order.PaymentStatus)
	s.Equal("50000", order.Subtotal.String())
	s.Equal("5000", order.Tax.String())
	s.Equal("55000", order.Total.String())

	session := s.reloadSession(order.OrderSessionId)
	s.Equal(model.SessionActive, session.Status)
	s.Equal("Pak Joko", session.CustomerName)

	s.Equal(model.TableOccupied, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestOpenOrderUnknownTable() {
	_, err := s.svc.OpenOrder(model.OpenOrderInput{TableId: 999, CustomerName: "X"}, s.waiter.ID)
	s.True(IsKind(err, KindNotFound))
}

func (s *LifecycleSuite) TestSessionBusyGatesSecondRound() {
	first := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})

	_, err := s.svc.OpenOrder(model.OpenOrderInput{
		TableId:      s.table1.ID,
		CustomerName: "Pak Joko",
	}, s.waiter.ID)
	s.True(IsKind(err, KindSessionBusy))

	// once the kitchen marks it ready the next round may start, in the
	// same session, with the next daily sequence number
	_, err = s.svc.UpdateOrderStatus(first.ID, model.OrderReady)
	s.Require().NoError(err)

	second := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})
	s.Equal(first.OrderSessionId, second.OrderSessionId)
	s.Equal(s.clock.Now().Format("20060102")+"0002", second.OrderNumber)
}

func (s *LifecycleSuite) TestOrderNumberRestartsNextDay() {
	s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})

	s.clock.Advance(24 * time.Hour)
	order := s.mustOpen(s.table2.ID, "Bu Rina",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})

	s.Equal(s.clock.Now().Format("20060102")+"0001", order.OrderNumber)
}

func (s *LifecycleSuite) TestAddItemMergesExistingLine() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})

	added, err := s.svc.AddItem(order.ID, model.AddItemInput{MenuId: s.nasi.ID, Quantity: 2})
	s.Require().NoError(err)
	s.Equal(3, added.Quantity)
	s.Equal("75000", added.Subtotal.String())

	var count int64
	s.Require().NoError(s.db.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
	s.EqualValues(1, count)

	reloaded := s.reloadOrder(order.ID)
	s.Equal("75000", reloaded.Subtotal.String())
	s.Equal("82500", reloaded.Total.String())
}

func (s *LifecycleSuite) TestAddItemRejectedAfterReady() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})
	_, err := s.svc.UpdateOrderStatus(order.ID, model.OrderReady)
	s.Require().NoError(err)

	_, err = s.svc.AddItem(order.ID, model.AddItemInput{MenuId: s.esTeh.ID, Quantity: 1})
	s.True(IsKind(err, KindOrderNotModifiable))
}

func (s *LifecycleSuite) TestAddUnavailableMenu() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})
	s.Require().NoError(s.db.Model(&s.sate).Update("is_available", false).Error)

	_, err := s.svc.AddItem(order.ID, model.AddItemInput{MenuId: s.sate.ID, Quantity: 1})
	s.True(IsKind(err, KindMenuUnavailable))
}

func (s *LifecycleSuite) TestRemoveItemRecalculatesTotals() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2},
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})

	var line model.OrderItem
	s.Require().NoError(s.db.Where("order_id = ? AND menu_id = ?", order.ID, s.esTeh.ID).First(&line).Error)
	s.Require().NoError(s.svc.RemoveItem(order.ID, line.ID))

	reloaded := s.reloadOrder(order.ID)
	s.Equal("50000", reloaded.Subtotal.String())
	s.Equal("55000", reloaded.Total.String())
}

func (s *LifecycleSuite) TestRemoveItemFromOtherOrder() {
	first := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})
	other := s.mustOpen(s.table2.ID, "Bu Rina",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})

	var foreign model.OrderItem
	s.Require().NoError(s.db.Where("order_id = ?", other.ID).First(&foreign).Error)

	err := s.svc.RemoveItem(first.ID, foreign.ID)
	s.True(IsKind(err, KindItemMismatch))
}

func (s *LifecycleSuite) TestCloseOrderPreconditions() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	_, err := s.svc.CloseOrder(order.ID, s.cashier.ID)
	s.True(IsKind(err, KindPaymentIncomplete))

	empty := s.mustOpen(s.table2.ID, "Bu Rina")
	_, err = s.svc.CloseOrder(empty.ID, s.cashier.ID)
	s.True(IsKind(err, KindEmptyOrder))
}

func (s *LifecycleSuite) TestPayCascadesWholeVisit() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	result, err := s.svc.Pay(order.ID, model.CreatePaymentInput{
		PaymentMethod: "cash",
		Amount:        60000,
	}, s.cashier.ID)
	s.Require().NoError(err)

	s.Equal("5000", result.Change.String())
	s.True(result.SessionCompleted)
	s.Equal(model.PaymentCompleted, result.Payment.Status)

	reloaded := s.reloadOrder(order.ID)
	s.Equal(model.OrderPaid, reloaded.PaymentStatus)
	s.Equal(model.OrderClosed, reloaded.Status)
	s.NotNil(reloaded.ClosedAt)

	s.Equal(model.SessionCompleted, s.reloadSession(order.OrderSessionId).Status)
	s.Equal(model.TableAvailable, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestPayNonCashGivesNoChange() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	result, err := s.svc.Pay(order.ID, model.CreatePaymentInput{
		PaymentMethod: "qris",
		Amount:        55000,
	}, s.cashier.ID)
	s.Require().NoError(err)
	s.True(result.Change.IsZero())
}

func (s *LifecycleSuite) TestPayInsufficientAmount() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	_, err := s.svc.Pay(order.ID, model.CreatePaymentInput{
		PaymentMethod: "cash",
		Amount:        49000,
	}, s.cashier.ID)
	s.True(IsKind(err, KindInsufficientAmount))

	s.Equal(model.OrderUnpaid, s.reloadOrder(order.ID).PaymentStatus)
	var count int64
	s.Require().NoError(s.db.Model(&model.Payment{}).Count(&count).Error)
	s.EqualValues(0, count, "failed payment must not leave rows behind")
}

func (s *LifecycleSuite) TestPayTwiceRejected() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})

	_, err := s.svc.Pay(order.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)

	_, err = s.svc.Pay(order.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.True(IsKind(err, KindAlreadyPaid))
}

func (s *LifecycleSuite) TestPayLeavesSessionActiveWhileOrdersUnpaid() {
	first := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	_, err := s.svc.UpdateOrderStatus(first.ID, model.OrderReady)
	s.Require().NoError(err)
	s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})

	result, err := s.svc.Pay(first.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)
	s.False(result.SessionCompleted)

	s.Equal(model.SessionActive, s.reloadSession(first.OrderSessionId).Status)
	s.Equal(model.TableOccupied, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestPayBulkSettlesWholeSession() {
	first := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2}) // 55000
	_, err := s.svc.UpdateOrderStatus(first.ID, model.OrderReady)
	s.Require().NoError(err)
	second := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.sate.ID, Quantity: 1}) // 11000

	result, err := s.svc.PayBulk(model.BulkPaymentInput{
		SessionId:     first.OrderSessionId,
		PaymentMethod: "cash",
		Amount:        70000,
	}, s.cashier.ID)
	s.Require().NoError(err)

	s.Equal(2, result.OrdersPaid)
	s.Equal("66000", result.TotalAmount.String())
	s.Equal("4000", result.Change.String())
	s.Len(result.Payments, 2)

	// one payment per order, each for that order's own total
	amounts := []string{result.Payments[0].Amount.String(), result.Payments[1].Amount.String()}
	s.ElementsMatch([]string{"55000", "11000"}, amounts)

	for _, id := range []uint{first.ID, second.ID} {
		order := s.reloadOrder(id)
		s.Equal(model.OrderPaid, order.PaymentStatus)
		s.Equal(model.OrderClosed, order.Status)
	}
	s.Equal(model.SessionCompleted, s.reloadSession(first.OrderSessionId).Status)
	s.Equal(model.TableAvailable, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestPayBulkNothingToPay() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	_, err := s.svc.Pay(order.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)

	_, err = s.svc.PayBulk(model.BulkPaymentInput{
		SessionId:     order.OrderSessionId,
		PaymentMethod: "cash",
		Amount:        100000,
	}, s.cashier.ID)
	s.True(IsKind(err, KindNothingToPay))
}

func (s *LifecycleSuite) TestRefundRevertsPaymentStatusOnly() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	result, err := s.svc.Pay(order.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)

	refunded, err := s.svc.Refund(order.ID, result.Payment.ID, "makanan salah")
	s.Require().NoError(err)
	s.Equal(model.PaymentRefunded, refunded.Status)
	s.Require().NotNil(refunded.Notes)
	s.Contains(*refunded.Notes, "Refund: makanan salah")

	reloaded := s.reloadOrder(order.ID)
	s.Equal(model.OrderUnpaid, reloaded.PaymentStatus)

	// the settled cascade is never walked backward
	s.Equal(model.OrderClosed, reloaded.Status)
	s.Equal(model.SessionCompleted, s.reloadSession(order.OrderSessionId).Status)
	s.Equal(model.TableAvailable, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestRefundPaymentOfOtherOrder() {
	first := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	result, err := s.svc.Pay(first.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)

	other := s.mustOpen(s.table2.ID, "Bu Rina",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})

	_, err = s.svc.Refund(other.ID, result.Payment.ID, "salah order")
	s.True(IsKind(err, KindPaymentNotFound))
}

func (s *LifecycleSuite) TestCompleteSessionRequiresPaidOrders() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})

	_, err := s.svc.CompleteSession(order.OrderSessionId, s.cashier.ID)
	s.True(IsKind(err, KindUnpaidOrdersExist))
}

func (s *LifecycleSuite) TestCompleteSessionIdempotent() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	_, err := s.svc.Pay(order.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)

	session, err := s.svc.CompleteSession(order.OrderSessionId, s.cashier.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionCompleted, session.Status)
}

func (s *LifecycleSuite) TestSharedTableReleasedAfterLastSession() {
	joko := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 2})
	rina := s.mustOpen(s.table1.ID, "Bu Rina",
		model.OpenOrderItemInput{MenuId: s.esTeh.ID, Quantity: 1})
	s.NotEqual(joko.OrderSessionId, rina.OrderSessionId)

	_, err := s.svc.Pay(joko.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 55000}, s.cashier.ID)
	s.Require().NoError(err)
	s.Equal(model.TableOccupied, s.reloadTable(s.table1.ID).Status,
		"table stays occupied while another customer's session is active")

	_, err = s.svc.Pay(rina.ID, model.CreatePaymentInput{PaymentMethod: "cash", Amount: 5500}, s.cashier.ID)
	s.Require().NoError(err)
	s.Equal(model.TableAvailable, s.reloadTable(s.table1.ID).Status)
}

func (s *LifecycleSuite) TestUpdateStatusRejectsTerminalMoves() {
	order := s.mustOpen(s.table1.ID, "Pak Joko",
		model.OpenOrderItemInput{MenuId: s.nasi.ID, Quantity: 1})

	_, err := s.svc.UpdateOrderStatus(order.ID, model.OrderCancelled)
	s.Require().NoError(err)

	_, err = s.svc.UpdateOrderStatus(order.ID, model.OrderOpen)
	s.True(IsKind(err, KindInvalidTransition))
}
