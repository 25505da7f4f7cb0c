package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_no TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  shipping_address TEXT,
  currency TEXT NOT NULL DEFAULT 'TWD',
  subtotal_cents INTEGER NOT NULL,
  shipping_fee_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'unpaid',
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsTable := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ordersTable).Error)
	require.NoError(t, conn.Exec(itemsTable).Error)
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, orderNo string, createdAt time.Time, mutate func(*models.Order)) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       orderNo,
		CustomerName:  "測試客戶",
		CustomerEmail: "buyer@example.com",
		CustomerPhone: "0912345678",
		Currency:      enums.CurrencyTWD,
		SubtotalCents: 89900,
		TotalCents:    89900,
		PaymentMethod: enums.PaymentMethodCreditCard,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Status:        enums.OrderStatusPending,
		CreatedAt:     createdAt,
	}
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestOrdersRepositoryCreateAndFind(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		OrderNo:          "BL202608290001",
		CustomerName:     "林小明",
		CustomerEmail:    "ming@example.com",
		CustomerPhone:    "0912345678",
		Currency:         enums.CurrencyTWD,
		SubtotalCents:    89900,
		ShippingFeeCents: 20000,
		TotalCents:       109900,
		PaymentMethod:    enums.PaymentMethodCreditCard,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		Status:           enums.OrderStatusPending,
		Items: []models.OrderLineItem{
			{
				ProductID:      uuid.New(),
				Name:           "獨立筒床墊",
				UnitPriceCents: 89900,
				Quantity:       1,
				LineTotalCents: 89900,
			},
		},
	}

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByOrderNo(ctx, "BL202608290001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "獨立筒床墊", found.Items[0].Name)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "BL202608290001", byID.OrderNo)

	_, err = repo.FindByOrderNo(ctx, "BL000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersRepositoryUpdate(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := seedOrder(t, conn, "BL1", time.Now(), nil)

	err := repo.Update(ctx, order.ID, map[string]any{
		"status":         enums.OrderStatusConfirmed,
		"payment_status": enums.PaymentStatusPaid,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
	assert.Equal(t, enums.PaymentStatusPaid, found.PaymentStatus)
}

func TestOrdersRepositoryListPaged(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		status := enums.OrderStatusPending
		if i%2 == 1 {
			status = enums.OrderStatusConfirmed
		}
		seedOrder(t, conn, fmt.Sprintf("BL%d", i), base.Add(time.Duration(i)*time.Minute), func(o *models.Order) {
			o.Status = status
		})
	}

	rows, err := repo.ListPaged(ctx, nil, 3, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "BL4", rows[0].OrderNo)
	assert.Equal(t, "BL2", rows[2].OrderNo)

	cursor := &pagination.Cursor{CreatedAt: rows[2].CreatedAt, ID: rows[2].ID}
	next, err := repo.ListPaged(ctx, cursor, 3, nil)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "BL1", next[0].OrderNo)
	assert.Equal(t, "BL0", next[1].OrderNo)

	pending := enums.OrderStatusPending
	filtered, err := repo.ListPaged(ctx, nil, 10, &pending)
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
}

func TestOrdersRepositoryCountStuckPayments(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	old := time.Now().Add(-3 * time.Hour)
	recent := time.Now().Add(-10 * time.Minute)

	seedOrder(t, conn, "BL-old-pending", old, func(o *models.Order) {
		o.PaymentStatus = enums.PaymentStatusPending
	})
	seedOrder(t, conn, "BL-old-initfail", old, func(o *models.Order) {
		o.PaymentMethod = enums.PaymentMethodVirtualAccount
		o.PaymentStatus = enums.PaymentStatusInitiationFailed
	})
	seedOrder(t, conn, "BL-old-paid", old, func(o *models.Order) {
		o.PaymentStatus = enums.PaymentStatusPaid
	})
	seedOrder(t, conn, "BL-recent-pending", recent, func(o *models.Order) {
		o.PaymentStatus = enums.PaymentStatusPending
	})

	counts, err := repo.CountStuckPayments(ctx, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byMethod := map[enums.PaymentMethod]int{}
	for _, row := range counts {
		byMethod[row.Method] = row.Count
	}
	assert.Equal(t, 1, byMethod[enums.PaymentMethodCreditCard])
	assert.Equal(t, 1, byMethod[enums.PaymentMethodVirtualAccount])
}
