package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/pkg/config"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
	"github.com/schoolkart/storefront-backend/pkg/razorpay"
)

const testKeySecret = "rzp_test_secret"

type stubOrdersRepo struct {
	order   *models.Order
	logs    []models.OrderStatusLog
	findErr error

	gatewayRefSet    string
	paymentUpdates   map[string]any
	fulfillmentSet   map[string]any
	appendLogErr     error
	updatePaymentErr error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	if s.order == nil || s.order.GatewayOrderID == nil || *s.order.GatewayOrderID != gatewayOrderID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) SetGatewayReference(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) (bool, error) {
	if s.order == nil || s.order.ID != orderID {
		return false, nil
	}
	if s.order.PaymentStatus == enums.PaymentStatusCompleted {
		return false, nil
	}
	s.gatewayRefSet = gatewayOrderID
	s.order.GatewayOrderID = &gatewayOrderID
	s.order.GatewayPaymentID = nil
	s.order.PaymentStatus = enums.PaymentStatusPending
	return true, nil
}

func (s *stubOrdersRepo) UpdatePaymentState(ctx context.Context, orderID uuid.UUID, current enums.PaymentStatus, updates map[string]any) (bool, error) {
	if s.updatePaymentErr != nil {
		return false, s.updatePaymentErr
	}
	if s.order == nil || s.order.ID != orderID || s.order.PaymentStatus != current {
		return false, nil
	}
	s.paymentUpdates = updates
	if v, ok := updates["payment_status"].(enums.PaymentStatus); ok {
		s.order.PaymentStatus = v
	}
	if v, ok := updates["status"].(enums.OrderStatus); ok {
		s.order.Status = v
	}
	if v, ok := updates["gateway_payment_id"].(string); ok {
		s.order.GatewayPaymentID = &v
	}
	return true, nil
}

func (s *stubOrdersRepo) UpdateFulfillment(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.fulfillmentSet = updates
	if v, ok := updates["status"].(enums.OrderStatus); ok {
		s.order.Status = v
	}
	if v, ok := updates["tracking_number"].(string); ok {
		s.order.TrackingNumber = &v
	}
	if v, ok := updates["warehouse_notes"].(string); ok {
		s.order.WarehouseNotes = &v
	}
	return nil
}

func (s *stubOrdersRepo) AppendStatusLog(ctx context.Context, log *models.OrderStatusLog) error {
	if s.appendLogErr != nil {
		return s.appendLogErr
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *stubOrdersRepo) ListStatusLogs(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusLog, error) {
	return s.logs, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// gormTxRunner runs the callback inside a real transaction so rollback
// semantics hold, unlike stubTxRunner.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type stubGateway struct {
	created *razorpay.GatewayOrder
	err     error
	calls   int
}

func (g *stubGateway) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]string) (*razorpay.GatewayOrder, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if g.created == nil {
		g.created = &razorpay.GatewayOrder{ID: "order_rzp_1", Amount: amountMinor, Currency: currency}
	}
	return g.created, nil
}

func testRazorpayConfig() config.RazorpayConfig {
	return config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: testKeySecret,
		Currency:  "INR",
	}
}

func newTestOrder() *models.Order {
	userID := uuid.New()
	return &models.Order{
		ID:            uuid.New(),
		UserID:        &userID,
		Total:         decimal.RequireFromString("1500.00"),
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
	}
}

func newTestService(t *testing.T, repo Repository, gateway razorpay.OrderCreator) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, gateway, testRazorpayConfig())
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestInitiatePaymentPersistsGatewayReference(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	gateway := &stubGateway{}
	svc := newTestService(t, repo, gateway)

	intent, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID:     order.ID,
		Amount:      decimal.RequireFromString("1500.00"),
		Currency:    "inr",
		ActorUserID: order.UserID,
	})
	require.NoError(t, err)

	assert.Equal(t, "order_rzp_1", intent.GatewayOrderID)
	assert.Equal(t, int64(150000), intent.AmountMinor)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "rzp_test_key", intent.KeyID)
	assert.Equal(t, "order_rzp_1", repo.gatewayRefSet)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Empty(t, repo.logs, "initiation must not write audit rows")
}

func TestInitiatePaymentOrderNotFound(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubGateway{})

	_, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: uuid.New(),
		Amount:  decimal.RequireFromString("10.00"),
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestInitiatePaymentValidation(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	_, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: uuid.Nil,
		Amount:  decimal.RequireFromString("10.00"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: order.ID,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("1.00"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestInitiatePaymentGatewayFailureLeavesOrderUntouched(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	gateway := &stubGateway{err: pkgerrors.New(pkgerrors.CodeDependency, "gateway unreachable")}
	svc := newTestService(t, repo, gateway)

	_, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("1500.00"),
	})
	requireCode(t, err, pkgerrors.CodeDependency)
	assert.Empty(t, repo.gatewayRefSet)
	assert.Nil(t, order.GatewayOrderID)
}

func TestInitiatePaymentRejectsCompletedPayment(t *testing.T) {
	order := newTestOrder()
	order.PaymentStatus = enums.PaymentStatusCompleted
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	_, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("1500.00"),
	})
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestInitiatePaymentAfterFailureReplacesReference(t *testing.T) {
	order := newTestOrder()
	order.PaymentStatus = enums.PaymentStatusFailed
	stale := "order_rzp_stale"
	order.GatewayOrderID = &stale
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	intent, err := svc.InitiatePayment(context.Background(), InitiatePaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("1500.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_1", intent.GatewayOrderID)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	require.NotNil(t, order.GatewayOrderID)
	assert.Equal(t, "order_rzp_1", *order.GatewayOrderID)
}

func confirmInput(order *models.Order, paymentID, secret string) ConfirmPaymentInput {
	return ConfirmPaymentInput{
		OrderID:          order.ID,
		GatewayOrderID:   *order.GatewayOrderID,
		GatewayPaymentID: paymentID,
		Signature:        razorpay.PaymentSignature(secret, *order.GatewayOrderID, paymentID),
	}
}

func TestConfirmPaymentValidSignature(t *testing.T) {
	order := newTestOrder()
	ref := "order_rzp_1"
	order.GatewayOrderID = &ref
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	err := svc.ConfirmPayment(context.Background(), confirmInput(order, "pay_1", testKeySecret))
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusProcessing, order.Status)
	require.NotNil(t, order.GatewayPaymentID)
	assert.Equal(t, "pay_1", *order.GatewayPaymentID)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, enums.OrderStatusProcessing, repo.logs[0].Status)
	assert.Equal(t, models.SystemActor, repo.logs[0].UpdatedBy)
	require.NotNil(t, repo.logs[0].Notes)
	assert.Contains(t, *repo.logs[0].Notes, "pay_1")
}

func TestConfirmPaymentInvalidSignature(t *testing.T) {
	order := newTestOrder()
	ref := "order_rzp_1"
	order.GatewayOrderID = &ref
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	input := confirmInput(order, "pay_1", "wrong_secret")
	err := svc.ConfirmPayment(context.Background(), input)
	requireCode(t, err, pkgerrors.CodeInvalidSignature)

	assert.Equal(t, enums.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, order.Status, "fulfillment must stay pending")

	require.Len(t, repo.logs, 1)
	assert.Equal(t, enums.OrderStatusPending, repo.logs[0].Status)
	require.NotNil(t, repo.logs[0].Notes)
	assert.Contains(t, *repo.logs[0].Notes, "signature mismatch")
}

func TestConfirmPaymentInvalidSignatureCommitsFailureMarking(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, &stubGateway{}, testRazorpayConfig())
	require.NoError(t, err)
	ctx := context.Background()

	order := seedOrder(t, db, nil, time.Now().UTC())
	updated, err := repo.SetGatewayReference(ctx, order.ID, "order_rzp_9")
	require.NoError(t, err)
	require.True(t, updated)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	err = svc.ConfirmPayment(ctx, confirmInput(loaded, "pay_9", "wrong_secret"))
	requireCode(t, err, pkgerrors.CodeInvalidSignature)

	// The failure marking must survive the error return.
	persisted, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, persisted.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, persisted.Status)

	logs, err := repo.ListStatusLogs(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, enums.OrderStatusPending, logs[0].Status)
	assert.Equal(t, models.SystemActor, logs[0].UpdatedBy)
	require.NotNil(t, logs[0].Notes)
	assert.Contains(t, *logs[0].Notes, "signature mismatch")
}

func TestConfirmPaymentDuplicateCallbackIsIdempotent(t *testing.T) {
	order := newTestOrder()
	ref := "order_rzp_1"
	order.GatewayOrderID = &ref
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	input := confirmInput(order, "pay_1", testKeySecret)
	require.NoError(t, svc.ConfirmPayment(context.Background(), input))
	require.NoError(t, svc.ConfirmPayment(context.Background(), input))

	assert.Equal(t, enums.PaymentStatusCompleted, order.PaymentStatus)
	assert.Len(t, repo.logs, 1, "replayed callback must not add audit rows")
}

func TestConfirmPaymentReferenceMismatch(t *testing.T) {
	order := newTestOrder()
	ref := "order_rzp_1"
	order.GatewayOrderID = &ref
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		OrderID:          order.ID,
		GatewayOrderID:   "order_rzp_other",
		GatewayPaymentID: "pay_1",
		Signature:        razorpay.PaymentSignature(testKeySecret, "order_rzp_other", "pay_1"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
}

func TestRecordPaymentFailureIsIdempotent(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	desc := "card declined"
	input := PaymentFailureInput{OrderID: order.ID, Description: &desc}

	require.NoError(t, svc.RecordPaymentFailure(context.Background(), input))
	assert.Equal(t, enums.PaymentStatusFailed, order.PaymentStatus)

	require.NoError(t, svc.RecordPaymentFailure(context.Background(), input))
	assert.Equal(t, enums.PaymentStatusFailed, order.PaymentStatus)

	require.Len(t, repo.logs, 2, "each call adds its own audit row")
	for _, log := range repo.logs {
		require.NotNil(t, log.Notes)
		assert.Equal(t, "card declined", *log.Notes)
		assert.Equal(t, models.SystemActor, log.UpdatedBy)
	}
}

func TestRecordPaymentFailureRejectsCompleted(t *testing.T) {
	order := newTestOrder()
	order.PaymentStatus = enums.PaymentStatusCompleted
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	err := svc.RecordPaymentFailure(context.Background(), PaymentFailureInput{OrderID: order.ID})
	requireCode(t, err, pkgerrors.CodeStateConflict)
	assert.Empty(t, repo.logs)
}

func TestSetFulfillmentStatusAllowsAnyEnumJump(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	tracking := "TRK-99"
	notes := "left warehouse dock 4"
	err := svc.SetFulfillmentStatus(context.Background(), SetStatusInput{
		OrderID:        order.ID,
		Status:         "delivered",
		TrackingNumber: &tracking,
		Notes:          &notes,
		ActorEmail:     "ops@schoolkart.in",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusDelivered, order.Status)
	require.NotNil(t, order.TrackingNumber)
	assert.Equal(t, "TRK-99", *order.TrackingNumber)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, enums.OrderStatusDelivered, repo.logs[0].Status)
	assert.Equal(t, "ops@schoolkart.in", repo.logs[0].UpdatedBy)
}

func TestSetFulfillmentStatusParsesCaseInsensitively(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	err := svc.SetFulfillmentStatus(context.Background(), SetStatusInput{
		OrderID:    order.ID,
		Status:     "SHIPPED",
		ActorEmail: "ops@schoolkart.in",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, order.Status)
}

func TestSetFulfillmentStatusRejectsUnknownStatus(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	err := svc.SetFulfillmentStatus(context.Background(), SetStatusInput{
		OrderID:    order.ID,
		Status:     "teleported",
		ActorEmail: "ops@schoolkart.in",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Empty(t, repo.logs)
}

func TestSetFulfillmentStatusOrderNotFound(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubGateway{})

	err := svc.SetFulfillmentStatus(context.Background(), SetStatusInput{
		OrderID:    uuid.New(),
		Status:     "shipped",
		ActorEmail: "ops@schoolkart.in",
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	order := newTestOrder()
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubGateway{})

	other := uuid.New()
	_, _, err := svc.GetOrder(context.Background(), order.ID, &other, false)
	requireCode(t, err, pkgerrors.CodeForbidden)

	got, logs, err := svc.GetOrder(context.Background(), order.ID, order.UserID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Empty(t, logs)

	got, _, err = svc.GetOrder(context.Background(), order.ID, nil, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}
