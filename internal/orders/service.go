package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/pkg/config"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
	"github.com/schoolkart/storefront-backend/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the order status state machine: payment initiation, the signed
// payment confirmation callback, and warehouse fulfillment overrides. Every
// status write appends one audit row in the same transaction.
type Service interface {
	InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*PaymentIntent, error)
	ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) error
	RecordPaymentFailure(ctx context.Context, input PaymentFailureInput) error
	SetFulfillmentStatus(ctx context.Context, input SetStatusInput) error
	GetOrder(ctx context.Context, orderID uuid.UUID, actorUserID *uuid.UUID, privileged bool) (*models.Order, []StatusLogEntry, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	gateway razorpay.OrderCreator
	rzpCfg  config.RazorpayConfig
}

// NewService builds the order lifecycle service with its dependencies.
func NewService(repo Repository, tx txRunner, gateway razorpay.OrderCreator, rzpCfg config.RazorpayConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if strings.TrimSpace(rzpCfg.KeySecret) == "" {
		return nil, fmt.Errorf("razorpay key secret required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		gateway: gateway,
		rzpCfg:  rzpCfg,
	}, nil
}

func (s *service) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*PaymentIntent, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount required")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundOrDependency(err, "load order")
	}
	if input.ActorUserID != nil && order.UserID != nil && *order.UserID != *input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}
	if !input.Amount.Equal(order.Total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount does not match order total")
	}
	if order.PaymentStatus == enums.PaymentStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.rzpCfg.Currency
	}
	amountMinor := order.Total.Mul(decimal.NewFromInt(100)).IntPart()

	// Gateway call happens outside any transaction; on failure the order row
	// is untouched.
	gatewayOrder, err := s.gateway.CreateOrder(amountMinor, currency, order.ID.String(), map[string]string{
		"order_id": order.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetGatewayReference(ctx, order.ID, gatewayOrder.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist gateway reference")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}

	return &PaymentIntent{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrder.ID,
		AmountMinor:    amountMinor,
		Currency:       currency,
		KeyID:          s.rzpCfg.KeyID,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway order id, payment id, and signature required")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return notFoundOrDependency(err, "load order")
	}
	if order.GatewayOrderID == nil || *order.GatewayOrderID != input.GatewayOrderID {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway order reference does not match")
	}

	if !razorpay.VerifyPaymentSignature(s.rzpCfg.KeySecret, input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		// The failure marking runs in its own transaction so it commits even
		// though the call itself fails.
		if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.markSignatureMismatch(ctx, s.repo.WithTx(tx), order)
		}); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "payment signature verification failed")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		updated, err := repo.UpdatePaymentState(ctx, order.ID, enums.PaymentStatusPending, map[string]any{
			"payment_status":     enums.PaymentStatusCompleted,
			"status":             enums.OrderStatusProcessing,
			"gateway_payment_id": input.GatewayPaymentID,
			"updated_at":         time.Now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete payment")
		}
		if !updated {
			// Duplicate delivery of a valid callback is not an error.
			if order.PaymentStatus == enums.PaymentStatusCompleted {
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending")
		}

		notes := fmt.Sprintf("payment completed (gateway payment %s)", input.GatewayPaymentID)
		log := &models.OrderStatusLog{
			OrderID:   order.ID,
			Status:    enums.OrderStatusProcessing,
			Notes:     &notes,
			UpdatedBy: models.SystemActor,
		}
		if err := repo.AppendStatusLog(ctx, log); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
		}
		return nil
	})
}

// markSignatureMismatch marks the payment attempt failed and records the
// mismatch in the audit trail. Fulfillment status is left untouched. It
// returns nil on success so the enclosing transaction commits; the caller is
// responsible for surfacing the signature error after the commit.
func (s *service) markSignatureMismatch(ctx context.Context, repo Repository, order *models.Order) error {
	if _, err := repo.UpdatePaymentState(ctx, order.ID, enums.PaymentStatusPending, map[string]any{
		"payment_status": enums.PaymentStatusFailed,
		"updated_at":     time.Now().UTC(),
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
	}

	notes := "payment signature mismatch"
	log := &models.OrderStatusLog{
		OrderID:   order.ID,
		Status:    order.Status,
		Notes:     &notes,
		UpdatedBy: models.SystemActor,
	}
	if err := repo.AppendStatusLog(ctx, log); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
	}
	return nil
}

func (s *service) RecordPaymentFailure(ctx context.Context, input PaymentFailureInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return notFoundOrDependency(err, "load order")
		}
		if order.PaymentStatus == enums.PaymentStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
		}

		// Marking failed twice is a stable fixed point; each call still adds
		// its own audit row.
		if order.PaymentStatus != enums.PaymentStatusFailed {
			if _, err := repo.UpdatePaymentState(ctx, order.ID, order.PaymentStatus, map[string]any{
				"payment_status": enums.PaymentStatusFailed,
				"updated_at":     time.Now().UTC(),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
			}
		}

		notes := "payment failed"
		if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
			notes = strings.TrimSpace(*input.Description)
		}
		log := &models.OrderStatusLog{
			OrderID:   order.ID,
			Status:    order.Status,
			Notes:     &notes,
			UpdatedBy: models.SystemActor,
		}
		if err := repo.AppendStatusLog(ctx, log); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
		}
		return nil
	})
}

func (s *service) SetFulfillmentStatus(ctx context.Context, input SetStatusInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if strings.TrimSpace(input.ActorEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return notFoundOrDependency(err, "load order")
		}

		// Warehouse and admin may jump between any two valid statuses; there
		// is no adjacency check here on purpose.
		updates := map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}
		if input.TrackingNumber != nil {
			updates["tracking_number"] = *input.TrackingNumber
		}
		if input.Notes != nil {
			updates["warehouse_notes"] = *input.Notes
		}
		if err := repo.UpdateFulfillment(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		log := &models.OrderStatusLog{
			OrderID:   order.ID,
			Status:    status,
			Notes:     input.Notes,
			UpdatedBy: input.ActorEmail,
		}
		if err := repo.AppendStatusLog(ctx, log); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
		}
		return nil
	})
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, actorUserID *uuid.UUID, privileged bool) (*models.Order, []StatusLogEntry, error) {
	if orderID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, notFoundOrDependency(err, "load order")
	}
	if !privileged {
		if actorUserID == nil || order.UserID == nil || *order.UserID != *actorUserID {
			return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
		}
	}

	logs, err := s.repo.ListStatusLogs(ctx, orderID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load status logs")
	}
	entries := make([]StatusLogEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, StatusLogEntry{
			Status:    log.Status,
			Notes:     log.Notes,
			UpdatedBy: log.UpdatedBy,
			CreatedAt: log.CreatedAt,
		})
	}
	return order, entries, nil
}

func (s *service) ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func notFoundOrDependency(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
