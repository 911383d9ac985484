package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/HanaSeol/CardMoa/internal/pkg/commerce"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
	"github.com/HanaSeol/CardMoa/internal/pkg/jobqueue"
	"github.com/HanaSeol/CardMoa/internal/pkg/payments"
	"github.com/HanaSeol/CardMoa/internal/pkg/ratelimit"
	"github.com/HanaSeol/CardMoa/internal/pkg/session"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

const (
	activationChannel      = "naver"
	activationRateLimit    = 5
	activationRateWindow   = 300 * time.Second
	activationRateLimitKey = "activate_order"
)

// Collaborator interfaces so the activation pipeline can be exercised
// without Redis, MySQL or the commerce provider.
type orderVerifier interface {
	Verify(ctx context.Context, productOrderID string) (*commerce.Order, error)
}

type rewardGranter interface {
	Grant(ctx context.Context, in payments.GrantInput) (*payments.GrantResult, error)
}

type attemptLimiter interface {
	Attempt(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

type dispatchEnqueuer func(payload jobqueue.OrderDispatchJobPayload) error

// PaymentController handles order activation and purchase history.
type PaymentController struct {
	verifier orderVerifier
	granter  rewardGranter
	limiter  attemptLimiter
	enqueue  dispatchEnqueuer
}

// NewPaymentController wires explicit collaborators (tests).
func NewPaymentController(v orderVerifier, g rewardGranter, l attemptLimiter, e dispatchEnqueuer) *PaymentController {
	return &PaymentController{verifier: v, granter: g, limiter: l, enqueue: e}
}

// DefaultPaymentController wires the production collaborators.
func DefaultPaymentController() *PaymentController {
	return &PaymentController{
		verifier: commerce.NewClientFromEnv(),
		granter:  payments.NewServiceFromDB(database.GetDB()),
		limiter:  ratelimit.NewLimiter(),
		enqueue: func(payload jobqueue.OrderDispatchJobPayload) error {
			_, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeOrderDispatch, payload.ToMap())
			return err
		},
	}
}

type activateOrderRequest struct {
	ProductOrderID string `json:"productOrderId"`
}

func apiError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// HandleActivateOrder redeems a paid commerce order for credits or a premium
// upgrade. Stages run strictly in order and every stage before the grant
// fails without touching core data.
func (pc *PaymentController) HandleActivateOrder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	ctx := c.UserContext()

	// Counter store errors fail the request; a dead limiter never means
	// unlimited attempts.
	limitKey := ratelimit.UserKey(userCtx.UserID, activationRateLimitKey)
	res, err := pc.limiter.Attempt(ctx, limitKey, activationRateLimit, activationRateWindow)
	if err != nil {
		log.Errorf("[Payments] Rate limiter unavailable for user %d: %v", userCtx.UserID, err)
		return apiError(c, fiber.StatusInternalServerError, "internal_error", "activation temporarily unavailable")
	}
	if !res.Allowed {
		return apiError(c, fiber.StatusTooManyRequests, "rate_limited", "too many activation attempts, try again later")
	}

	var req activateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}
	req.ProductOrderID = strings.TrimSpace(req.ProductOrderID)
	if req.ProductOrderID == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid_request", "productOrderId is required")
	}

	order, err := pc.verifier.Verify(ctx, req.ProductOrderID)
	if err != nil {
		if commerce.IsVerificationError(err) {
			return apiError(c, fiber.StatusBadRequest, "verification_failed", err.Error())
		}
		log.Errorf("[Payments] Order verification failed for %s: %v", req.ProductOrderID, err)
		return apiError(c, fiber.StatusInternalServerError, "internal_error", "order verification unavailable")
	}

	// The provider's word on the type is not enough; the paid amount must
	// match our own price table for that type.
	if !payments.IsValidAmount(order.PaymentType, order.Amount) {
		log.Warnf("[Payments] Amount mismatch for order %s: type=%s amount=%d",
			order.OrderID, order.PaymentType, order.Amount)
		return apiError(c, fiber.StatusBadRequest, "amount_mismatch", "payment amount does not match product")
	}

	result, err := pc.granter.Grant(ctx, payments.GrantInput{
		UserID:          userCtx.UserID,
		PaymentType:     order.PaymentType,
		Amount:          order.Amount,
		Channel:         activationChannel,
		CommerceOrderID: order.OrderID,
		ProductName:     order.ProductName,
	})
	if err != nil {
		switch {
		case err == payments.ErrAlreadyActivated:
			return apiError(c, fiber.StatusConflict, "already_activated", "order has already been activated")
		case err == payments.ErrUserNotFound:
			return apiError(c, fiber.StatusNotFound, "user_not_found", "user account not found")
		case err == payments.ErrUnknownPaymentType:
			return apiError(c, fiber.StatusBadRequest, "unknown_payment_type", "unknown product type")
		default:
			log.Errorf("[Payments] Grant failed for order %s (user %d): %v", order.OrderID, userCtx.UserID, err)
			return apiError(c, fiber.StatusInternalServerError, "internal_error", "activation failed")
		}
	}

	if result.PremiumUpgraded {
		// Next request reloads the premium flag from the DB.
		_ = session.SetSessionValue(c, "user_premium", "")
	}

	// The reward is durable. A lost dispatch job is an operator problem,
	// never the buyer's.
	if err := pc.enqueue(jobqueue.OrderDispatchJobPayload{
		Channel:         activationChannel,
		CommerceOrderID: order.OrderID,
	}); err != nil {
		log.Errorf("[Payments] Failed to enqueue dispatch for order %s: %v", order.OrderID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"creditsGranted":  result.CreditsGranted,
			"premiumUpgraded": result.PremiumUpgraded,
			"productName":     order.ProductName,
		},
	})
}
