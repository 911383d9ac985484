package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/internal/pkg/commerce"
	"github.com/HanaSeol/CardMoa/internal/pkg/jobqueue"
	"github.com/HanaSeol/CardMoa/internal/pkg/payments"
	"github.com/HanaSeol/CardMoa/internal/pkg/ratelimit"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

type fakeVerifier struct {
	order *commerce.Order
	err   error
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, id string) (*commerce.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

type fakeGranter struct {
	result *payments.GrantResult
	err    error
	last   payments.GrantInput
	calls  int
}

func (f *fakeGranter) Grant(ctx context.Context, in payments.GrantInput) (*payments.GrantResult, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeLimiter struct {
	count int
	limit int
	err   error
}

func (f *fakeLimiter) Attempt(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	if f.err != nil {
		return ratelimit.Result{}, f.err
	}
	f.count++
	if f.limit == 0 {
		f.limit = limit
	}
	return ratelimit.Result{Allowed: f.count <= f.limit, Remaining: f.limit - f.count}, nil
}

func newActivationApp(pc *PaymentController, loggedIn bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if loggedIn {
			c.Locals("USER_CONTEXT", usercontext.UserContext{
				UserID:     1,
				Username:   "hana",
				IsLoggedIn: true,
			})
		}
		return c.Next()
	})
	app.Post("/api/v1/payments/activate", pc.HandleActivateOrder)
	return app
}

func activate(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/activate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func validOrder() *commerce.Order {
	return &commerce.Order{
		OrderID:     "2026010112345",
		PaymentType: models.PaymentTypePremium,
		Amount:      29000,
		ProductName: "CardMoa Premium",
	}
}

func TestActivateOrderRequiresLogin(t *testing.T) {
	pc := NewPaymentController(&fakeVerifier{}, &fakeGranter{}, &fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil })
	app := newActivationApp(pc, false)

	resp, body := activate(t, app, `{"productOrderId":"abc"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "unauthorized", body["code"])
}

func TestActivateOrderSuccess(t *testing.T) {
	var enqueued []jobqueue.OrderDispatchJobPayload
	granter := &fakeGranter{result: &payments.GrantResult{CreditsGranted: 0, PremiumUpgraded: true}}
	pc := NewPaymentController(
		&fakeVerifier{order: validOrder()},
		granter,
		&fakeLimiter{},
		func(p jobqueue.OrderDispatchJobPayload) error {
			enqueued = append(enqueued, p)
			return nil
		},
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["creditsGranted"])
	assert.Equal(t, true, data["premiumUpgraded"])
	assert.Equal(t, "CardMoa Premium", data["productName"])

	assert.Equal(t, "naver", granter.last.Channel)
	assert.Equal(t, "2026010112345", granter.last.CommerceOrderID)

	require.Len(t, enqueued, 1)
	assert.Equal(t, "2026010112345", enqueued[0].CommerceOrderID)
}

func TestActivateOrderRateLimited(t *testing.T) {
	verifier := &fakeVerifier{order: validOrder()}
	pc := NewPaymentController(
		verifier,
		&fakeGranter{result: &payments.GrantResult{}},
		&fakeLimiter{limit: activationRateLimit},
		func(jobqueue.OrderDispatchJobPayload) error { return nil },
	)
	app := newActivationApp(pc, true)

	for i := 0; i < activationRateLimit; i++ {
		resp, _ := activate(t, app, `{"productOrderId":"2026010112345"}`)
		assert.NotEqual(t, fiber.StatusTooManyRequests, resp.StatusCode)
	}

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate_limited", body["code"])
}

func TestActivateOrderLimiterOutageFailsClosed(t *testing.T) {
	verifier := &fakeVerifier{order: validOrder()}
	pc := NewPaymentController(
		verifier,
		&fakeGranter{},
		&fakeLimiter{err: errors.New("redis down")},
		func(jobqueue.OrderDispatchJobPayload) error { return nil },
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal_error", body["code"])
	assert.Equal(t, 0, verifier.calls, "counter outage must not fall through to verification")
}

func TestActivateOrderRejectsEmptyBody(t *testing.T) {
	granter := &fakeGranter{}
	pc := NewPaymentController(&fakeVerifier{order: validOrder()}, granter, &fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil })
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", body["code"])
	assert.Equal(t, 0, granter.calls)
}

func TestActivateOrderVerificationFailure(t *testing.T) {
	granter := &fakeGranter{}
	pc := NewPaymentController(
		&fakeVerifier{err: commerce.ErrOrderCanceled},
		granter,
		&fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil },
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "verification_failed", body["code"])
	assert.Equal(t, 0, granter.calls, "failed verification must not reach the grant")
}

func TestActivateOrderAmountMismatch(t *testing.T) {
	order := validOrder()
	order.Amount = 100 // spoofed cheap order claiming premium
	granter := &fakeGranter{}
	pc := NewPaymentController(&fakeVerifier{order: order}, granter, &fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil })
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "amount_mismatch", body["code"])
	assert.Equal(t, 0, granter.calls)
}

func TestActivateOrderDuplicateConflicts(t *testing.T) {
	pc := NewPaymentController(
		&fakeVerifier{order: validOrder()},
		&fakeGranter{err: payments.ErrAlreadyActivated},
		&fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil },
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "already_activated", body["code"])
}

func TestActivateOrderUserGone(t *testing.T) {
	pc := NewPaymentController(
		&fakeVerifier{order: validOrder()},
		&fakeGranter{err: payments.ErrUserNotFound},
		&fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return nil },
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user_not_found", body["code"])
}

func TestActivateOrderDispatchFailureStillSucceeds(t *testing.T) {
	pc := NewPaymentController(
		&fakeVerifier{order: validOrder()},
		&fakeGranter{result: &payments.GrantResult{CreditsGranted: 5}},
		&fakeLimiter{},
		func(jobqueue.OrderDispatchJobPayload) error { return errors.New("queue down") },
	)
	app := newActivationApp(pc, true)

	resp, body := activate(t, app, `{"productOrderId":"2026010112345"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"], "dispatch is best-effort, the grant already committed")
}
