package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/HanaSeol/CardMoa/internal/pkg/commerce"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
	"github.com/HanaSeol/CardMoa/internal/pkg/payments"
)

// OrderDispatcher reports fulfillment for an already granted order.
type OrderDispatcher interface {
	Dispatch(ctx context.Context, productOrderID string) error
}

var (
	dispatchClient OrderDispatcher
	paymentsSvc    *payments.Service
)

// SetOrderDispatcher overrides the commerce client used by dispatch jobs (tests).
func SetOrderDispatcher(d OrderDispatcher) {
	dispatchClient = d
}

// SetPaymentsService overrides the payments service used by jobs (tests).
func SetPaymentsService(svc *payments.Service) {
	paymentsSvc = svc
}

func getOrderDispatcher() OrderDispatcher {
	if dispatchClient == nil {
		dispatchClient = commerce.NewClientFromEnv()
	}
	return dispatchClient
}

func getPaymentsService() *payments.Service {
	if paymentsSvc == nil {
		paymentsSvc = payments.NewServiceFromDB(database.GetDB())
	}
	return paymentsSvc
}

// processOrderDispatchJob tells the commerce provider the order is fulfilled
// and records the dispatch on the payment row. The credit grant is already
// committed before this job exists, so a retry here never re-grants anything.
func (q *Queue) processOrderDispatchJob(ctx context.Context, job *Job) error {
	payload, err := OrderDispatchJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid dispatch payload: %w", err)
	}
	if payload.CommerceOrderID == "" {
		return fmt.Errorf("dispatch payload missing commerce_order_id")
	}

	if err := getOrderDispatcher().Dispatch(ctx, payload.CommerceOrderID); err != nil {
		return fmt.Errorf("dispatch order %s: %w", payload.CommerceOrderID, err)
	}

	if err := getPaymentsService().MarkDispatched(ctx, payload.Channel, payload.CommerceOrderID); err != nil {
		return fmt.Errorf("mark dispatched %s/%s: %w", payload.Channel, payload.CommerceOrderID, err)
	}

	log.Infof("[JobQueue] Order %s/%s dispatched", payload.Channel, payload.CommerceOrderID)
	return nil
}
