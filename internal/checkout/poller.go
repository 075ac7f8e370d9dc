package checkout

import (
	"log"
	"sync"
	"time"

	"go-paylink/internal/models"
)

// PollTask is a handle to one running status poll. Cancel is idempotent and
// safe to call after the task has completed on its own.
type PollTask struct {
	cancel chan struct{}
	once   sync.Once
	done   chan struct{}
}

// Cancel stops the poll task's timer
func (t *PollTask) Cancel() {
	t.once.Do(func() {
		close(t.cancel)
	})
}

// Done is closed when the task's goroutine has exited
func (t *PollTask) Done() <-chan struct{} {
	return t.done
}

// poll starts the status poll for an initiated payment: one immediate check,
// then a check every tick until the confirmed sentinel arrives, the attempt
// budget (when configured) runs out, or the task is cancelled. Ticks are
// wall-clock-scheduled; checks are idempotent reads so an overlong check
// overlapping the next tick is harmless.
func (c *Coordinator) poll(flow *Flow, paymentID string) *PollTask {
	task := &PollTask{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	flow.startPolling(paymentID, task)

	go func() {
		defer close(task.done)

		if c.checkOnce(flow, paymentID) {
			return
		}
		attempts := 1
		if c.maxAttempts > 0 && attempts >= c.maxAttempts {
			flow.expire()
			return
		}

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-task.cancel:
				return
			case <-ticker.C:
				if c.checkOnce(flow, paymentID) {
					return
				}
				attempts++
				if c.maxAttempts > 0 && attempts >= c.maxAttempts {
					flow.expire()
					return
				}
			}
		}
	}()

	return task
}

// checkOnce performs a single status check. It returns true when the
// payment reached the confirmed state and the receipt has been stored.
// Errors are logged and swallowed so a transient blip never interrupts a
// payer mid-payment.
func (c *Coordinator) checkOnce(flow *Flow, paymentID string) bool {
	status, err := c.backend.GetPaymentStatus(paymentID)
	if err != nil {
		log.Printf("[POLLER] Status check failed for payment %s: %v", paymentID, err)
		return false
	}

	if status.Status != models.PaymentConfirmed {
		return false
	}

	return flow.confirm(&models.PaymentReceipt{
		PaymentID:         status.PaymentID,
		Status:            status.Status,
		ExternalReference: status.ExternalReference,
		ReceiptURL:        status.ReceiptURL,
	})
}
