package worker

// invoice_worker.go
// Processes invoice rendering jobs from QueueInvoice: generates the PDF,
// stores its path on the invoice row, and optionally enqueues an email job
// with the PDF attached. Rendering failures retry with exponential backoff
// and land in the DLQ when exhausted.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/srouini/SmartStore/internal/infra"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	InvoiceID     string  `json:"invoice_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

type InvoiceWorker struct {
	invoiceRepo    repository.InvoiceRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
	storeName      string
}

func NewInvoiceWorker(
	invoiceRepo repository.InvoiceRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
	storeName string,
) *InvoiceWorker {
	return &InvoiceWorker{
		invoiceRepo:    invoiceRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		storeName:      storeName,
	}
}

// Process handles a single invoice job:
//  1. Parse InvoiceJobPayload from the job envelope
//  2. Fetch the invoice with its sale and item snapshots
//  3. Render the PDF with exponential backoff (max 3 attempts)
//  4. Store the PDF path on the invoice row
//  5. Optionally enqueue an email job
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: invalid invoice_id")
		return
	}

	invoice, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: invoice not found")
		return
	}

	var pdfPath string
	renderErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateInvoicePDF(invoice, w.pdfStoragePath, w.storeName)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("invoice_id", payload.InvoiceID).
				Msg("invoice_worker: PDF rendering failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if renderErr != nil {
		log.Error().Err(renderErr).Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: PDF rendering failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueInvoice, "invoice", raw, renderErr.Error(), 3)
		return
	}

	if err := w.invoiceRepo.UpdatePDFPath(ctx, invoiceID, pdfPath); err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("invoice_worker: failed to store pdf path")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("invoice", invoice.InvoiceNumber).Msg("invoice_worker: PDF generated")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: fmt.Sprintf("%s — Invoice %s", w.storeName, invoice.InvoiceNumber),
			Body:    fmt.Sprintf("Please find attached your invoice %s.\nTotal: %s", invoice.InvoiceNumber, invoice.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("invoice_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
