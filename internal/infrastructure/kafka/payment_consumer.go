package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/usecase"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	pkgkafka "github.com/harshitrathi14/LOS-LMS-sub001/pkg/kafka"
)

// paymentMessage is the wire shape the payments platform publishes.
type paymentMessage struct {
	LoanID     string          `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Reference  string          `json:"reference"`
	ReceivedAt time.Time       `json:"received_at"`
}

// PaymentConsumer feeds payment instructions from the payment topic into the
// payment use case. Delivery is at-least-once; the use case replays repeated
// references, so reprocessing after a restart is harmless.
type PaymentConsumer struct {
	consumer *pkgkafka.Consumer
	logger   *slog.Logger
}

// NewPaymentConsumer creates a consumer for the given topic.
func NewPaymentConsumer(cfg pkgkafka.Config, topic string, payments *usecase.MakePaymentUseCase, logger *slog.Logger) *PaymentConsumer {
	pc := &PaymentConsumer{logger: logger}
	pc.consumer = pkgkafka.NewConsumer(cfg, topic, pc.handlerFor(payments), logger)
	return pc
}

// Start consumes messages until the context is cancelled.
func (pc *PaymentConsumer) Start(ctx context.Context) error {
	return pc.consumer.Start(ctx)
}

// Close closes the underlying reader.
func (pc *PaymentConsumer) Close() error {
	return pc.consumer.Close()
}

func (pc *PaymentConsumer) handlerFor(payments *usecase.MakePaymentUseCase) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var pm paymentMessage
		if err := json.Unmarshal(msg.Value, &pm); err != nil {
			// A malformed message can never succeed; drop it instead of
			// blocking the partition.
			pc.logger.WarnContext(ctx, "dropping malformed payment message",
				"key", string(msg.Key),
				"error", err,
			)
			return nil
		}

		resp, err := payments.Execute(ctx, dto.MakePaymentRequest{
			LoanID:     pm.LoanID,
			Amount:     pm.Amount,
			Currency:   pm.Currency,
			Reference:  pm.Reference,
			ReceivedAt: pm.ReceivedAt,
		})
		if err != nil {
			// Unprocessable instructions stay unprocessable on redelivery;
			// acknowledge them so only transient failures are retried.
			var cfgErr *valueobject.ConfigurationError
			if errors.As(err, &cfgErr) || errors.Is(err, port.ErrNotFound) {
				pc.logger.WarnContext(ctx, "rejecting unprocessable payment message",
					"loan_id", pm.LoanID,
					"reference", pm.Reference,
					"error", err,
				)
				return nil
			}
			return fmt.Errorf("apply payment for loan %s: %w", pm.LoanID, err)
		}

		pc.logger.InfoContext(ctx, "payment applied from stream",
			"loan_id", pm.LoanID,
			"payment_id", resp.ID,
			"reference", pm.Reference,
			"loan_status", resp.LoanStatus,
		)
		return nil
	}
}
