package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	configlibsql "stockwatch/lib/configutil/libsql"
	"stockwatch/lib/scrapers/pdp"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/monitor")

// ProductCheck is one product to monitor. The name is a display
// fallback for pages where no title can be extracted.
type ProductCheck struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

// Config is the full monitor config file (config.json5).
type Config struct {
	Products        []ProductCheck      `json:"products"`
	WebhookUrl      string              `json:"webhook_url"`
	Email           *EmailConfig        `json:"email"`
	NotifyAll       bool                `json:"notify_all"`
	IntervalMinutes int                 `json:"interval_minutes"`
	Fetch           FetchConfig         `json:"fetch"`
	State           configlibsql.Struct `json:"state"`
}

type Service struct {
	fetcher   Fetcher
	store     Store
	notifiers []Notifier
	notifyAll bool
}

func NewService(fetcher Fetcher, store Store, notifiers []Notifier, notifyAll bool) Service {
	return Service{
		fetcher:   fetcher,
		store:     store,
		notifiers: notifiers,
		notifyAll: notifyAll,
	}
}

// CheckAll runs one monitoring pass: fetch and parse every product,
// diff against the stored snapshot, persist the new snapshot, and
// notify on meaningful changes. A product that fails to fetch does
// not stop the pass; its error is joined into the returned error.
func (s Service) CheckAll(ctx context.Context, products []ProductCheck) ([]pdp.ProductStatus, error) {
	ctx, span := tracer.Start(ctx, "CheckAll")
	defer span.End()

	var statuses []pdp.ProductStatus
	var errList []error
	for _, product := range products {
		status, err := s.checkOne(ctx, product)
		if err != nil {
			slog.ErrorContext(ctx, "check failed", "url", product.Url, "err", err)
			errList = append(errList, err)
			continue
		}
		statuses = append(statuses, status)
	}

	return statuses, errors.Join(errList...)
}

func (s Service) checkOne(ctx context.Context, product ProductCheck) (pdp.ProductStatus, error) {
	ctx, span := tracer.Start(ctx, "checkOne")
	defer span.End()
	span.SetAttributes(attribute.String("url", product.Url))

	html, err := s.fetcher.HTML(ctx, product.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pdp.ProductStatus{}, err
	}

	status := pdp.ParseStatus(ctx, html, product.Name, product.Url)

	previous, found, err := s.store.Pull(ctx, product.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pdp.ProductStatus{}, err
	}

	err = s.store.Push(ctx, Snapshot{
		Url:       product.Url,
		InStock:   status.InStock,
		Price:     status.Price,
		Currency:  status.Currency,
		CheckedAt: time.Now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pdp.ProductStatus{}, err
	}

	if s.notifyAll || shouldNotify(status, previous, found) {
		message := FormatStatusMessage(status)
		for _, notifier := range s.notifiers {
			if err := notifier.Notify(ctx, message); err != nil {
				// delivery failures should not block the remaining
				// channels or fail the check itself
				slog.ErrorContext(ctx, "notify failed", "url", product.Url, "err", err)
				span.RecordError(err)
			}
		}
	}

	return status, nil
}

// shouldNotify reports whether the change between the previous and
// current snapshot is worth telling anyone about: the product just
// became purchasable, or its price moved while purchasable.
func shouldNotify(status pdp.ProductStatus, previous Snapshot, found bool) bool {
	inStock := status.InStock != nil && *status.InStock
	if !inStock {
		return false
	}

	wasInStock := found && previous.InStock != nil && *previous.InStock
	if !wasInStock {
		return true
	}

	return status.Price != "" && previous.Price != "" && status.Price != previous.Price
}
