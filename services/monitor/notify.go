package monitor

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"stockwatch/lib/scrapers/pdp"
	"stockwatch/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/jordan-wright/email"
)

// FormatStatusMessage renders the four-line human readable message
// consumed by notification channels:
//
//	<name>
//	Availability: in stock|out of stock|unknown
//	Price: <price> <currency>|unknown
//	<url>
func FormatStatusMessage(status pdp.ProductStatus) string {
	availability := "unknown"
	if status.InStock != nil {
		if *status.InStock {
			availability = "in stock"
		} else {
			availability = "out of stock"
		}
	}

	price := "unknown"
	if status.Price != "" {
		price = status.Price
		if status.Currency != "" {
			price = fmt.Sprintf("%s %s", status.Price, status.Currency)
		}
	}

	return fmt.Sprintf(
		"%s\nAvailability: %s\nPrice: %s\n%s",
		status.Name, availability, price, status.URL,
	)
}

// Notifier delivers one rendered status message to some channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type DiscordNotifier struct {
	webhookUrl string
	client     *resty.Client
}

func NewDiscordNotifier(webhookUrl string) DiscordNotifier {
	client := resty.New()
	client.SetTimeout(time.Second * 20)
	telemetry.InstrumentResty(client, "monitor/discord")

	return DiscordNotifier{
		webhookUrl: webhookUrl,
		client:     client,
	}
}

func (n DiscordNotifier) Notify(ctx context.Context, message string) error {
	res, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": message}).
		Post(n.webhookUrl)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("discord webhook: %s", res.Status())
	}
	return nil
}

// EmailConfig is the optional email section of the monitor config.
type EmailConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

type EmailNotifier struct {
	config EmailConfig
}

func NewEmailNotifier(config EmailConfig) EmailNotifier {
	return EmailNotifier{config: config}
}

func (n EmailNotifier) Notify(ctx context.Context, message string) error {
	e := email.NewEmail()
	e.From = n.config.From
	e.To = n.config.To
	e.Subject = "stockwatch update"
	e.Text = []byte(message)

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	return e.Send(addr, smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host))
}
