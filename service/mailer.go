package service

import (
	"context"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail/v2"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"github.com/hamropustak/pasal/utils"
)

// Mailer sends order notifications through the SMTP account saved in mail settings.
// Settings are read on every send so admin edits apply without a restart.
type Mailer struct {
	Settings store.SettingsStore
	EncKey   []byte // 32 bytes for decrypting the stored SMTP password; nil = stored in plaintext
	StoreURL string // base URL used for tracking links

	// send is swapped in tests.
	send func(d *mail.Dialer, m *mail.Message) error
}

func NewMailer(settings store.SettingsStore, encKey []byte, storeURL string) *Mailer {
	return &Mailer{
		Settings: settings,
		EncKey:   encKey,
		StoreURL: strings.TrimRight(storeURL, "/"),
		send:     func(d *mail.Dialer, m *mail.Message) error { return d.DialAndSend(m) },
	}
}

func (m *Mailer) OrderPlaced(ctx context.Context, o *models.Order) error {
	subject := "Order " + o.TrackingNumber + " received"
	return m.deliver(ctx, o.CustomerEmail, subject, m.placedBody(o))
}

func (m *Mailer) OrderCancelled(ctx context.Context, o *models.Order) error {
	subject := "Order " + o.TrackingNumber + " cancelled"
	body := fmt.Sprintf("Namaste %s,\n\nYour order %s has been cancelled.\nReason: %s\n\nHamro Pustak Pasal\n",
		o.CustomerName, o.TrackingNumber, o.CancellationReason)
	return m.deliver(ctx, o.CustomerEmail, subject, body)
}

func (m *Mailer) deliver(ctx context.Context, to, subject, body string) error {
	cfg, err := m.Settings.MailSettings(ctx)
	if err != nil {
		return fmt.Errorf("load mail settings: %w", err)
	}
	if !cfg.Usable() || to == "" {
		return nil
	}
	password := cfg.Password
	if len(m.EncKey) == 32 && password != "" {
		password, err = utils.Decrypt(password, m.EncKey)
		if err != nil {
			return fmt.Errorf("decrypt smtp password: %w", err)
		}
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, password)
	d.StartTLSPolicy = mail.OpportunisticStartTLS
	return m.send(d, msg)
}

func (m *Mailer) placedBody(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Namaste %s,\n\nThank you for your order. Your tracking number is %s.\n\n", o.CustomerName, o.TrackingNumber)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s (%s) @ Rs. %.2f\n", it.Quantity, it.Title, it.Format, it.Price)
	}
	fmt.Fprintf(&b, "\nSubtotal: Rs. %.2f\nShipping: Rs. %.2f\nTotal: Rs. %.2f\n", o.Subtotal, o.ShippingCost, o.Total)
	if m.StoreURL != "" {
		fmt.Fprintf(&b, "\nTrack your order: %s/track/%s\n", m.StoreURL, o.TrackingNumber)
	}
	b.WriteString("\nHamro Pustak Pasal\n")
	return b.String()
}
