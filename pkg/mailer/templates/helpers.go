package templates

import (
	"time"

	"github.com/oksasatya/go-realty-backend/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithActor(name string) Option { return func(d *EmailData) { d.ActorName = name } }

// NewBaseEmailData fills the company fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email, username, role string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, Welcome, name, email, opts...)
	d.Username = username
	d.Role = role
	return ToMap(d)
}

func NewCustomerAssignedData(cfg *config.Config, agentName, agentEmail, customerName, customerEmail string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, CustomerAssigned, agentName, agentEmail, opts...)
	d.CustomerName = customerName
	d.CustomerEmail = customerEmail
	return ToMap(d)
}

func NewPropertyStatusData(cfg *config.Config, agentName, agentEmail, title, oldStatus, newStatus string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, PropertyStatus, agentName, agentEmail, opts...)
	d.PropertyTitle = title
	d.OldStatus = oldStatus
	d.NewStatus = newStatus
	return ToMap(d)
}
