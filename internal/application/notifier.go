package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/config"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/pkg/mailer"
	tpl "github.com/oksasatya/go-realty-backend/pkg/mailer/templates"
	"github.com/oksasatya/go-realty-backend/pkg/metrics"
)

// Property event kinds published on the property queue.
const (
	EventPropertyUpserted = "property.upserted"
	EventPropertyDeleted  = "property.deleted"
)

// PropertyEvent is the message consumed by the listing indexer.
type PropertyEvent struct {
	Kind       string           `json:"kind"`
	PropertyID string           `json:"property_id"`
	Property   *entity.Property `json:"property,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Notifier fans side effects out to RabbitMQ. Every method is best effort:
// failures are logged and never fail the request that triggered them.
type Notifier struct {
	Pub    Publisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Cfg: cfg, Logger: logger}
}

func (n *Notifier) mailOn() bool {
	return n != nil && n.Pub != nil && n.Cfg != nil && n.Cfg.MailSendEnabled
}
func (n *Notifier) eventsOn() bool {
	return n != nil && n.Pub != nil && n.Cfg != nil && n.Cfg.EventsEnabled
}

func (n *Notifier) publish(ctx context.Context, queue string, body any, fields logrus.Fields) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	err := n.Pub.PublishJSON(c, queue, body)
	metrics.RecordPublish(queue, err)
	if err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(fields).WithField("queue", queue).Warn("publish failed")
	}
}

func (n *Notifier) email(ctx context.Context, to string, template string, data map[string]any) {
	if !n.mailOn() || to == "" {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	n.publish(ctx, n.Cfg.RabbitMQEmailQueue, job, logrus.Fields{"template": template})
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if !n.mailOn() {
		return
	}
	n.email(ctx, u.Email, tpl.Welcome,
		tpl.NewWelcomeData(n.Cfg, fullName(u), u.Email, u.Username, string(u.Role), tpl.WithTime(time.Now())))
}

func (n *Notifier) CustomerAssigned(ctx context.Context, agent *entity.User, c *entity.Customer, actor string) {
	if !n.mailOn() {
		return
	}
	n.email(ctx, agent.Email, tpl.CustomerAssigned,
		tpl.NewCustomerAssignedData(n.Cfg, fullName(agent), agent.Email, c.FullName(), c.Email,
			tpl.WithTime(time.Now()), tpl.WithActor(actor)))
}

func (n *Notifier) PropertyStatusChanged(ctx context.Context, agent *entity.User, p *entity.Property, from entity.PropertyStatus, actor string) {
	if !n.mailOn() {
		return
	}
	n.email(ctx, agent.Email, tpl.PropertyStatus,
		tpl.NewPropertyStatusData(n.Cfg, fullName(agent), agent.Email, p.Title, string(from), string(p.Status),
			tpl.WithTime(time.Now()), tpl.WithActor(actor)))
}

func (n *Notifier) PropertyChanged(ctx context.Context, p *entity.Property) {
	if !n.eventsOn() {
		return
	}
	ev := PropertyEvent{Kind: EventPropertyUpserted, PropertyID: p.ID, Property: p, OccurredAt: time.Now().UTC()}
	if p.Status == entity.PropertyDeleted {
		ev = PropertyEvent{Kind: EventPropertyDeleted, PropertyID: p.ID, OccurredAt: time.Now().UTC()}
	}
	n.publish(ctx, n.Cfg.RabbitMQPropertyQueue, ev, logrus.Fields{"property_id": p.ID, "kind": ev.Kind})
}

func fullName(u *entity.User) string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
