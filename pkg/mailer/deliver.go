package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	tpl "github.com/oksasatya/go-realty-backend/pkg/mailer/templates"
)

// ErrBadJob marks jobs that will never succeed; workers drop them instead of requeueing.
var ErrBadJob = errors.New("bad email job")

type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver renders job (when it names a template) and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return errors.Join(ErrBadJob, errors.New("missing recipient"))
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = tpl.Render(job.Template, job.Data)
		if err != nil {
			return errors.Join(ErrBadJob, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return errors.Join(ErrBadJob, errors.New("empty message"))
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// DeliverJSON decodes a queued EmailJob and delivers it.
func DeliverJSON(ctx context.Context, s Sender, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return errors.Join(ErrBadJob, err)
	}
	return Deliver(ctx, s, job)
}
