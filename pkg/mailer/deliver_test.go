package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/go-realty-backend/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	out []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, sent{to, subject, text, html})
	return nil
}

func TestDeliverRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	job := EmailJob{To: "ayse@agency.com", Template: tpl.Welcome, Data: map[string]any{"Name": "Ayse", "CompanyName": "Deniz"}}
	require.NoError(t, Deliver(context.Background(), s, job))
	require.Len(t, s.out, 1)
	assert.Equal(t, "Welcome to Deniz, Ayse", s.out[0].subject)
	assert.NotEmpty(t, s.out[0].html)
}

func TestDeliverRejectsBadJobs(t *testing.T) {
	s := &fakeSender{}
	assert.ErrorIs(t, Deliver(context.Background(), s, EmailJob{Subject: "x", Text: "y"}), ErrBadJob)
	assert.ErrorIs(t, Deliver(context.Background(), s, EmailJob{To: "a@b.c", Template: "nope"}), ErrBadJob)
	assert.ErrorIs(t, Deliver(context.Background(), s, EmailJob{To: "a@b.c"}), ErrBadJob)
	assert.Empty(t, s.out)
}

func TestDeliverPassesSenderError(t *testing.T) {
	boom := errors.New("mailgun down")
	err := Deliver(context.Background(), &fakeSender{err: boom}, EmailJob{To: "a@b.c", Subject: "s", Text: "t"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrBadJob)
}

func TestDeliverJSON(t *testing.T) {
	s := &fakeSender{}
	require.NoError(t, DeliverJSON(context.Background(), s, []byte(`{"to":"a@b.c","subject":"hi","text":"there"}`)))
	require.Len(t, s.out, 1)
	assert.Equal(t, "hi", s.out[0].subject)

	assert.ErrorIs(t, DeliverJSON(context.Background(), s, []byte(`{not json`)), ErrBadJob)
}
