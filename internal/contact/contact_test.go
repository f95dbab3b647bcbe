package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/Zachkp/fluxfolio/internal/assistant"
	"github.com/Zachkp/fluxfolio/internal/config"
	"github.com/Zachkp/fluxfolio/internal/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeDrafter struct {
	draft   assistant.EmailDraft
	summary string
	err     error
	calls   int
	block   chan struct{}
	started chan struct{}
	lastIn  assistant.PrepareEmailInput
	mu      sync.Mutex
}

func (f *fakeDrafter) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeDrafter) PrepareEmail(_ context.Context, in assistant.PrepareEmailInput) (assistant.EmailDraft, error) {
	f.mu.Lock()
	f.calls++
	f.lastIn = in
	f.mu.Unlock()
	f.wait()
	return f.draft, f.err
}

func (f *fakeDrafter) SummarizeInquiry(context.Context, string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.wait()
	return f.summary, f.err
}

type recordingMailer struct {
	sent []notify.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingAppender struct {
	records []notify.InquiryRecord
	err     error
}

func (a *recordingAppender) Append(_ context.Context, rec notify.InquiryRecord) error {
	a.records = append(a.records, rec)
	return a.err
}

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, flow string, d Drafter) (*Service, *recordingMailer, *recordingAppender) {
	t.Helper()
	mailer := &recordingMailer{}
	docs := &recordingAppender{}
	svc, err := NewService(Options{
		Flow:       flow,
		Assistant:  d,
		Mailer:     mailer,
		Appender:   docs,
		OwnerEmail: "owner@example.com",
		Logger:     zaptest.NewLogger(t),
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, mailer, docs
}

func validForm() DetailsForm {
	return DetailsForm{
		Business: "  I need an online store for my bakery.  ",
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
	}
}

func TestValidateDescribeRejectsShortDescriptions(t *testing.T) {
	errs := ValidateDescribe(DescribeForm{Business: "too short"})
	require.NotNil(t, errs)
	assert.Equal(t, "Please describe your project in at least 10 characters.", errs.First("business"))

	errs = ValidateDescribe(DescribeForm{Business: "   short    "})
	assert.NotNil(t, errs)

	errs = ValidateDescribe(DescribeForm{Business: ""})
	assert.Equal(t, "Please describe your project.", errs.First("business"))

	assert.Nil(t, ValidateDescribe(DescribeForm{Business: "A ten char"}))
	assert.NotNil(t, ValidateDescribe(DescribeForm{Business: strings.Repeat("x", MaxDescriptionLength+1)}))
}

func TestValidateDetails(t *testing.T) {
	assert.Nil(t, ValidateDetails(validForm()))

	f := validForm()
	f.Email = "not-an-email"
	f.Name = "A"
	errs := ValidateDetails(f)
	assert.Equal(t, "A valid email is required.", errs.First("email"))
	assert.Equal(t, "Name must be at least 2 characters.", errs.First("name"))
	assert.Empty(t, errs.First("business"))
}

func TestSubmitDraftFlowSucceeds(t *testing.T) {
	d := &fakeDrafter{draft: assistant.EmailDraft{Subject: "Your bakery store", Body: "Hi Ada"}}
	svc, mailer, docs := newTestService(t, config.FlowDraft, d)

	st, err := svc.Submit(context.Background(), "client-1", validForm())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, SuccessMessage, st.Message)
	require.NotNil(t, st.Draft)
	assert.Equal(t, "Hi Ada", st.Draft.Body)
	assert.Empty(t, st.Errors)

	assert.Equal(t, 1, d.calls)
	assert.Contains(t, d.lastIn.ClientDetails, "Client Name: Ada Lovelace")
	assert.Contains(t, d.lastIn.ClientDetails, "Message: I need an online store for my bakery.")
	assert.Equal(t, "owner@example.com", d.lastIn.UserEmail)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Your bakery store", mailer.sent[0].Subject)
	assert.Equal(t, "ada@example.com", mailer.sent[0].ReplyTo)
	assert.Contains(t, mailer.sent[0].Body, "Name: Ada Lovelace")
	assert.Contains(t, mailer.sent[0].Body, "Email: ada@example.com")
	assert.Contains(t, mailer.sent[0].Body, "I need an online store for my bakery.")
	assert.Contains(t, mailer.sent[0].Body, "Draft reply:\nHi Ada")
	require.Len(t, docs.records, 1)
	assert.Equal(t, fixedNow, docs.records[0].ReceivedAt)
	assert.NotEmpty(t, docs.records[0].ID)
	assert.False(t, svc.Pending("client-1"))
}

func TestSubmitSummarizeFlow(t *testing.T) {
	d := &fakeDrafter{summary: "Wants a bakery storefront."}
	svc, mailer, docs := newTestService(t, config.FlowSummarize, d)

	st, err := svc.Submit(context.Background(), "c", validForm())
	require.NoError(t, err)
	assert.Equal(t, "Wants a bakery storefront.", st.Summary)
	assert.Nil(t, st.Draft)

	require.Len(t, docs.records, 1)
	assert.Equal(t, "Wants a bakery storefront.", docs.records[0].Summary)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Portfolio Contact: Ada Lovelace", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "Summary: Wants a bakery storefront.")
}

func TestSubmitDirectFlowNeedsNoAssistant(t *testing.T) {
	svc, mailer, docs := newTestService(t, config.FlowDirect, nil)

	st, err := svc.Submit(context.Background(), "c", validForm())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Len(t, mailer.sent, 1)
	assert.Len(t, docs.records, 1)
	assert.NotContains(t, mailer.sent[0].Body, "Summary:")
}

func TestSubmitInvalidEmailMakesNoCalls(t *testing.T) {
	d := &fakeDrafter{}
	svc, mailer, docs := newTestService(t, config.FlowDraft, d)

	f := validForm()
	f.Email = "ada@"
	st, err := svc.Submit(context.Background(), "c", f)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, InvalidMessage, st.Message)
	assert.Contains(t, st.Errors, "email")

	assert.Zero(t, d.calls)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, docs.records)
}

func TestSubmitAIFailureIsGeneric(t *testing.T) {
	d := &fakeDrafter{err: errors.New("503 from model")}
	svc, mailer, _ := newTestService(t, config.FlowDraft, d)

	st, err := svc.Submit(context.Background(), "c", validForm())
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, FailureMessage, st.Message)
	assert.NotContains(t, st.Message, "503")
	assert.Empty(t, mailer.sent)
	assert.False(t, svc.Pending("c"))
}

func TestSubmitCollaboratorFailure(t *testing.T) {
	svc, mailer, _ := newTestService(t, config.FlowDirect, nil)
	mailer.err = errors.New("smtp down")

	st, err := svc.Submit(context.Background(), "c", validForm())
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, FailureMessage, st.Message)
}

func TestSubmitRejectsConcurrentFromSameClient(t *testing.T) {
	d := &fakeDrafter{
		draft:   assistant.EmailDraft{Body: "ok"},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	svc, _, _ := newTestService(t, config.FlowDraft, d)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "same", validForm())
		done <- err
	}()
	<-d.started
	assert.True(t, svc.Pending("same"))

	st, err := svc.Submit(context.Background(), "same", validForm())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, InFlightMessage, st.Message)

	close(d.block)
	require.NoError(t, <-done)
	assert.False(t, svc.Pending("same"))

	d.started = nil
	_, err = svc.Submit(context.Background(), "same", validForm())
	assert.NoError(t, err)
}

func TestNewServiceRequiresAssistantForAIFlows(t *testing.T) {
	_, err := NewService(Options{Flow: config.FlowDraft, Mailer: &recordingMailer{}, Appender: &recordingAppender{}})
	assert.ErrorIs(t, err, ErrAssistantDisabled)

	_, err = NewService(Options{Flow: "bogus", Mailer: &recordingMailer{}, Appender: &recordingAppender{}})
	assert.Error(t, err)

	_, err = NewService(Options{Flow: config.FlowDirect})
	assert.Error(t, err)
}
