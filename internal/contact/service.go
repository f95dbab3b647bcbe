package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/fluxfolio/internal/assistant"
	"github.com/Zachkp/fluxfolio/internal/config"
	"github.com/Zachkp/fluxfolio/internal/notify"
)

var (
	ErrInvalidForm       = errors.New("contact: invalid form")
	ErrInFlight          = errors.New("contact: submission already in flight")
	ErrSubmitFailed      = errors.New("contact: submission failed")
	ErrAssistantDisabled = errors.New("contact: flow requires an assistant")
)

// Drafter is the AI side of the pipeline.
type Drafter interface {
	PrepareEmail(ctx context.Context, in assistant.PrepareEmailInput) (assistant.EmailDraft, error)
	SummarizeInquiry(ctx context.Context, description string) (string, error)
}

// Inquiry is a validated submission.
type Inquiry struct {
	ID         string
	Name       string
	Email      string
	Business   string
	ReceivedAt time.Time
}

// Options configures a Service.
type Options struct {
	// Flow is config.FlowDraft, config.FlowSummarize or config.FlowDirect.
	Flow       string
	Assistant  Drafter
	Mailer     notify.Mailer
	Appender   notify.Appender
	OwnerEmail string
	Logger     *zap.Logger
	Now        func() time.Time
}

// Service runs inquiry submissions.
type Service struct {
	flow       string
	assistant  Drafter
	mailer     notify.Mailer
	docs       notify.Appender
	ownerEmail string
	logger     *zap.Logger
	now        func() time.Time
	pending    *inflight
}

// NewService validates opts and returns a Service.
func NewService(opts Options) (*Service, error) {
	switch opts.Flow {
	case config.FlowDraft, config.FlowSummarize:
		if opts.Assistant == nil {
			return nil, fmt.Errorf("%w: %s", ErrAssistantDisabled, opts.Flow)
		}
	case config.FlowDirect:
	default:
		return nil, fmt.Errorf("contact: unknown flow %q", opts.Flow)
	}
	if opts.Mailer == nil || opts.Appender == nil {
		return nil, errors.New("contact: mailer and appender are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		flow:       opts.Flow,
		assistant:  opts.Assistant,
		mailer:     opts.Mailer,
		docs:       opts.Appender,
		ownerEmail: opts.OwnerEmail,
		logger:     opts.Logger,
		now:        opts.Now,
		pending:    newInflight(),
	}, nil
}

// Flow returns the active flow.
func (s *Service) Flow() string {
	return s.flow
}

// Pending reports whether clientKey has a submission in flight.
func (s *Service) Pending(clientKey string) bool {
	return s.pending.pending(clientKey)
}

// Submit validates the form and runs the configured flow. The returned state
// is always renderable; the error classifies failures for status codes.
func (s *Service) Submit(ctx context.Context, clientKey string, form DetailsForm) (FormState, error) {
	form.Normalize()
	if errs := ValidateDetails(form); errs != nil {
		st := failed(InvalidMessage)
		st.Errors = errs
		return st, ErrInvalidForm
	}

	if !s.pending.acquire(clientKey) {
		return failed(InFlightMessage), ErrInFlight
	}
	defer s.pending.release(clientKey)

	inq := Inquiry{
		ID:         uuid.NewString(),
		Name:       form.Name,
		Email:      form.Email,
		Business:   form.Business,
		ReceivedAt: s.now().UTC(),
	}
	log := s.logger.With(zap.String("inquiry_id", inq.ID), zap.String("flow", s.flow))
	log.Info("inquiry received", zap.Int("description_len", len(inq.Business)))

	var (
		st  FormState
		err error
	)
	switch s.flow {
	case config.FlowDraft:
		st, err = s.runDraft(ctx, inq)
	case config.FlowSummarize:
		st, err = s.runSummarize(ctx, inq)
	default:
		st, err = s.runDirect(ctx, inq)
	}
	if err != nil {
		log.Error("inquiry failed", zap.Error(err))
		return failed(FailureMessage), fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	log.Info("inquiry delivered")
	st.Status = StatusSuccess
	st.Message = SuccessMessage
	return st, nil
}

func (s *Service) runDraft(ctx context.Context, inq Inquiry) (FormState, error) {
	draft, err := s.assistant.PrepareEmail(ctx, assistant.PrepareEmailInput{
		ClientDetails: ClientDetails(inq),
		UserEmail:     s.ownerEmail,
	})
	if err != nil {
		return FormState{}, fmt.Errorf("prepare email: %w", err)
	}

	body := NotificationBody(inq, "") + "\nDraft reply:\n" + draft.Body + "\n"
	if err := s.deliver(ctx, inq, "", draft.Subject, body); err != nil {
		return FormState{}, err
	}
	return FormState{Draft: &draft}, nil
}

func (s *Service) runSummarize(ctx context.Context, inq Inquiry) (FormState, error) {
	summary, err := s.assistant.SummarizeInquiry(ctx, inq.Business)
	if err != nil {
		return FormState{}, fmt.Errorf("summarize inquiry: %w", err)
	}

	if err := s.deliver(ctx, inq, summary, "", NotificationBody(inq, summary)); err != nil {
		return FormState{}, err
	}
	return FormState{Summary: summary}, nil
}

func (s *Service) runDirect(ctx context.Context, inq Inquiry) (FormState, error) {
	if err := s.deliver(ctx, inq, "", "", NotificationBody(inq, "")); err != nil {
		return FormState{}, err
	}
	return FormState{}, nil
}

// deliver appends the record to the inquiry document and notifies the owner.
func (s *Service) deliver(ctx context.Context, inq Inquiry, summary, subject, body string) error {
	rec := notify.InquiryRecord{
		ID:         inq.ID,
		Name:       inq.Name,
		Email:      inq.Email,
		Business:   inq.Business,
		Summary:    summary,
		ReceivedAt: inq.ReceivedAt,
	}
	if err := s.docs.Append(ctx, rec); err != nil {
		return fmt.Errorf("append inquiry: %w", err)
	}

	if subject == "" {
		subject = "Portfolio Contact: " + inq.Name
	}
	msg := notify.Message{
		To:      s.ownerEmail,
		ReplyTo: inq.Email,
		Subject: subject,
		Body:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// ClientDetails is the inquiry as the drafting prompt receives it.
func ClientDetails(inq Inquiry) string {
	return fmt.Sprintf("Client Name: %s\nClient Email: %s\nMessage: %s", inq.Name, inq.Email, inq.Business)
}

// NotificationBody is the owner email header block: who wrote, and what.
func NotificationBody(inq Inquiry, summary string) string {
	body := fmt.Sprintf("New contact form submission from your portfolio:\n\nName: %s\nEmail: %s\n", inq.Name, inq.Email)
	if summary != "" {
		body += fmt.Sprintf("Summary: %s\n", summary)
	}
	body += fmt.Sprintf("Message:\n%s\n\n---\nSent from your portfolio contact form\n", inq.Business)
	return body
}
