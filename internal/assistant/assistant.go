// Package assistant drafts and summarizes contact inquiries with a
// generative-AI model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyCompletion is returned when the model answers with nothing usable.
var ErrEmptyCompletion = errors.New("assistant: empty completion")

// PrepareEmailInput carries the client's request and the address the draft
// is written for.
type PrepareEmailInput struct {
	ClientDetails string
	UserEmail     string
}

// EmailDraft is a prepared email for review.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"emailDraft"`
}

// Request is one completion call.
type Request struct {
	Prompt string
	// Schema requests a JSON response matching it. Nil means plain text.
	Schema *genai.Schema
}

// Generator performs a single text completion.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Assistant turns inquiries into drafts and summaries.
type Assistant struct {
	gen      Generator
	timeout  time.Duration
	logger   *zap.Logger
	stripper *bluemonday.Policy
}

// New wraps a Generator. A zero timeout leaves the caller's deadline alone.
func New(gen Generator, timeout time.Duration, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		gen:      gen,
		timeout:  timeout,
		logger:   logger,
		stripper: bluemonday.StrictPolicy(),
	}
}

var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subject":    {Type: genai.TypeString, Description: "A concise and relevant subject for the email."},
		"emailDraft": {Type: genai.TypeString, Description: "The prepared email draft for user review."},
	},
	Required: []string{"subject", "emailDraft"},
}

// PrepareEmail asks the model for an email draft answering the client.
func (a *Assistant) PrepareEmail(ctx context.Context, in PrepareEmailInput) (EmailDraft, error) {
	prompt := fmt.Sprintf(prepareEmailPrompt, a.clean(in.ClientDetails), a.clean(in.UserEmail))

	raw, err := a.generate(ctx, Request{Prompt: prompt, Schema: draftSchema})
	if err != nil {
		return EmailDraft{}, err
	}

	var draft EmailDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return EmailDraft{}, fmt.Errorf("decode email draft: %w", err)
	}
	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Body = strings.TrimSpace(draft.Body)
	if draft.Body == "" {
		return EmailDraft{}, ErrEmptyCompletion
	}
	return draft, nil
}

// SummarizeInquiry condenses a business description into one sentence.
func (a *Assistant) SummarizeInquiry(ctx context.Context, description string) (string, error) {
	prompt := fmt.Sprintf(summarizePrompt, a.clean(description))

	raw, err := a.generate(ctx, Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	summary := FirstSentence(raw)
	if summary == "" {
		return "", ErrEmptyCompletion
	}
	return summary, nil
}

func (a *Assistant) generate(ctx context.Context, req Request) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := a.gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	a.logger.Debug("completion finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(out)),
		zap.Bool("json", req.Schema != nil))

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

// clean strips markup from user text before it reaches a prompt.
func (a *Assistant) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(a.stripper.Sanitize(s)))
}

// FirstSentence returns s up to and including its first sentence terminator,
// or its first line when there is none. A period closing an abbreviation
// ("Dr.", "e.g.", "J.") does not end the sentence.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			if i+1 < len(s) && s[i+1] != ' ' {
				continue
			}
			if s[i] == '.' && abbreviation(s[:i]) {
				continue
			}
			return s[:i+1]
		}
	}
	return s
}

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "approx": true,
}

// abbreviation reports whether the word ending prefix is an abbreviation.
func abbreviation(prefix string) bool {
	word := prefix[strings.LastIndexByte(prefix, ' ')+1:]
	if word == "" {
		return false
	}
	if strings.Contains(word, ".") {
		return true
	}
	if len(word) == 1 && unicode.IsLetter(rune(word[0])) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
