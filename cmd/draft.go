package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/fluxfolio/internal/assistant"
	"github.com/Zachkp/fluxfolio/internal/config"
	"github.com/Zachkp/fluxfolio/internal/contact"
	"github.com/Zachkp/fluxfolio/internal/logging"
)

// DraftCmd returns the draft subcommand
func DraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <description>",
		Short: "Draft a reply to a project description",
		Long:  "Run a project description through the AI assistant exactly as the contact form would, without sending anything.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDraft,
	}

	cmd.Flags().String("name", "", "Client name")
	cmd.Flags().String("email", "", "Client email")
	cmd.Flags().Bool("summary", false, "Print a one-line summary instead of a draft")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	summaryOnly, _ := cmd.Flags().GetBool("summary")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	form := contact.DetailsForm{Business: strings.Join(args, " "), Name: name, Email: email}
	form.Normalize()
	if errs := contact.ValidateDetails(form); errs != nil {
		var msgs []string
		for _, field := range []string{"business", "name", "email"} {
			if msg := errs.First(field); msg != "" {
				msgs = append(msgs, field+": "+msg)
			}
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.AssistantEnabled() {
		return errors.New("GEMINI_API_KEY is not set")
	}

	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen, err := assistant.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	asst := assistant.New(gen, cfg.Gemini.Timeout, logger)
	out := cmd.OutOrStdout()

	if summaryOnly {
		summary, err := asst.SummarizeInquiry(ctx, form.Business)
		if err != nil {
			return err
		}
		if jsonOutput {
			return json.NewEncoder(out).Encode(map[string]string{"summary": summary})
		}
		_, err = fmt.Fprintln(out, summary)
		return err
	}

	inq := contact.Inquiry{Name: form.Name, Email: form.Email, Business: form.Business, ReceivedAt: time.Now().UTC()}
	draft, err := asst.PrepareEmail(ctx, assistant.PrepareEmailInput{
		ClientDetails: contact.ClientDetails(inq),
		UserEmail:     cfg.Contact.OwnerEmail,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(draft)
	}
	_, err = fmt.Fprintf(out, "Subject: %s\n\n%s\n", draft.Subject, draft.Body)
	return err
}
