package ai

import (
	"strings"

	"github.com/poiesic/condensit/core"
)

// SummaryResult is the outcome of summarizing one batch.
type SummaryResult struct {
	// Text is the summary text.
	Text string

	// Degraded is true when Text was produced by the extractive fallback
	// rather than the AI backend.
	Degraded bool
}

// Response is a closed union of the response shapes known to come back
// from OpenAI-compatible backends. Exactly one concrete type matches each
// backend reply; extraction falls through the shapes deterministically
// instead of probing fields ad hoc.
type Response interface {
	isResponse()
}

// ContentResponse is a reply carrying the text in a bare content field.
type ContentResponse struct {
	Text string
}

func (ContentResponse) isResponse() {}

// ChoiceListResponse is a completion-style reply carrying one or more
// message-wrapped choices.
type ChoiceListResponse struct {
	Choices []Choice
}

func (ChoiceListResponse) isResponse() {}

// Choice is one completion choice in a ChoiceListResponse.
type Choice struct {
	Message ChoiceMessage
}

// ChoiceMessage is the message wrapper inside a completion choice.
type ChoiceMessage struct {
	Content string
}

// PlainTextResponse is a reply that is nothing but raw text.
type PlainTextResponse struct {
	Text string
}

func (PlainTextResponse) isResponse() {}

// ExtractText pulls the summary text out of a backend response.
// Shapes are tried in a fixed priority order: content field, first
// non-empty completion choice, plain text. A nil response or one with no
// usable text yields core.ErrMalformedResponse.
func ExtractText(resp Response) (string, error) {
	switch r := resp.(type) {
	case ContentResponse:
		if text := strings.TrimSpace(r.Text); text != "" {
			return text, nil
		}
	case ChoiceListResponse:
		for _, choice := range r.Choices {
			if text := strings.TrimSpace(choice.Message.Content); text != "" {
				return text, nil
			}
		}
	case PlainTextResponse:
		if text := strings.TrimSpace(r.Text); text != "" {
			return text, nil
		}
	}
	return "", core.ErrMalformedResponse
}
