package tools

import (
	"context"
	"encoding/json"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
)

type createEmailInput struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Folder  string `json:"folder"`
}

func (r *Registry) createEmailTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "create_email",
		Description: "Record an email message. New messages land unread in the inbox unless another folder is given.",
		InputSchema: objectSchema(map[string]any{
			"from":    stringProp("Sender address"),
			"to":      stringProp("Recipient address"),
			"subject": stringProp("Message subject"),
			"body":    stringProp("Message body"),
			"folder":  enumProp("Folder to file the message under", "inbox", "sent", "drafts", "spam", "archive"),
		}, "from", "subject"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input createEmailInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		email, err := r.store.CreateEmail(agentdesk.EmailCreate{
			From:    input.From,
			To:      input.To,
			Subject: input.Subject,
			Body:    input.Body,
			Folder:  input.Folder,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"email": email}, nil
	}
}

type listEmailsInput struct {
	Folder     string `json:"folder"`
	UnreadOnly bool   `json:"unreadOnly"`
}

func (r *Registry) listEmailsTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "list_emails",
		Description: "List emails, optionally restricted to a folder or to unread messages.",
		InputSchema: objectSchema(map[string]any{
			"folder":     enumProp("Only return messages in this folder", "inbox", "sent", "drafts", "spam", "archive"),
			"unreadOnly": boolProp("Only return unread messages"),
		}),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input listEmailsInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		emails := r.store.ListEmails(agentdesk.EmailFilter{
			Folder:     input.Folder,
			UnreadOnly: input.UnreadOnly,
		})
		return map[string]any{"emails": emails, "count": len(emails)}, nil
	}
}

type searchEmailsInput struct {
	Query string `json:"query"`
}

func (r *Registry) searchEmailsTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "search_emails",
		Description: "Search emails by keyword across sender, subject, and body (case-insensitive substring match).",
		InputSchema: objectSchema(map[string]any{
			"query": stringProp("Keyword to search for"),
		}, "query"),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input searchEmailsInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		emails := r.store.SearchEmails(input.Query)
		return map[string]any{"emails": emails, "count": len(emails), "query": input.Query}, nil
	}
}

type organizeEmailInput struct {
	EmailID string `json:"emailId"`
	Folder  string `json:"folder"`
}

func (r *Registry) organizeEmailTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "organize_email",
		Description: "Move an email to a folder.",
		InputSchema: objectSchema(map[string]any{
			"emailId": stringProp("Identifier of the message to move"),
			"folder":  enumProp("Destination folder", "inbox", "sent", "drafts", "spam", "archive"),
		}, "emailId", "folder"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input organizeEmailInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		email, err := r.store.OrganizeEmail(input.EmailID, input.Folder)
		if err != nil {
			return nil, err
		}
		return map[string]any{"email": email}, nil
	}
}

type markEmailReadInput struct {
	EmailID string `json:"emailId"`
}

func (r *Registry) markEmailReadTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "mark_email_read",
		Description: "Mark an email as read.",
		InputSchema: objectSchema(map[string]any{
			"emailId": stringProp("Identifier of the message to mark read"),
		}, "emailId"),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input markEmailReadInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		email, err := r.store.MarkEmailRead(input.EmailID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"email": email}, nil
	}
}

type draftReplyInput struct {
	EmailID string `json:"emailId"`
	Tone    string `json:"tone"`
}

func (r *Registry) draftReplyTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "draft_reply",
		Description: "Draft a reply to an email using a fixed template for the requested tone.",
		InputSchema: objectSchema(map[string]any{
			"emailId": stringProp("Identifier of the message to reply to"),
			"tone":    enumProp("Reply tone", "professional", "casual", "brief"),
		}, "emailId", "tone"),
		Annotations: readOnly(),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		var input draftReplyInput
		if err := decodeArgs(args, &input); err != nil {
			return nil, err
		}
		draft, err := r.store.DraftReply(input.EmailID, input.Tone)
		if err != nil {
			return nil, err
		}
		return map[string]any{"draft": draft}, nil
	}
}

func (r *Registry) filterSpamTool() (Descriptor, HandlerFunc) {
	descriptor := Descriptor{
		Name:        "filter_spam",
		Description: "Scan all messages outside the spam folder for known spam phrases; matches are flagged and moved to spam.",
		InputSchema: objectSchema(map[string]any{}),
	}
	return descriptor, func(ctx context.Context, args json.RawMessage) (map[string]any, error) {
		flagged, err := r.store.FilterSpam()
		if err != nil {
			return nil, err
		}
		if flagged == nil {
			flagged = []agentdesk.Email{}
		}
		return map[string]any{"flagged": flagged, "count": len(flagged)}, nil
	}
}
