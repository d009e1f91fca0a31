package agentdesk

import (
	"fmt"
	"strings"
)

// spamIndicators are the fixed body substrings that mark a message as spam.
// Matching is a boolean OR over the lower-cased body.
var spamIndicators = []string{
	"click here",
	"winner",
	"congratulations",
	"free money",
	"act now",
}

// Reply tones and their fixed templates. No content is synthesized from the
// original message body; the subject is the only interpolated value.
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneBrief        = "brief"
)

var replyTemplates = map[string]string{
	ToneProfessional: "Dear %s,\n\nThank you for your message regarding \"%s\". I have reviewed it and will follow up with a detailed response shortly.\n\nBest regards",
	ToneCasual:       "Hey %s,\n\nThanks for reaching out about \"%s\"! I'll get back to you on this soon.\n\nCheers",
	ToneBrief:        "Hi %s, received your note on \"%s\" — will respond soon.",
}

type EmailCreate struct {
	From    string
	To      string
	Subject string
	Body    string
	Folder  string
}

type EmailFilter struct {
	Folder     string
	UnreadOnly bool
}

// ReplyDraft is the result of draft_reply: a template keyed by tone,
// addressed back to the original sender.
type ReplyDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Tone    string `json:"tone"`
}

// CreateEmail inserts a message. The folder defaults to the inbox; new
// messages arrive unread and unflagged.
func (s *Store) CreateEmail(in EmailCreate) (Email, error) {
	if in.From == "" {
		return Email{}, fmt.Errorf("%w: from is required", ErrInvalidInput)
	}
	if in.Subject == "" {
		return Email{}, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	folder := in.Folder
	if folder == "" {
		folder = EmailFolderInbox
	}
	if !validEmailFolder(folder) {
		return Email{}, fmt.Errorf("%w: folder %q", ErrInvalidInput, folder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := Email{
		ID:         s.ids.NewID(),
		From:       in.From,
		To:         in.To,
		Subject:    in.Subject,
		Body:       in.Body,
		Folder:     folder,
		ReceivedAt: s.now().UTC(),
	}
	s.emails[email.ID] = email
	if err := s.saveLocked(); err != nil {
		return Email{}, err
	}
	return email, nil
}

func (s *Store) GetEmail(id string) (Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.emails[id]
	if !ok {
		return Email{}, &NotFoundError{Entity: "Email"}
	}
	return email, nil
}

// OrganizeEmail moves a message to the given folder.
func (s *Store) OrganizeEmail(id, folder string) (Email, error) {
	if !validEmailFolder(folder) {
		return Email{}, fmt.Errorf("%w: folder %q", ErrInvalidInput, folder)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[id]
	if !ok {
		return Email{}, &NotFoundError{Entity: "Email"}
	}
	email.Folder = folder
	s.emails[id] = email
	if err := s.saveLocked(); err != nil {
		return Email{}, err
	}
	return email, nil
}

func (s *Store) MarkEmailRead(id string) (Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[id]
	if !ok {
		return Email{}, &NotFoundError{Entity: "Email"}
	}
	email.IsRead = true
	s.emails[id] = email
	if err := s.saveLocked(); err != nil {
		return Email{}, err
	}
	return email, nil
}

func (s *Store) ListEmails(f EmailFilter) []Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emails := make([]Email, 0, len(s.emails))
	for _, email := range s.emails {
		if f.Folder != "" && email.Folder != f.Folder {
			continue
		}
		if f.UnreadOnly && email.IsRead {
			continue
		}
		emails = append(emails, email)
	}
	sortEmails(emails)
	return emails
}

// SearchEmails matches the query against sender, subject, and body.
func (s *Store) SearchEmails(query string) []Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var emails []Email
	for _, email := range s.emails {
		if matchKeyword(query, email.From, email.Subject, email.Body) {
			emails = append(emails, email)
		}
	}
	sortEmails(emails)
	return emails
}

// DraftReply builds a reply to the given message from the tone's template.
func (s *Store) DraftReply(id, tone string) (ReplyDraft, error) {
	template, ok := replyTemplates[tone]
	if !ok {
		return ReplyDraft{}, fmt.Errorf("%w: tone %q", ErrInvalidInput, tone)
	}
	email, err := s.GetEmail(id)
	if err != nil {
		return ReplyDraft{}, err
	}
	subject := email.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return ReplyDraft{
		To:      email.From,
		Subject: subject,
		Body:    fmt.Sprintf(template, email.From, email.Subject),
		Tone:    tone,
	}, nil
}

// FilterSpam scans every message outside the spam folder for the fixed
// indicator substrings; matches are flagged and force-relocated to spam.
// It returns the messages flagged by this pass.
func (s *Store) FilterSpam() ([]Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var flagged []Email
	for id, email := range s.emails {
		if email.Folder == EmailFolderSpam {
			continue
		}
		body := strings.ToLower(email.Body)
		for _, indicator := range spamIndicators {
			if strings.Contains(body, indicator) {
				email.IsSpam = true
				email.Folder = EmailFolderSpam
				s.emails[id] = email
				flagged = append(flagged, email)
				break
			}
		}
	}
	if len(flagged) > 0 {
		if err := s.saveLocked(); err != nil {
			return nil, err
		}
	}
	sortEmails(flagged)
	return flagged, nil
}
