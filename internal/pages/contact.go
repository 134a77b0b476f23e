package pages

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/inbox"
)

const (
	// MessageMaxLength caps the contact message.
	MessageMaxLength = 500

	MsgInvalidEmail  = "Please enter a valid email address"
	msgContactThanks = "Thank you for your message! We'll get back to you soon."
	msgContactFailed = "Your message could not be sent. Please try again later."
)

var validate = validator.New()

// ContactResult acknowledges a sent message.
type ContactResult struct {
	Message string `json:"message"`
}

// Contact sends a message to the HarmonyCare team.
var Contact = register(&Definition{
	ID:       "contact",
	Title:    "Get in Touch",
	Subtitle: "Have questions? We're here to help you navigate your healthcare journey",
	Action:   "Send Message",
	Fields: form.Fields{
		{Key: "name", Label: "Full Name", Kind: form.Text, Help: "Enter your full name"},
		{Key: "email", Label: "Email Address", Kind: form.Text, Help: "Enter your email address"},
		{Key: "subject", Label: "Subject", Kind: form.Text, Help: "What is this regarding?"},
		{Key: "message", Label: "Message", Kind: form.Text, MaxLength: MessageMaxLength, Rows: 5, Help: "Tell us how we can help..."},
	},
	Check:   checkContact,
	Submit:  submitContact,
	Failure: func(error) string { return msgContactFailed },
})

func checkContact(s form.State, _ Submission) form.Errors {
	email := s.Get("email")
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return form.Errors{"email": MsgInvalidEmail}
	}
	return nil
}

func submitContact(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	var store inbox.Store = env.Inbox
	if store == nil {
		store = inbox.NewLogStore(env.logger())
	}
	err := store.Save(ctx, inbox.Message{
		Name:       s.Get("name"),
		Email:      s.Get("email"),
		Subject:    s.Get("subject"),
		Body:       s.Get("message"),
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return ContactResult{Message: msgContactThanks}, nil
}
