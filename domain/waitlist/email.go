package waitlist

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/akeren/waitlist-api/pkg/mailer"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	textTemplateName = "confirmation.txt.tmpl"
	htmlTemplateName = "confirmation.html.tmpl"
)

// Confirmation is everything the confirmation email needs. It is built from
// the signup result so the task never touches the database.
type Confirmation struct {
	Email          string
	Name           string
	Role           string
	IsEarlyAdopter bool
	IsNewUser      bool
	Position       int64
	TotalUsers     int64
}

type emailData struct {
	Confirmation
	ProductName string
}

// EmailRenderer turns a Confirmation into a multipart message. Templates are
// parsed once; rendering is safe for concurrent use.
type EmailRenderer struct {
	productName string
	text        *texttemplate.Template
	html        *htmltemplate.Template
}

func NewEmailRenderer(productName string) (*EmailRenderer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/"+textTemplateName)
	if err != nil {
		return nil, fmt.Errorf("email: parse text template: %w", err)
	}

	html, err := htmltemplate.ParseFS(templateFS, "templates/"+htmlTemplateName)
	if err != nil {
		return nil, fmt.Errorf("email: parse html template: %w", err)
	}

	return &EmailRenderer{productName: productName, text: text, html: html}, nil
}

func (r *EmailRenderer) Subject() string {
	return fmt.Sprintf("Welcome to the %s waitlist!", r.productName)
}

func (r *EmailRenderer) Render(c Confirmation) (*mailer.Message, error) {
	data := emailData{Confirmation: c, ProductName: r.productName}

	var text, html bytes.Buffer
	if err := r.text.ExecuteTemplate(&text, textTemplateName, data); err != nil {
		return nil, fmt.Errorf("email: render text: %w", err)
	}
	if err := r.html.ExecuteTemplate(&html, htmlTemplateName, data); err != nil {
		return nil, fmt.Errorf("email: render html: %w", err)
	}

	return &mailer.Message{
		To:      []string{c.Email},
		Subject: r.Subject(),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
