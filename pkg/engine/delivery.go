package engine

import (
	"context"

	"github.com/amigos-cultura/solicitud/pkg/projection"
)

// Image carries one picture handed to a document renderer alongside the
// projected sections.
type Image struct {
	// Slot names the position the renderer should place the image in.
	Slot string

	// Filename is the original upload name, used for type sniffing fallbacks.
	Filename string

	Data []byte
}

// Attachment is a file delivered with a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message describes one outbound mail.
type Message struct {
	From        string
	FromName    string
	To          []string
	ReplyTo     string
	Subject     string
	Body        string
	Attachments []Attachment
}

// DocumentRenderer turns a projected document plus images into a rendered
// artifact such as a PDF or an HTML page.
type DocumentRenderer interface {
	Render(ctx context.Context, doc projection.Document, images []Image) ([]byte, error)
}

// Transport delivers messages to their recipients.
type Transport interface {
	Send(ctx context.Context, msgs ...Message) error
}
