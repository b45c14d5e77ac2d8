package connectors

import (
	"context"

	"shortages/internal"
)

// MailConnector pulls raw messages from one mailbox label or folder.
type MailConnector interface {
	Provider() string
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}
