package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawMail = "From: Store <store@example.com>\r\n" +
	"To: pharmacy@example.com\r\n" +
	"Subject: Shortages today\r\n" +
	"Message-ID: <abc@example.com>\r\n" +
	"Date: Mon, 02 Feb 2026 09:30:00 +0300\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"باندول 5 شريط\r\n"

func TestMessageFromRaw(t *testing.T) {
	msg := messageFromRaw("g-1", []byte(rawMail), 0)

	assert.Equal(t, "gmail", msg.Provider)
	assert.Equal(t, "<abc@example.com>", msg.MessageID)
	assert.Equal(t, "Shortages today", msg.Subject)
	assert.Contains(t, msg.From, "store@example.com")
	assert.Equal(t, "2026-02-02T06:30:00Z", msg.ReceivedAt)
}

func TestMessageFromRawFallbacks(t *testing.T) {
	msg := messageFromRaw("g-2", []byte("Subject: x\r\n\r\nbody\r\n"), 1767225600000)

	assert.Equal(t, "g-2", msg.MessageID)
	assert.Equal(t, "2026-01-01T00:00:00Z", msg.ReceivedAt)
}

func TestDecodeBase64URL(t *testing.T) {
	raw := []byte(rawMail)

	got, err := decodeBase64URL(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = decodeBase64URL(base64.URLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = decodeBase64URL("!!!")
	assert.Error(t, err)
}
