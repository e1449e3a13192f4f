package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEMessageTextOnly(t *testing.T) {
	msg, err := buildMIMEMessage(Email{
		From:     "no-reply@printora.com",
		FromName: "Printora",
		To:       []string{"creator@example.com"},
		Subject:  "Your payout is on its way",
		TextBody: "Funds usually arrive within 3-5 business days.",
	}, "printora.com")
	require.NoError(t, err)

	assert.Contains(t, msg, "From: Printora <no-reply@printora.com>")
	assert.Contains(t, msg, "To: creator@example.com")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, msg, "Funds usually arrive")
	assert.Contains(t, msg, "Message-ID: <")
}

func TestBuildMIMEMessageMultipart(t *testing.T) {
	msg, err := buildMIMEMessage(Email{
		From:     "no-reply@printora.com",
		To:       []string{"a@example.com"},
		Subject:  "hi",
		TextBody: "plain",
		HTMLBody: "<p>rich</p>",
	}, "printora.com")
	require.NoError(t, err)

	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain; charset=utf-8")
	assert.Contains(t, msg, "text/html; charset=utf-8")
	assert.Contains(t, msg, "<p>rich</p>")
}

func TestBuildMIMEMessageValidation(t *testing.T) {
	_, err := buildMIMEMessage(Email{To: []string{"a@example.com"}, TextBody: "x"}, "d")
	assert.Error(t, err)

	_, err = buildMIMEMessage(Email{From: "a@example.com", TextBody: "x"}, "d")
	assert.Error(t, err)

	_, err = buildMIMEMessage(Email{From: "a@example.com", To: []string{"b@example.com"}}, "d")
	assert.Error(t, err)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "a@example.com", formatAddress("", "a@example.com"))
	assert.Equal(t, "Printora <a@example.com>", formatAddress("Printora", "a@example.com"))
	// Non-ascii names are RFC2047 encoded.
	assert.True(t, strings.HasPrefix(formatAddress("Prïntora", "a@example.com"), "=?utf-8?q?"))
}
