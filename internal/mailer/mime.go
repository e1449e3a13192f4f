package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"strings"
	"time"
)

func formatAddress(name, addr string) string {
	// RFC2047: encode non-ascii display names
	if name == "" {
		return addr
	}
	encoded := mime.QEncoding.Encode("utf-8", name)
	return fmt.Sprintf("%s <%s>", encoded, addr)
}

func newMessageID(domain string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), hex.EncodeToString(b), domain)
}

func newBoundary() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "bnd_" + hex.EncodeToString(b)
}

// buildMIMEMessage renders the full raw message. Text-only, html-only
// and multipart/alternative are all supported.
func buildMIMEMessage(e Email, messageIDDomain string) (string, error) {
	if e.From == "" {
		return "", fmt.Errorf("mailer: From is required")
	}
	if len(e.To) == 0 {
		return "", fmt.Errorf("mailer: at least one To recipient is required")
	}
	if e.TextBody == "" && e.HTMLBody == "" {
		return "", fmt.Errorf("mailer: empty body")
	}

	var sb strings.Builder
	writeHeader := func(k, v string) {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\r\n")
	}

	writeHeader("From", formatAddress(e.FromName, e.From))
	writeHeader("To", strings.Join(e.To, ", "))
	if len(e.Cc) > 0 {
		writeHeader("Cc", strings.Join(e.Cc, ", "))
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("Message-ID", newMessageID(messageIDDomain))
	writeHeader("MIME-Version", "1.0")
	for k, v := range e.Headers {
		writeHeader(k, v)
	}

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		boundary := newBoundary()
		writeHeader("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		sb.WriteString("\r\n")

		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(e.TextBody)
		sb.WriteString("\r\n")

		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(e.HTMLBody)
		sb.WriteString("\r\n")

		sb.WriteString("--" + boundary + "--\r\n")

	case e.HTMLBody != "":
		writeHeader("Content-Type", "text/html; charset=utf-8")
		sb.WriteString("\r\n")
		sb.WriteString(e.HTMLBody)
		sb.WriteString("\r\n")

	default:
		writeHeader("Content-Type", "text/plain; charset=utf-8")
		sb.WriteString("\r\n")
		sb.WriteString(e.TextBody)
		sb.WriteString("\r\n")
	}

	return sb.String(), nil
}
