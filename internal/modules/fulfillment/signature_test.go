package fulfillment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	sig := ComputeSignature([]byte(secret), now.Unix(), body)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)

	require.NoError(t, VerifySignature(secret, header, body, now))
}

func TestVerifySignatureMismatch(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	sig := ComputeSignature([]byte("other_secret"), now.Unix(), body)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)
	assert.ErrorIs(t, VerifySignature(secret, header, body, now), ErrBadSignature)

	// Tampered body.
	sig = ComputeSignature([]byte(secret), now.Unix(), body)
	header = fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)
	assert.ErrorIs(t, VerifySignature(secret, header, []byte(`{"id":"evt_2"}`), now), ErrBadSignature)
}

func TestVerifySignatureStale(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{}`)
	now := time.Now()

	old := now.Add(-6 * time.Minute)
	sig := ComputeSignature([]byte(secret), old.Unix(), body)
	header := fmt.Sprintf("t=%d,v1=%s", old.Unix(), sig)
	assert.ErrorIs(t, VerifySignature(secret, header, body, now), ErrStaleSignature)

	// Within tolerance, either direction.
	near := now.Add(-4 * time.Minute)
	sig = ComputeSignature([]byte(secret), near.Unix(), body)
	header = fmt.Sprintf("t=%d,v1=%s", near.Unix(), sig)
	assert.NoError(t, VerifySignature(secret, header, body, now))
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	now := time.Now()
	assert.ErrorIs(t, VerifySignature("s", "", nil, now), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature("s", "garbage", nil, now), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature("s", "t=123", nil, now), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature("s", "v1=abc", nil, now), ErrBadSignature)
}
