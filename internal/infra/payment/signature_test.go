package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{}`),
		[]byte(`{"eventType":"checkout.completed","object":{"id":"ch_1"}}`),
		[]byte("not json at all"),
		{},
	}
	for _, p := range payloads {
		if !VerifyWebhookSignature(p, "whsec_abc", sign(p, "whsec_abc")) {
			t.Errorf("valid signature rejected for %q", p)
		}
	}
}

func TestVerifyWebhookSignature_Rejections(t *testing.T) {
	body := []byte(`{"eventType":"subscription.paid"}`)
	good := sign(body, "whsec_abc")

	t.Run("empty signature", func(t *testing.T) {
		if VerifyWebhookSignature(body, "whsec_abc", "") {
			t.Fatal("empty signature accepted")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if VerifyWebhookSignature(body, "whsec_other", good) {
			t.Fatal("signature under different secret accepted")
		}
	})

	t.Run("mutated body", func(t *testing.T) {
		mutated := append([]byte{}, body...)
		mutated[0] ^= 0x01
		if VerifyWebhookSignature(mutated, "whsec_abc", good) {
			t.Fatal("mutated body accepted")
		}
	})

	t.Run("every nibble mutation of the signature", func(t *testing.T) {
		for i := 0; i < len(good); i++ {
			bad := []byte(good)
			if bad[i] == 'f' {
				bad[i] = '0'
			} else if bad[i] == '9' {
				bad[i] = 'a'
			} else {
				bad[i]++
			}
			if VerifyWebhookSignature(body, "whsec_abc", string(bad)) {
				t.Fatalf("mutated signature accepted at index %d", i)
			}
		}
	})

	t.Run("malformed signatures fail closed", func(t *testing.T) {
		for _, sig := range []string{
			"zz" + good[2:],  // non-hex
			good[:10],        // too short
			good + "ab",      // too long
			"deadbeef",       // wrong length, valid hex
			good[:len(good)-1] + "g",
		} {
			if VerifyWebhookSignature(body, "whsec_abc", sig) {
				t.Fatalf("malformed signature %q accepted", sig)
			}
		}
	})
}
