package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer handles Binance REST API authentication. It stores keys as
// []byte to allow memory wiping.
type Signer struct {
	apiKey    []byte
	secretKey []byte
}

// NewSigner creates a new signer.
func NewSigner(apiKey, secretKey string) *Signer {
	return &Signer{
		apiKey:    []byte(apiKey),
		secretKey: []byte(secretKey),
	}
}

// APIKey returns the key sent in the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return string(s.apiKey)
}

// Sign returns the hex-encoded HMAC-SHA256 signature of the request
// query string, as Binance's SIGNED endpoints require.
func (s *Signer) Sign(queryString string) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(queryString))
	return hex.EncodeToString(mac.Sum(nil))
}

// Wipe clears the keys from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	wipeSlice(s.apiKey)
	wipeSlice(s.secretKey)
}

func wipeSlice(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
