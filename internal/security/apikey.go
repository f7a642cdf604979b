package security

import (
	"golang.org/x/crypto/bcrypt"
)

// APIKeyVerifier checks service-to-service keys, such as the one the
// payment gateway presents on its webhook. Only the bcrypt hash is kept
// in configuration.
type APIKeyVerifier interface {
	Verify(key string) bool
}

type apiKeyVerifier struct {
	hash []byte
}

func NewAPIKeyVerifier(hash string) APIKeyVerifier {
	return &apiKeyVerifier{hash: []byte(hash)}
}

func (v *apiKeyVerifier) Verify(key string) bool {
	if len(v.hash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(key)) == nil
}

// HashAPIKey produces the bcrypt hash stored in configuration for a
// new key.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
