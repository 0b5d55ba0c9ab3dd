package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var errBadCookie = errors.New("malformed or tampered cookie value")

// signValue produces "value.signature" where the signature is an
// HMAC-SHA256 of the value under the session-signing secret
func signValue(secret []byte, value string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return value + "." + sig
}

// verifyValue checks the signature and returns the embedded value
func verifyValue(secret []byte, signed string) (string, error) {
	idx := strings.LastIndexByte(signed, '.')
	if idx <= 0 {
		return "", errBadCookie
	}

	value, sig := signed[:idx], signed[idx+1:]
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", errBadCookie
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", errBadCookie
	}
	return value, nil
}
