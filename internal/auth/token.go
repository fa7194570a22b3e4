package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and validates stateless session tokens of the
// form "userID:issuedAtEpochSeconds:signature", where the signature is
// an HMAC-SHA256 over "userID:issuedAtEpochSeconds" keyed by the
// server secret. Validation is a pure function of the token, the
// secret and the clock: there is no server-side session store.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

func (s *TokenService) Issue(userID uuid.UUID, issuedAt time.Time) string {
	payload := userID.String() + ":" + strconv.FormatInt(issuedAt.Unix(), 10)
	return payload + ":" + hex.EncodeToString(s.sign(payload))
}

// Validate returns the user id carried by a well-formed, correctly
// signed, unexpired token. Malformed input of any shape degrades to
// (uuid.Nil, false), never to a panic or an error.
func (s *TokenService) Validate(token string, now time.Time) (uuid.UUID, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return uuid.Nil, false
	}
	payload := parts[0] + ":" + parts[1]
	sig, err := hex.DecodeString(parts[2])
	if err != nil {
		return uuid.Nil, false
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return uuid.Nil, false
	}
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return uuid.Nil, false
	}
	if now.Unix() > issuedAt+int64(s.expiry.Seconds()) {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (s *TokenService) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
