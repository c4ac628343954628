package waitlist

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const receiptIssuer = "waitlist-api"

// ReceiptClaims is the signed thank-you payload handed back after signup.
// Subject holds the normalised email.
type ReceiptClaims struct {
	Name           string `json:"name"`
	IsEarlyAdopter bool   `json:"early"`
	jwt.RegisteredClaims
}

// ReceiptIssuer signs and verifies short-lived HS256 receipts.
type ReceiptIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewReceiptIssuer generates a random secret when secret is empty. Receipts
// then do not survive a restart.
func NewReceiptIssuer(secret string, ttl time.Duration) (*ReceiptIssuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("receipt: generate secret: %w", err)
		}
	}
	if ttl <= 0 {
		return nil, errors.New("receipt: ttl must be positive")
	}

	return &ReceiptIssuer{secret: key, ttl: ttl, now: time.Now}, nil
}

func (ri *ReceiptIssuer) Issue(email, name string, isEarlyAdopter bool) (string, error) {
	now := ri.now()
	claims := ReceiptClaims{
		Name:           name,
		IsEarlyAdopter: isEarlyAdopter,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    receiptIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ri.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ri.secret)
	if err != nil {
		return "", fmt.Errorf("receipt: sign: %w", err)
	}
	return token, nil
}

// Parse verifies signature, issuer and expiry. Any failure wraps ErrInvalidReceipt.
func (ri *ReceiptIssuer) Parse(token string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return ri.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(receiptIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ri.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidReceipt)
	}

	return claims, nil
}
