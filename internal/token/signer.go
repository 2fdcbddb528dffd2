// Package token signs and verifies the RS256 JWTs handed to users,
// email recipients and partner channels.
package token

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind tags what a token may be used for.
type Kind string

const (
	KindAccess  Kind = "ACCESS_TOKEN"
	KindRefresh Kind = "REFRESH_TOKEN"
	KindVerify  Kind = "VERIFY_TOKEN"
	KindEmail   Kind = "EMAIL_TOKEN"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of every token issued by the API. Channel tokens
// only carry Type and Kind.
type Claims struct {
	UserID      string `json:"userId,omitempty"`
	Kind        Kind   `json:"kind"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	IsVerify    bool   `json:"isVerify,omitempty"`
	Type        string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Subject identifies the user a session or email token is issued for.
type Subject struct {
	UserID      string
	Email       string
	PhoneNumber string
	IsVerify    bool
}

// Signer issues and verifies RS256 tokens.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	now        func() time.Time
}

// NewSigner creates a Signer from a key pair.
func NewSigner(priv *rsa.PrivateKey, pub *rsa.PublicKey, issuer string) *Signer {
	return &Signer{privateKey: priv, publicKey: pub, issuer: issuer, now: time.Now}
}

// LoadSigner reads the PEM key pair from disk.
func LoadSigner(privPath, pubPath, issuer string) (*Signer, error) {
	priv, err := LoadPrivateKey(privPath)
	if err != nil {
		return nil, err
	}
	pub, err := LoadPublicKey(pubPath)
	if err != nil {
		return nil, err
	}
	return NewSigner(priv, pub, issuer), nil
}

// LoadPrivateKey accepts PKCS#8 ("PRIVATE KEY") and PKCS#1 ("RSA PRIVATE KEY") blocks.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("invalid PEM private key")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("not an RSA private key")
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
	}
}

// LoadPublicKey accepts PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") blocks.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("invalid PEM public key")
	}
	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("not an RSA public key")
		}
		return rsaPub, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
	}
}

// AccessToken signs a session token for sub valid for ttl.
func (s *Signer) AccessToken(sub Subject, ttl time.Duration) (string, time.Time, error) {
	return s.sessionToken(sub, KindAccess, ttl)
}

// RefreshToken signs a refresh token for sub valid for ttl.
func (s *Signer) RefreshToken(sub Subject, ttl time.Duration) (string, time.Time, error) {
	return s.sessionToken(sub, KindRefresh, ttl)
}

// EmailToken signs the token embedded in verification and reset links.
func (s *Signer) EmailToken(userID string, kind Kind, ttl time.Duration) (string, time.Time, error) {
	exp := s.now().Add(ttl)
	signed, err := s.sign(Claims{UserID: userID, Kind: kind}, userID, exp)
	return signed, exp, err
}

// ChannelToken signs a non-expiring partner key named after the channel.
func (s *Signer) ChannelToken(name string) (string, error) {
	return s.sign(Claims{Type: name, Kind: KindAccess}, name, time.Time{})
}

func (s *Signer) sessionToken(sub Subject, kind Kind, ttl time.Duration) (string, time.Time, error) {
	exp := s.now().Add(ttl)
	claims := Claims{
		UserID:      sub.UserID,
		Kind:        kind,
		Email:       sub.Email,
		PhoneNumber: sub.PhoneNumber,
		IsVerify:    sub.IsVerify,
	}
	signed, err := s.sign(claims, sub.UserID, exp)
	return signed, exp, err
}

func (s *Signer) sign(claims Claims, subject string, exp time.Time) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Issuer:   s.issuer,
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
