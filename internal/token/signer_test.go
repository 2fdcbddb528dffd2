package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewSigner(key, &key.PublicKey, "dtm")
}

func TestSigner_AccessTokenRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	sub := Subject{UserID: "u1", Email: "a@b.co", PhoneNumber: "0800", IsVerify: true}

	tok, exp, err := s.AccessToken(sub, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.True(t, claims.IsVerify)
	assert.Equal(t, "dtm", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestSigner_TokensIssuedTogetherDiffer(t *testing.T) {
	s := newTestSigner(t)
	sub := Subject{UserID: "u1"}

	a, _, err := s.RefreshToken(sub, time.Hour)
	require.NoError(t, err)
	b, _, err := s.RefreshToken(sub, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSigner_Expired(t *testing.T) {
	s := newTestSigner(t)
	tok, _, err := s.EmailToken("u1", KindVerify, time.Minute)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSigner_ChannelTokenHasNoExpiry(t *testing.T) {
	s := newTestSigner(t)
	tok, err := s.ChannelToken("speaker-club")
	require.NoError(t, err)

	claims, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "speaker-club", claims.Type)
	assert.Nil(t, claims.ExpiresAt)
}

func TestSigner_RejectsForeignKey(t *testing.T) {
	tok, _, err := newTestSigner(t).AccessToken(Subject{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = newTestSigner(t).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestSigner(t).Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoadSigner(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}), 0o600))
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o644))

	s, err := LoadSigner(privPath, pubPath, "dtm")
	require.NoError(t, err)
	tok, err := s.ChannelToken("x")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	require.NoError(t, err)

	pkcs1Path := filepath.Join(dir, "pkcs1.pem")
	require.NoError(t, os.WriteFile(pkcs1Path, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))
	_, err = LoadPrivateKey(pkcs1Path)
	require.NoError(t, err)

	_, err = LoadPublicKey(filepath.Join(dir, "missing.pem"))
	assert.Error(t, err)
}
