package main

import (
	"path/filepath"
	"testing"

	"dtmapi/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteKeyPair(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "keys", "private.pem")
	pub := filepath.Join(dir, "keys", "public.pem")

	require.NoError(t, writeKeyPair(priv, pub, 2048, false))

	s, err := token.LoadSigner(priv, pub, "dtm")
	require.NoError(t, err)
	tok, err := s.ChannelToken("club")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	require.NoError(t, err)

	assert.Error(t, writeKeyPair(priv, pub, 2048, false), "existing keys are kept")
	assert.NoError(t, writeKeyPair(priv, pub, 2048, true))
}
