package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateVerify(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))

	token, exp, err := Generate(opts, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(opts.TTL), exp, 5*time.Second)

	userID, err := Verify(opts, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret-a")), "user-1")
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("secret-b")), token)
	require.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := Verify(DefaultOptions([]byte("test-secret")), "not-a-token")
	require.Error(t, err)
}

func TestGenerate_UnsupportedAlg(t *testing.T) {
	opts := Options{Secret: []byte("x"), Alg: "none"}
	_, _, err := Generate(opts, "user-1")
	require.Error(t, err)
}
