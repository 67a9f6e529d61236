package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"type":"identify","userId":"alice"}`))
	require.NoError(t, err)
	require.Equal(t, FrameIdentify, f.Type)
	require.Equal(t, "alice", f.UserID)
}

func TestParseFrame_Malformed(t *testing.T) {
	_, err := ParseFrame([]byte(`{not json`))
	require.Error(t, err)

	_, err = ParseFrame([]byte(`{"userId":"alice"}`))
	require.Error(t, err, "missing type must be rejected")
}

func TestParseFrame_TypingRoundTrip(t *testing.T) {
	raw := NewTypingStatusFrame("alice", true).Encode()
	f, err := ParseFrame(raw)
	require.NoError(t, err)
	require.Equal(t, FrameTypingStatus, f.Type)
	require.NotNil(t, f.IsTyping)
	require.True(t, *f.IsTyping)

	// isTyping:false survives encoding (pointer, not omitted zero value).
	raw = NewTypingStatusFrame("alice", false).Encode()
	f, err = ParseFrame(raw)
	require.NoError(t, err)
	require.NotNil(t, f.IsTyping)
	require.False(t, *f.IsTyping)
}

func TestValidKind(t *testing.T) {
	require.True(t, ValidKind(KindText))
	require.True(t, ValidKind(KindImage))
	require.True(t, ValidKind(KindAudio))
	require.False(t, ValidKind("video"))
	require.False(t, ValidKind(""))
}
