package recording_test

import (
	"testing"

	"github.com/prossm/basic-web-tts/pkg/recording"
	"github.com/prossm/basic-web-tts/pkg/voice"

	"github.com/stretchr/testify/require"
)

func TestNewOwned(t *testing.T) {
	rec := recording.New("user-1", "en_US-amy-medium", "Hello World", "/audio/x.wav", nil)

	require.Equal(t, voice.OutputIdentity("en_US-amy-medium", "Hello World"), rec.ID)
	require.Equal(t, "en_us-amy-medium", rec.VoiceLower)
	require.Equal(t, []string{"hello", "world"}, rec.TextWords)
	require.Equal(t, "user-1", rec.Owner)
	require.False(t, rec.Anonymous)
	require.False(t, rec.Deleted)
	require.NotZero(t, rec.Created)
}

func TestNewAnonymous(t *testing.T) {
	a := recording.New("", "en_US-amy-medium", "hello world", "/audio/x.wav", nil)
	b := recording.New("", "en_US-amy-medium", "hello world", "/audio/x.wav", nil)

	require.True(t, a.Anonymous)
	require.Empty(t, a.Owner)

	// anonymous records never share a key
	require.NotEqual(t, a.ID, b.ID)
}
