package audio

import (
	"bytes"
	"io"

	"github.com/gopxl/beep/v2/wav"
)

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error {
	return nil
}

// Duration returns the playback length in seconds of a WAV payload
// (frame count divided by sample rate), or nil when the container
// cannot be parsed.
func Duration(data []byte) *float64 {
	streamer, format, err := wav.Decode(nopCloser{bytes.NewReader(data)})

	if err != nil {
		return nil
	}

	defer streamer.Close()

	if format.SampleRate <= 0 {
		return nil
	}

	seconds := float64(streamer.Len()) / float64(format.SampleRate)

	return &seconds
}
