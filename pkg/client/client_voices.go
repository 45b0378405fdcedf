package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prossm/basic-web-tts/pkg/voice"
)

type VoiceService struct {
	Options []RequestOption
}

func NewVoiceService(opts ...RequestOption) VoiceService {
	return VoiceService{
		Options: opts,
	}
}

type Voice = voice.Voice

func (r *VoiceService) List(ctx context.Context, opts ...RequestOption) ([]Voice, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, err := c.newRequest(ctx, "GET", "/voices", nil)

	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var result []Voice

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}
