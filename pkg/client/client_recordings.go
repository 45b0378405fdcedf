package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prossm/basic-web-tts/pkg/recording"
)

type RecordingService struct {
	Options []RequestOption
}

func NewRecordingService(opts ...RequestOption) RecordingService {
	return RecordingService{
		Options: opts,
	}
}

type Recording = recording.Recording

func (r *RecordingService) List(ctx context.Context, opts ...RequestOption) ([]Recording, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, err := c.newRequest(ctx, "GET", "/recordings", nil)

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

	type recordingList struct {
		Recordings []Recording `json:"recordings"`
	}

	var result recordingList

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result.Recordings, nil
}

func (r *RecordingService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, err := c.newRequest(ctx, "DELETE", "/recordings/"+id, nil)

	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}

	return nil
}
