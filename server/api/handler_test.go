package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prossm/basic-web-tts/config"
	"github.com/prossm/basic-web-tts/pkg/auth"
	"github.com/prossm/basic-web-tts/pkg/auth/header"
	blobmemory "github.com/prossm/basic-web-tts/pkg/blob/memory"
	"github.com/prossm/basic-web-tts/pkg/catalog"
	"github.com/prossm/basic-web-tts/pkg/client"
	"github.com/prossm/basic-web-tts/pkg/dashboard"
	recmemory "github.com/prossm/basic-web-tts/pkg/recording/memory"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"
	"github.com/prossm/basic-web-tts/pkg/voice"
	"github.com/prossm/basic-web-tts/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(ctx context.Context, text string, options *synthesizer.Options) (*synthesizer.Synthesis, error) {
	return &synthesizer.Synthesis{
		ID: voice.OutputIdentity(options.Voice, text),

		Content:     []byte("RIFFWAVEDATA"),
		ContentType: "audio/wav",

		Duration: client.Ptr(7.5),
	}, nil
}

// identityTransport impersonates a proxy that injects forwarded identity
// headers in front of the service.
type identityTransport struct {
	user  string
	email string
}

func (t identityTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())

	if t.user != "" {
		r.Header.Set("X-Forwarded-User", t.user)
	}

	if t.email != "" {
		r.Header.Set("X-Forwarded-Email", t.email)
	}

	return http.DefaultTransport.RoundTrip(r)
}

func testServer(t *testing.T) (*httptest.Server, *blobmemory.Store, *recmemory.Store) {
	storage := blobmemory.New()

	ctx := t.Context()

	require.NoError(t, storage.Put(ctx, "models/en_US-amy-medium.onnx", []byte("model-weights")))
	require.NoError(t, storage.Put(ctx, "models/en_US-amy-medium.onnx.json", []byte(`{"audio":{"sample_rate":22050}}`)))

	recordings := recmemory.New()

	authorizer, err := header.New()
	require.NoError(t, err)

	cfg := config.New()
	cfg.Authorizers = []auth.Provider{authorizer}
	cfg.Storage = storage
	cfg.Recordings = recordings
	cfg.Catalog = catalog.New(storage)
	cfg.Models = catalog.NewCache(storage, t.TempDir())
	cfg.Dashboard = dashboard.New(recordings)
	cfg.RegisterSynthesizer("piper", stubSynthesizer{})

	handler, err := api.New(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(handler.WithIdentity)
	handler.Attach(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server, storage, recordings
}

func TestVoices(t *testing.T) {
	server, _, _ := testServer(t)

	c := client.New(server.URL)

	voices, err := c.Voices.List(t.Context())
	require.NoError(t, err)

	require.Len(t, voices, 1)
	require.Equal(t, "en_US-amy-medium", voices[0].Name)
	require.Equal(t, "en_US", voices[0].Language)
	require.Equal(t, voice.DefaultDescription, voices[0].Description)
}

func TestSynthesizeUnknownVoice(t *testing.T) {
	server, _, recordings := testServer(t)

	c := client.New(server.URL)

	_, err := c.Syntheses.New(t.Context(), client.SynthesizeRequest{
		Text:  "hello world",
		Voice: "nonexistent-voice",
	})

	require.Error(t, err)

	// a failed synthesis leaves no trace in the history
	anonymous, err := recordings.ListAnonymous(t.Context())
	require.NoError(t, err)
	require.Empty(t, anonymous)
}

func TestSynthesizeAnonymous(t *testing.T) {
	server, storage, recordings := testServer(t)

	c := client.New(server.URL)

	result, err := c.Syntheses.New(t.Context(), client.SynthesizeRequest{
		Text:  "hello world",
		Voice: "en_US-amy-medium",
	})

	require.NoError(t, err)
	require.Equal(t, voice.OutputIdentity("en_US-amy-medium", "hello world"), result.ID)
	require.Equal(t, "/audio/"+result.ID+".wav", result.URL)
	require.NotNil(t, result.Duration)

	data, err := c.Syntheses.Audio(t.Context(), result.ID+".wav")
	require.NoError(t, err)
	require.Equal(t, []byte("RIFFWAVEDATA"), data)

	exists, err := storage.Exists(t.Context(), "audio/"+result.ID+".wav")
	require.NoError(t, err)
	require.True(t, exists)

	anonymous, err := recordings.ListAnonymous(t.Context())
	require.NoError(t, err)
	require.Len(t, anonymous, 1)

	rec := anonymous[0]
	require.Empty(t, rec.Owner)
	require.NotEqual(t, result.ID, rec.ID)
	require.Equal(t, "en_us-amy-medium", rec.VoiceLower)
	require.Equal(t, []string{"hello", "world"}, rec.TextWords)
}

func TestSynthesizeOwned(t *testing.T) {
	server, _, _ := testServer(t)

	httpClient := &http.Client{
		Transport: identityTransport{user: "user-1", email: "user1@example.com"},
	}

	c := client.New(server.URL, client.WithClient(httpClient))

	result, err := c.Syntheses.New(t.Context(), client.SynthesizeRequest{
		Text:  "owned synthesis",
		Voice: "en_US-amy-medium",
	})

	require.NoError(t, err)

	owned, err := c.Recordings.List(t.Context())
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, result.ID, owned[0].ID)

	// repeating the same text replaces the entry instead of duplicating it
	_, err = c.Syntheses.New(t.Context(), client.SynthesizeRequest{
		Text:  "owned synthesis",
		Voice: "en_US-amy-medium",
	})
	require.NoError(t, err)

	owned, err = c.Recordings.List(t.Context())
	require.NoError(t, err)
	require.Len(t, owned, 1)

	require.NoError(t, c.Recordings.Delete(t.Context(), result.ID))

	owned, err = c.Recordings.List(t.Context())
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestSynthesizeConcurrentIdentical(t *testing.T) {
	server, _, _ := testServer(t)

	httpClient := &http.Client{
		Transport: identityTransport{user: "user-1", email: "user1@example.com"},
	}

	c := client.New(server.URL, client.WithClient(httpClient))

	request := client.SynthesizeRequest{
		Text:  "concurrent synthesis",
		Voice: "en_US-amy-medium",
	}

	results := make([]*client.Synthesis, 4)

	var wg sync.WaitGroup

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result, err := c.Syntheses.New(t.Context(), request)
			require.NoError(t, err)

			results[i] = result
		}()
	}

	wg.Wait()

	// identical requests agree on one identity and each response is playable
	for _, result := range results {
		require.Equal(t, results[0].ID, result.ID)

		data, err := c.Syntheses.Audio(t.Context(), result.ID+".wav")
		require.NoError(t, err)
		require.NotEmpty(t, data)
	}

	// the owned partition collapses them into a single record
	owned, err := c.Recordings.List(t.Context())
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, results[0].ID, owned[0].ID)
}

func TestRecordingsRequireIdentity(t *testing.T) {
	server, _, _ := testServer(t)

	resp, err := http.Get(server.URL + "/recordings")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardAccess(t *testing.T) {
	server, _, recordings := testServer(t)

	resp, err := http.Get(server.URL + "/dashboard/recordings")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	httpClient := &http.Client{
		Transport: identityTransport{user: "admin-1", email: "admin@example.com"},
	}

	c := client.New(server.URL, client.WithClient(httpClient))

	// an identity without the superuser flag is rejected
	_, err = c.Syntheses.New(t.Context(), client.SynthesizeRequest{
		Text:  "dashboard seed",
		Voice: "en_US-amy-medium",
	})
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", server.URL+"/dashboard/recordings", nil)

	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	recordings.SetSuperuser("admin-1", true)

	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Recordings []dashboard.Entry    `json:"recordings"`
		Pagination dashboard.Pagination `json:"pagination"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Recordings, 1)
	require.Equal(t, "admin@example.com", result.Recordings[0].UserEmail)
	require.Equal(t, 1, result.Pagination.Page)
}

func TestSynthesizeValidation(t *testing.T) {
	server, _, _ := testServer(t)

	c := client.New(server.URL)

	_, err := c.Syntheses.New(t.Context(), client.SynthesizeRequest{Voice: "en_US-amy-medium"})
	require.Error(t, err)

	_, err = c.Syntheses.New(t.Context(), client.SynthesizeRequest{Text: "hello"})
	require.Error(t, err)
}
