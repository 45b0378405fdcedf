package piper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/audio"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"
	"github.com/prossm/basic-web-tts/pkg/text"
	"github.com/prossm/basic-web-tts/pkg/voice"
)

var _ synthesizer.Synthesizer = (*Engine)(nil)

var (
	ErrExecutableNotFound = errors.New("piper executable not found")

	ErrTextMissing  = errors.New("text is required")
	ErrModelMissing = errors.New("staged model is required")
)

// SynthesisError is a failed piper run, carrying the diagnostic output the
// process wrote before exiting.
type SynthesisError struct {
	Reason string
	Output string
}

func (e *SynthesisError) Error() string {
	if e.Output == "" {
		return "piper: " + e.Reason
	}

	return "piper: " + e.Reason + ": " + e.Output
}

type Engine struct {
	path       string
	outputDir  string
	espeakData string
}

type Option func(*Engine)

// WithPath pins the piper executable instead of searching install locations.
func WithPath(path string) Option {
	return func(e *Engine) {
		e.path = path
	}
}

func WithEspeakData(path string) Option {
	return func(e *Engine) {
		e.espeakData = path
	}
}

func New(outputDir string, options ...Option) (*Engine, error) {
	e := &Engine{
		outputDir: outputDir,
	}

	for _, option := range options {
		option(e)
	}

	if e.outputDir == "" {
		e.outputDir = filepath.Join(os.TempDir(), "basic-web-tts")
	}

	if e.espeakData == "" {
		e.espeakData = "/usr/share/espeak-ng-data"
	}

	return e, nil
}

// Executable searches the fixed list of install locations and returns the
// first executable regular file.
func Executable() (string, error) {
	home, _ := os.UserHomeDir()
	workdir, _ := os.Getwd()

	candidates := []string{
		filepath.Join(home, "bin", "piper"),
		"/usr/local/bin/piper",
		"/opt/homebrew/bin/piper",
		"/usr/bin/piper",
		"/app/piper",
		filepath.Join(workdir, "piper", "build", "piper"),
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)

		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if info.Mode().Perm()&0o111 == 0 {
			continue
		}

		return candidate, nil
	}

	return "", ErrExecutableNotFound
}

func (e *Engine) executable() (string, error) {
	if e.path != "" {
		return e.path, nil
	}

	return Executable()
}

func (e *Engine) Synthesize(ctx context.Context, input string, options *synthesizer.Options) (*synthesizer.Synthesis, error) {
	if options == nil {
		options = new(synthesizer.Options)
	}

	if strings.TrimSpace(input) == "" {
		return nil, ErrTextMissing
	}

	if options.Model == nil {
		return nil, ErrModelMissing
	}

	exe, err := e.executable()

	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	identity := voice.OutputIdentity(options.Voice, input)
	output := filepath.Join(e.outputDir, identity+".wav")

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, exe,
		"--model", options.Model.ModelPath,
		"--output_file", output,
		"--espeak-data", e.espeakData,
	)

	cmd.Stdin = strings.NewReader(text.Normalize(input))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &SynthesisError{
			Reason: err.Error(),
			Output: strings.TrimSpace(stderr.String()),
		}
	}

	// a clean exit does not prove piper produced audio
	data, err := os.ReadFile(output)

	if err != nil || len(data) == 0 {
		return nil, &SynthesisError{
			Reason: "no output file produced",
			Output: strings.TrimSpace(stderr.String()),
		}
	}

	return &synthesizer.Synthesis{
		ID: identity,

		Content:     data,
		ContentType: "audio/wav",

		Duration: audio.Duration(data),
	}, nil
}
