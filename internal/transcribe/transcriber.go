package transcribe

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/handiism/social-transcriber/internal/command"
	"github.com/handiism/social-transcriber/internal/config"
)

// Stage names the step of the pipeline that failed.
type Stage string

const (
	StagePreprocessing Stage = "preprocessing"
	StageTranscribing  Stage = "transcribing"
)

// StageError carries the failing command and its stderr so callers can
// report what went wrong without re-running anything.
type StageError struct {
	Stage   Stage
	Message string
	Command string
	Stderr  string
	Err     error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// maxRecommendedSpeed is the multiplier above which quality noticeably
// degrades.
const maxRecommendedSpeed = 10

// Transcriber speeds audio up with ffmpeg and turns it into text with
// parakeet-mlx. A Transcriber is safe for concurrent use once configured.
type Transcriber struct {
	runner     command.Runner
	ffmpeg     string
	parakeet   string
	speed      float64
	sampleRate int
	channels   int
}

// New creates a Transcriber from settings.
func New(settings *config.Settings, runner command.Runner) *Transcriber {
	if runner == nil {
		runner = &command.ExecRunner{}
	}
	return &Transcriber{
		runner:     runner,
		ffmpeg:     settings.FFmpegPath,
		parakeet:   settings.ParakeetPath,
		speed:      settings.SpeedMultiplier,
		sampleRate: settings.SampleRate,
		channels:   settings.Channels,
	}
}

// SetSpeed changes the playback speed used before transcription. Call it
// before the Transcriber is shared between goroutines.
func (t *Transcriber) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return errors.Errorf("speed multiplier must be positive, got %v", multiplier)
	}
	if multiplier > maxRecommendedSpeed {
		logrus.WithField("speed", multiplier).Warn("Speed multiplier is very high and may affect quality")
	}
	t.speed = multiplier
	return nil
}

// Transcribe converts audioPath into a transcript at outputPath and returns
// its text. outputPath must end in ".txt". The intermediate WAV file lives in
// a temporary directory that is removed before Transcribe returns.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, outputPath string, verbose bool) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", errors.Wrapf(err, "audio file not found: %s", audioPath)
	}

	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outDir)
	}

	work, err := os.MkdirTemp("", "transcribe-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(work)

	processed := filepath.Join(work, "processed.wav")
	if err := t.preprocess(ctx, audioPath, processed); err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	args := []string{
		processed,
		"--output-format", "txt",
		"--output-dir", outDir,
		"--output-template", stem,
	}
	if verbose {
		args = append(args, "--verbose")
	}

	logrus.WithFields(logrus.Fields{
		"audio":  audioPath,
		"output": outputPath,
	}).Debug(command.Line(t.parakeet, args...))

	res, err := t.runner.Run(ctx, t.parakeet, args...)
	if err != nil {
		return "", &StageError{
			Stage:   StageTranscribing,
			Message: "parakeet-mlx exited with an error",
			Command: command.Line(t.parakeet, args...),
			Stderr:  res.Stderr,
			Err:     err,
		}
	}

	written := filepath.Join(outDir, stem+".txt")
	data, err := os.ReadFile(written)
	if err != nil {
		return "", &StageError{
			Stage:   StageTranscribing,
			Message: fmt.Sprintf("transcript %s was not created", written),
			Command: command.Line(t.parakeet, args...),
			Stderr:  res.Stderr,
			Err:     err,
		}
	}
	return strings.TrimSpace(string(data)), nil
}

func (t *Transcriber) preprocess(ctx context.Context, in, out string) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", in,
		"-vn",
		"-ac", strconv.Itoa(t.channels),
		"-ar", strconv.Itoa(t.sampleRate),
	}
	if filter := AtempoFilter(t.speed); filter != "" {
		args = append(args, "-filter:a", filter)
	}
	args = append(args, "-c:a", "pcm_s16le", out)

	logrus.WithField("speed", t.speed).Debug(command.Line(t.ffmpeg, args...))

	res, err := t.runner.Run(ctx, t.ffmpeg, args...)
	if err != nil {
		return &StageError{
			Stage:   StagePreprocessing,
			Message: "ffmpeg exited with an error",
			Command: command.Line(t.ffmpeg, args...),
			Stderr:  res.Stderr,
			Err:     err,
		}
	}
	if _, err := os.Stat(out); err != nil {
		return &StageError{
			Stage:   StagePreprocessing,
			Message: "processed audio was not created",
			Command: command.Line(t.ffmpeg, args...),
			Stderr:  res.Stderr,
			Err:     err,
		}
	}
	return nil
}

// AtempoFactors splits speed into ffmpeg atempo factors, each within
// [0.5, 2.0]. A speed of 1 needs no factor.
//
// Example:
//
//	AtempoFactors(3.0) // [2.0, 1.5]
//	AtempoFactors(0.3) // [0.5, 0.6]
func AtempoFactors(speed float64) []float64 {
	if speed <= 0 {
		return nil
	}
	var factors []float64
	for speed > 2.0 {
		factors = append(factors, 2.0)
		speed /= 2.0
	}
	for speed < 0.5 {
		factors = append(factors, 0.5)
		speed /= 0.5
	}
	if math.Abs(speed-1.0) > 1e-9 {
		factors = append(factors, speed)
	}
	return factors
}

// AtempoFilter renders AtempoFactors as an ffmpeg audio filter chain.
func AtempoFilter(speed float64) string {
	factors := AtempoFactors(speed)
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, "atempo="+formatFactor(f))
	}
	return strings.Join(parts, ",")
}

func formatFactor(f float64) string {
	s := strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
