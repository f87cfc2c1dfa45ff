package bulk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/model"
	"github.com/handiism/social-transcriber/internal/provider"
	"github.com/handiism/social-transcriber/internal/thread"
)

// workDirPattern names the per-job scratch directory inside the target
// directory.
const workDirPattern = ".work-*"

// processJob runs the full pipeline for one video. Every failure ends up in
// the returned result; nothing escapes the worker.
func (m *Manager) processJob(ctx context.Context, job model.Job, total int, emit func(ProgressEvent)) (result model.JobResult) {
	start := time.Now()
	result.Job = job
	defer func() { result.Duration = time.Since(start) }()

	url := job.Video.URL
	log := logrus.WithFields(logrus.Fields{"url": url, "source": job.Source})

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	emit(ProgressEvent{Message: fmt.Sprintf("Processing video %d/%d: %s", job.Index+1, total, url), Level: LevelInfo})

	p, ok := m.deps.Registry.Resolve(url)
	if !ok {
		result.Err = errors.Errorf("no provider for %s", url)
		return result
	}

	meta, degraded := p.FetchMetadata(ctx, url).Resolve(url)
	if degraded {
		emit(ProgressEvent{Message: fmt.Sprintf("Could not fetch metadata for %s, using fallback name", url), Level: LevelWarning})
	}
	title := meta.Title
	if title == "" {
		title = job.Video.Title
	}

	dir := job.Context.Path(m.settings.OutputDir)
	if err := ioutils.EnsureDir(dir); err != nil {
		result.Err = err
		return result
	}

	work, err := os.MkdirTemp(dir, workDirPattern)
	if err != nil {
		result.Err = errors.Wrap(err, "creating work directory")
		return result
	}
	defer os.RemoveAll(work)

	text, err := m.acquireText(ctx, p, job, work, emit)
	if err != nil {
		log.WithError(err).Warn("Job failed")
		result.Err = err
		return result
	}

	body, ext := text, ".txt"
	if m.deps.Enhancer != nil {
		enhanced, err := m.deps.Enhancer.Enhance(ctx, displayTitle(title, meta.ID), text)
		if err != nil {
			emit(ProgressEvent{Message: fmt.Sprintf("Could not enhance transcript for %s, keeping raw text: %v", url, err), Level: LevelWarning})
			log.WithError(err).Warn("Enhancement failed")
		} else {
			body, ext = enhanced, ".mdx"
		}
	}

	path := m.claimPath(dir, model.TranscriptFileName(title, meta.ID, ext, m.now()))
	if err := ioutils.WriteTranscript(path, displayTitle(title, meta.ID), body); err != nil {
		result.Err = err
		return result
	}

	log.WithField("path", path).Debug("Transcript written")
	result.Path = path

	if m.settings.Threads {
		m.writeThread(path, displayTitle(title, meta.ID), text, emit)
	}
	return result
}

// writeThread stores the thread for a finished transcript. It is built
// from the raw text; a failure only warns since the transcript exists.
func (m *Manager) writeThread(transcriptPath, title, text string, emit func(ProgressEvent)) {
	threadPath := thread.PathFor(transcriptPath)
	if err := thread.Write(threadPath, thread.New(title, text)); err != nil {
		emit(ProgressEvent{Message: fmt.Sprintf("Could not write thread for %s: %v", transcriptPath, err), Level: LevelWarning})
		logrus.WithError(err).WithField("path", threadPath).Warn("Thread write failed")
		return
	}
	emit(ProgressEvent{Message: fmt.Sprintf("Thread saved to: %s", threadPath), Level: LevelVerbose})
}

// acquireText returns the transcript text, from the platform when allowed
// and available, otherwise by downloading and transcribing the audio.
func (m *Manager) acquireText(ctx context.Context, p provider.Provider, job model.Job, work string, emit func(ProgressEvent)) (string, error) {
	url := job.Video.URL

	if m.settings.PlatformTranscripts {
		if src, ok := p.(provider.TranscriptSource); ok {
			text, err := src.FetchTranscript(ctx, url, work)
			if err == nil {
				emit(ProgressEvent{Message: fmt.Sprintf("Using platform transcript for %s", url), Level: LevelVerbose})
				return text, nil
			}
			emit(ProgressEvent{Message: fmt.Sprintf("No platform transcript for %s, transcribing audio", url), Level: LevelVerbose})
		}
	}

	audio, err := m.fetchAudio(ctx, p, url, work, emit)
	if err != nil {
		return "", err
	}
	defer os.Remove(audio)

	return m.deps.Transcriber.Transcribe(ctx, audio, filepath.Join(work, "transcript.txt"), m.verbose)
}

func (m *Manager) fetchAudio(ctx context.Context, p provider.Provider, url, work string, emit func(ProgressEvent)) (string, error) {
	maxTries := m.settings.DownloadMaxRetries
	if maxTries < 1 {
		maxTries = 1
	}

	var (
		path string
		err  error
	)
	for tries := 0; tries < maxTries; tries++ {
		path, err = p.FetchAudio(ctx, url, work, "audio")
		if err == nil {
			return path, nil
		}
		if ctx.Err() != nil || tries+1 == maxTries {
			break
		}
		emit(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, maxTries, url), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}
	return "", errors.Wrap(err, "downloading audio")
}

// claimPath reserves a transcript path for this run. Two videos with the
// same title in one directory get " (2)", " (3)" suffixes; files left by
// earlier runs are overwritten.
func (m *Manager) claimPath(dir, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	unique := ioutils.UniqueName(stem, func(candidate string) bool {
		return m.claims[filepath.Join(dir, candidate+ext)]
	})
	path := filepath.Join(dir, unique+ext)
	m.claims[path] = true
	return path
}

// cleanupFailedDirs removes target directories that failed jobs left
// empty. It runs after the pool drained so no worker is still writing.
func (m *Manager) cleanupFailedDirs(results []model.JobResult) {
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Succeeded() {
			continue
		}
		dir := r.Job.Context.Path(m.settings.OutputDir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if _, err := ioutils.RemoveIfEmpty(dir); err != nil {
			logrus.WithError(err).WithField("dir", dir).Debug("Could not remove empty directory")
		}
	}
}

func displayTitle(title, id string) string {
	switch {
	case title != "":
		return title
	case id != "":
		return "Transcript " + id
	default:
		return "Transcript"
	}
}
