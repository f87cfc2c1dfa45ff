package ioutils

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const combinedSuffix = "_combined"

// ThreadSuffix marks thread files (name.thread.txt). They are never treated
// as transcripts.
const ThreadSuffix = ".thread"

// Combine merges the transcripts of each channel or playlist folder in dir
// into one file per folder, written to dir/<folder>_combined.<ext>.
//
// With channel set only that folder is combined. Transcripts are the .txt
// and .mdx files below the folder, in path order. The output is .mdx when
// any input is .mdx. Folders without transcripts are skipped.
//
// Returns a mapping of folder name to combined file path.
func Combine(dir, channel string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	var folders []string
	if channel != "" {
		folder := filepath.Join(dir, channel)
		if fi, err := os.Stat(folder); err != nil || !fi.IsDir() {
			return nil, errors.Errorf("folder %q not found in %s", channel, dir)
		}
		folders = []string{channel}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", dir)
		}
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				folders = append(folders, e.Name())
			}
		}
		sort.Strings(folders)
	}

	combined := make(map[string]string)
	for _, folder := range folders {
		files, err := TranscriptFiles(filepath.Join(dir, folder))
		if err != nil {
			return combined, err
		}
		if len(files) == 0 {
			continue
		}

		ext := ".txt"
		for _, f := range files {
			if filepath.Ext(f) == ".mdx" {
				ext = ".mdx"
				break
			}
		}

		var buf bytes.Buffer
		for i, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return combined, errors.Wrapf(err, "reading %s", f)
			}
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(data)
			buf.WriteByte('\n')
		}

		out := filepath.Join(dir, folder+combinedSuffix+ext)
		if err := WriteFileAtomic(out, buf.Bytes()); err != nil {
			return combined, err
		}
		combined[folder] = out
	}

	return combined, nil
}

// TranscriptFiles lists the .txt and .mdx transcripts below root in path
// order, skipping combined outputs and thread files.
func TranscriptFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".txt" && ext != ".mdx" {
			return nil
		}
		stem := strings.TrimSuffix(d.Name(), ext)
		if strings.HasSuffix(stem, combinedSuffix) || strings.HasSuffix(stem, ThreadSuffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	sort.Strings(files)
	return files, nil
}
