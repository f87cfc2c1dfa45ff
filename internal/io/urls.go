package ioutils

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadURLs reads a URL list, skipping blank lines and "#" comments.
// A missing file yields an empty list.
func LoadURLs(path string) ([]string, error) {
	pf, err := OpenPendingFile(path)
	if err != nil {
		return nil, err
	}
	return pf.URLs(), nil
}

// SaveURLs atomically replaces path with one URL per line.
func SaveURLs(path string, urls []string) error {
	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// PendingFile is the persisted list of source URLs still waiting to be
// fully processed. Comments and blank lines are kept verbatim when the file
// is rewritten; only URL lines can be removed.
type PendingFile struct {
	path  string
	lines []string
}

// OpenPendingFile loads path. A missing file opens as empty.
func OpenPendingFile(path string) (*PendingFile, error) {
	pf := &PendingFile{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pf, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		pf.lines = append(pf.lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning %s", path)
	}
	return pf, nil
}

// Path returns the file location.
func (p *PendingFile) Path() string {
	return p.path
}

// URLs returns the URL lines in file order.
func (p *PendingFile) URLs() []string {
	var urls []string
	for _, line := range p.lines {
		if u, ok := urlLine(line); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

// Remove drops every URL line whose URL is in done and reports how many
// lines were removed.
func (p *PendingFile) Remove(done map[string]bool) int {
	if len(done) == 0 {
		return 0
	}
	kept := p.lines[:0]
	removed := 0
	for _, line := range p.lines {
		if u, ok := urlLine(line); ok && done[u] {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	p.lines = kept
	return removed
}

// Save rewrites the file atomically.
func (p *PendingFile) Save() error {
	var buf bytes.Buffer
	for _, line := range p.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return WriteFileAtomic(p.path, buf.Bytes())
}

func urlLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return trimmed, true
}
