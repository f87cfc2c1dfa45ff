package thread

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/model"
)

const (
	// MaxPostLength caps one post, in runes, including its final period.
	MaxPostLength = 250
	// MaxTopicLength caps the topic before "..." is appended, in runes.
	MaxTopicLength = 50
	// DefaultTopic is used when no line qualifies as a topic.
	DefaultTopic = "Video Transcript"
	// EmptyPost is the single post of a thread built from no text.
	EmptyPost = "No content to process"

	// topicScanLines is how many leading lines are considered for a topic.
	topicScanLines = 3
	// minTopicLength is the shortest line, in runes, accepted as a topic.
	minTopicLength = 21
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
	spaceRun    = regexp.MustCompile(`\s+`)
	fillers     = map[string]bool{"um": true, "uh": true, "so": true}
)

// Thread is a transcript cut into short posts under a topic line.
type Thread struct {
	Topic string
	Posts []string
}

// New builds a thread from transcript text. A non-empty title becomes the
// topic; otherwise the topic is picked from the text.
func New(title, text string) Thread {
	topic := capTopic(strings.TrimSpace(title))
	if topic == "" {
		topic = Topic(text)
	}
	return Thread{Topic: topic, Posts: Split(text)}
}

// Topic picks the first of the leading lines that is longer than 20 runes
// and does not open with a filler word (um, uh, so).
func Topic(text string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned == topicScanLines {
			break
		}
		scanned++
		if utf8.RuneCountInString(line) >= minTopicLength && !startsWithFiller(line) {
			return capTopic(line)
		}
	}
	return DefaultTopic
}

func startsWithFiller(line string) bool {
	first := strings.Fields(strings.ToLower(line))[0]
	return fillers[strings.TrimRight(first, ",.!?;:")]
}

func capTopic(s string) string {
	if utf8.RuneCountInString(s) <= MaxTopicLength {
		return s
	}
	return string([]rune(s)[:MaxTopicLength]) + "..."
}

// Split packs the sentences of text into posts of at most MaxPostLength
// runes. Sentences are joined with ". " and every post ends with a period.
// A sentence too long for one post is cut at word boundaries.
func Split(text string) []string {
	text = strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))

	var posts []string
	current := ""
	flush := func() {
		if current != "" {
			posts = append(posts, current+".")
			current = ""
		}
	}

	for _, sentence := range sentenceEnd.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, piece := range cutWords(sentence, MaxPostLength-1) {
			switch {
			case current == "":
				current = piece
			case runeLen(current)+2+runeLen(piece)+1 > MaxPostLength:
				flush()
				current = piece
			default:
				current += ". " + piece
			}
		}
	}
	flush()

	if len(posts) == 0 {
		return []string{EmptyPost}
	}
	return posts
}

// cutWords splits s into pieces of at most max runes, breaking between
// words. A single word longer than max is cut hard.
func cutWords(s string, max int) []string {
	if runeLen(s) <= max {
		return []string{s}
	}

	var pieces []string
	current := ""
	for _, word := range strings.Fields(s) {
		for runeLen(word) > max {
			if current != "" {
				pieces = append(pieces, current)
				current = ""
			}
			r := []rune(word)
			pieces = append(pieces, string(r[:max]))
			word = string(r[max:])
		}
		switch {
		case current == "":
			current = word
		case runeLen(current)+1+runeLen(word) > max:
			pieces = append(pieces, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		pieces = append(pieces, current)
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// String renders the thread file body.
func (t Thread) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", t.Topic)
	for i, post := range t.Posts {
		fmt.Fprintf(&b, "Thread %d:\n%s\n\n", i+1, post)
	}
	return b.String()
}

// FileName derives a thread file name from a topic.
func FileName(topic string) string {
	name := model.SanitizeFileName(strings.TrimSuffix(topic, "..."))
	name = strings.Trim(name, " ._")
	if name == "" {
		name = "thread"
	}
	return name + ioutils.ThreadSuffix + ".txt"
}

// PathFor returns the thread file that sits next to a transcript.
func PathFor(transcriptPath string) string {
	return strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath)) + ioutils.ThreadSuffix + ".txt"
}

// Write stores t at path atomically.
func Write(path string, t Thread) error {
	return ioutils.WriteFileAtomic(path, []byte(t.String()))
}

// FromFile builds a thread from a transcript file. A leading "# title"
// heading, as written by the transcriber, becomes the topic and is not
// part of the posts.
func FromFile(path string) (Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thread{}, errors.Wrapf(err, "reading transcript %s", path)
	}

	title, body := splitHeading(string(data))
	return New(title, body), nil
}

func splitHeading(text string) (title, body string) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(trimmed, "# ") {
		return "", text
	}
	heading, rest, _ := strings.Cut(trimmed, "\n")
	return strings.TrimSpace(strings.TrimPrefix(heading, "# ")), rest
}
