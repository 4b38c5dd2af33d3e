// Package documents stores uploaded files for the development backend and
// answers questions about them by keyword matching.
package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrEmptyUpload = errors.New("uploaded file is empty")

const (
	NoDocumentsAnswer = "No documents have been uploaded yet."
	NoMatchAnswer     = "I couldn't find anything about that in the uploaded documents."

	maxExcerpts   = 3
	minKeywordLen = 3
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add stores an upload. Text content is kept for querying; binary files
// are stored without content.
func (s *Service) Add(ctx context.Context, up Upload) (*Document, error) {
	if len(up.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	title := strings.TrimSpace(up.Title)
	if title == "" {
		base := filepath.Base(up.OriginalFilename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc := &Document{
		Title:            title,
		Description:      up.Description,
		Filename:         uuid.NewString() + filepath.Ext(up.OriginalFilename),
		OriginalFilename: up.OriginalFilename,
		ContentType:      up.ContentType,
		Size:             len(up.Data),
	}
	if utf8.Valid(up.Data) {
		doc.Content = string(up.Data)
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("error storing document: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Count is the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

type excerpt struct {
	title string
	line  string
	score int
}

// Answer returns the lines that best match the keywords of query, searching
// one document when documentID is non-zero and all of them otherwise.
func (s *Service) Answer(ctx context.Context, query string, documentID int) (string, error) {
	var docs []Document
	if documentID != 0 {
		d, err := s.repo.Get(ctx, documentID)
		if err != nil {
			return "", err
		}
		docs = []Document{*d}
	} else {
		all, err := s.repo.List(ctx)
		if err != nil {
			return "", err
		}
		docs = all
	}
	if len(docs) == 0 {
		return NoDocumentsAnswer, nil
	}

	keywords := keywordsOf(query)
	if len(keywords) == 0 {
		return NoMatchAnswer, nil
	}

	var found []excerpt
	for _, d := range docs {
		for _, line := range strings.Split(d.Content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lower := strings.ToLower(line)
			score := 0
			for _, k := range keywords {
				if strings.Contains(lower, k) {
					score++
				}
			}
			if score > 0 {
				found = append(found, excerpt{title: d.Title, line: line, score: score})
			}
		}
	}
	if len(found) == 0 {
		return NoMatchAnswer, nil
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].score > found[j].score })
	if len(found) > maxExcerpts {
		found = found[:maxExcerpts]
	}

	var b strings.Builder
	b.WriteString("Here is what I found:\n")
	for _, e := range found {
		fmt.Fprintf(&b, "\n- **%s**: %s", e.title, e.line)
	}
	return b.String(), nil
}

func keywordsOf(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) < minKeywordLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
