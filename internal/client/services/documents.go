package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
)

type DocumentService interface {
	List(ctx context.Context) ([]models.Document, error)
	Get(ctx context.Context, id int) (*models.Document, error)
	Upload(ctx context.Context, path, title, description string) (*models.Document, error)
	Delete(ctx context.Context, id int) error
}

type documentService struct {
	client client.Client
}

func NewDocumentService(c client.Client) DocumentService {
	return &documentService{client: c}
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	docs, err := s.client.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, id int) (*models.Document, error) {
	doc, err := s.client.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

// Upload sends the file at path. An empty title defaults to the file name
// without its extension.
func (s *documentService) Upload(ctx context.Context, path, title, description string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	doc, err := s.client.UploadDocument(ctx, client.UploadRequest{
		Filename:    name,
		Content:     f,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id int) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}
