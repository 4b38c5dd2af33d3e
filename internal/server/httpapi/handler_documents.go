package httpapi

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/server/documents"
	"github.com/dmitrijs2005/chatdesk/internal/server/images"
	"github.com/gofiber/fiber/v2"
)

var errDocumentNotFound = fiber.NewError(fiber.StatusNotFound, "Document not found")

func (s *Server) ListDocuments(c *fiber.Ctx) error {
	docs, err := s.docs.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocument(&docs[i], false))
	}
	return c.JSON(out)
}

func (s *Server) documentID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid document id")
	}
	return id, nil
}

func (s *Server) GetDocument(c *fiber.Ctx) error {
	id, err := s.documentID(c)
	if err != nil {
		return err
	}
	doc, err := s.docs.Get(c.UserContext(), id)
	if errors.Is(err, documents.ErrNotFound) {
		return errDocumentNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(toDocument(doc, true))
}

func (s *Server) DeleteDocument(c *fiber.Ctx) error {
	id, err := s.documentID(c)
	if err != nil {
		return err
	}
	err = s.docs.Delete(c.UserContext(), id)
	if errors.Is(err, documents.ErrNotFound) {
		return errDocumentNotFound
	}
	if err != nil {
		return err
	}
	s.logger.Info(c.UserContext(), "document deleted", "id", id, "by", currentUser(c).Username)
	return c.JSON(messageResponse{Message: "Document deleted successfully"})
}

// UploadDocument accepts a multipart form with "file" and optional "title"
// and "description" fields.
func (s *Server) UploadDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "File is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	doc, err := s.docs.Add(c.UserContext(), documents.Upload{
		Title:            c.FormValue("title"),
		Description:      c.FormValue("description"),
		OriginalFilename: fh.Filename,
		ContentType:      fh.Header.Get(fiber.HeaderContentType),
		Data:             data,
	})
	if errors.Is(err, documents.ErrEmptyUpload) {
		return fiber.NewError(fiber.StatusBadRequest, "Uploaded file is empty")
	}
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "document uploaded", "id", doc.ID, "file", doc.OriginalFilename, "size", doc.Size)
	return c.JSON(toDocument(doc, false))
}

func (s *Server) Query(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Query is required")
	}

	answer, err := s.docs.Answer(c.UserContext(), req.Query, req.DocumentID)
	if errors.Is(err, documents.ErrNotFound) {
		return errDocumentNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(queryResponse{Response: answer})
}

// GenerateImage is limited to the premium plan.
func (s *Server) GenerateImage(c *fiber.Ctx) error {
	if !currentUser(c).Plan.AllowsImages() {
		return fiber.NewError(fiber.StatusForbidden, "Image generation requires the premium plan")
	}

	var req imageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	img, err := s.images.Generate(req.Prompt)
	if errors.Is(err, images.ErrEmptyPrompt) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Prompt is required")
	}
	if err != nil {
		return err
	}

	return c.JSON(imageResponse{
		Filename:  img.Filename,
		ImageURL:  common.PathImages + img.Filename,
		ImageData: base64.StdEncoding.EncodeToString(img.Data),
	})
}

func (s *Server) GetImage(c *fiber.Ctx) error {
	data, err := s.images.Get(c.Params("name"))
	if errors.Is(err, images.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}
