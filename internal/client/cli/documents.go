package cli

import (
	"context"
	"strconv"
	"strings"
)

func (a *App) Docs(ctx context.Context) error {
	docs, err := a.docService.List(ctx)
	if err != nil {
		a.report(ctx, err, "Failed to load documents")
		return err
	}
	a.render.Documents(docs, a.chat.Document())
	return nil
}

// Upload sends a file, prompting for an optional title and description.
func (a *App) Upload(ctx context.Context, path string) error {
	title, err := getSimpleText(a.reader, "Title (empty for file name)", a.out)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	doc, err := a.docService.Upload(ctx, path, title, description)
	if err != nil {
		a.report(ctx, err, "Upload failed")
		return err
	}
	a.render.Success("Uploaded %q as document #%d", doc.Title, doc.ID)
	return nil
}

func (a *App) ShowDoc(ctx context.Context, arg string) error {
	id, err := a.parseDocID(arg)
	if err != nil {
		return err
	}
	doc, err := a.docService.Get(ctx, id)
	if err != nil {
		a.report(ctx, err, "Failed to load document")
		return err
	}
	a.render.Document(doc)
	return nil
}

func (a *App) RemoveDoc(ctx context.Context, arg string) error {
	id, err := a.parseDocID(arg)
	if err != nil {
		return err
	}
	if err := a.docService.Delete(ctx, id); err != nil {
		a.report(ctx, err, "Failed to delete document")
		return err
	}
	if a.chat.Document() == id {
		a.chat.UseDocument(0)
	}
	a.render.Success("Document #%d deleted", id)
	return nil
}

// UseDoc selects the document questions are asked about; "all" clears it.
func (a *App) UseDoc(ctx context.Context, arg string) error {
	if strings.EqualFold(arg, "all") {
		a.chat.UseDocument(0)
		a.render.Success("Questions now search all documents")
		return nil
	}
	id, err := a.parseDocID(arg)
	if err != nil {
		return err
	}
	doc, err := a.docService.Get(ctx, id)
	if err != nil {
		a.report(ctx, err, "Failed to load document")
		return err
	}
	a.chat.UseDocument(doc.ID)
	a.render.Success("Questions now target #%d %s", doc.ID, doc.Title)
	return nil
}

func (a *App) parseDocID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		a.render.Error("Invalid document id %q", arg)
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return id, nil
}
