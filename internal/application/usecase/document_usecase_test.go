package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
	"github.com/jhoicas/Provisiona-api/internal/domain"
)

func upload(name, contentType, category string, body []byte) usecase.UploadDocumentInput {
	return usecase.UploadDocumentInput{
		Filename: name, ContentType: contentType, Category: category,
		Size: int64(len(body)), Body: bytes.NewReader(body),
	}
}

func TestDocumentUseCase_UploadOpenDelete(t *testing.T) {
	ctx := context.Background()
	repo, store := newMemDocuments(), newMemStorage()
	uc := usecase.NewDocumentUseCase(repo, store, 0, zerolog.Nop())
	assert.Equal(t, usecase.DefaultDocumentMaxBytes, uc.MaxBytes())

	doc, err := uc.Upload(ctx, userID, upload(`C:\facturas\Factura marzo.pdf`, "application/pdf; charset=binary", "Invoice", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, "Factura_marzo.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "invoice", doc.Category)

	key := "users/" + userID + "/" + doc.ID + "/Factura_marzo.pdf"
	assert.Contains(t, store.objects, key)

	meta, rc, err := uc.Open(ctx, userID, doc.ID)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))
	assert.Equal(t, doc.ID, meta.ID)

	_, _, err = uc.Open(ctx, "otro-usuario", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, userID, doc.ID))
	assert.NotContains(t, store.objects, key)
	assert.ErrorIs(t, uc.Delete(ctx, userID, doc.ID), domain.ErrNotFound)
}

func TestDocumentUseCase_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewDocumentUseCase(newMemDocuments(), newMemStorage(), 16, zerolog.Nop())

	_, err := uc.Upload(ctx, userID, upload("grande.pdf", "application/pdf", "", bytes.Repeat([]byte("a"), 17)))
	assert.ErrorIs(t, err, domain.ErrDocumentTooLarge)

	_, err = uc.Upload(ctx, userID, upload("script.sh", "application/x-sh", "", []byte("echo")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)

	_, err = uc.Upload(ctx, userID, upload("vacio.pdf", "application/pdf", "", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, userID, upload("a.pdf", "application/pdf", "recibo", []byte("x")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.Open(ctx, userID, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentUseCase_TipoPorExtension(t *testing.T) {
	uc := usecase.NewDocumentUseCase(newMemDocuments(), newMemStorage(), 0, zerolog.Nop())

	doc, err := uc.Upload(context.Background(), userID, upload("foto.png", "application/octet-stream", "", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "image/png", doc.ContentType)
	assert.Equal(t, "other", doc.Category)
}

func TestDocumentUseCase_FalloDeMetadatosLimpiaObjeto(t *testing.T) {
	repo, store := newMemDocuments(), newMemStorage()
	repo.fail = errors.New("db caída")
	uc := usecase.NewDocumentUseCase(repo, store, 0, zerolog.Nop())

	_, err := uc.Upload(context.Background(), userID, upload("a.csv", "text/csv", "", []byte("a,b")))
	require.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestDocumentUseCase_List(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewDocumentUseCase(newMemDocuments(), newMemStorage(), 0, zerolog.Nop())
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := uc.Upload(ctx, userID, upload(name, "text/plain", "", []byte(strings.ToUpper(name))))
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, userID, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page.Limit)

	page, err = uc.List(ctx, userID, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
