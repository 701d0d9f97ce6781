package usecase

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

// DefaultDocumentMaxBytes límite por defecto de un documento (10 MiB).
const DefaultDocumentMaxBytes int64 = 10 << 20

const maxFilenameRunes = 120

// allowedDocumentTypes tipos de contenido aceptados para soportes (facturas, certificados, extractos).
var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"text/csv":        true,
	"text/plain":      true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

var documentCategories = map[string]bool{
	entity.DocumentCategoryInvoice:     true,
	entity.DocumentCategoryCertificate: true,
	entity.DocumentCategoryStatement:   true,
	entity.DocumentCategoryOther:       true,
}

// UploadDocumentInput archivo recibido por la capa HTTP.
type UploadDocumentInput struct {
	Filename    string
	ContentType string
	Category    string
	Size        int64
	Body        io.Reader
}

// DocumentUseCase gestiona los soportes del usuario: bytes en almacenamiento de objetos,
// metadatos en la base de datos.
type DocumentUseCase struct {
	repo     repository.DocumentRepository
	storage  ports.DocumentStorage
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso. maxBytes <= 0 usa DefaultDocumentMaxBytes.
func NewDocumentUseCase(repo repository.DocumentRepository, storage ports.DocumentStorage, maxBytes int64, log zerolog.Logger) *DocumentUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultDocumentMaxBytes
	}
	return &DocumentUseCase{
		repo:     repo,
		storage:  storage,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "documents").Logger(),
		now:      time.Now,
	}
}

// MaxBytes límite configurado, para que la capa HTTP pueda cortar antes de leer.
func (uc *DocumentUseCase) MaxBytes() int64 { return uc.maxBytes }

// Upload valida y almacena un documento.
func (uc *DocumentUseCase) Upload(ctx context.Context, userID string, in UploadDocumentInput) (*dto.DocumentResponse, error) {
	if in.Body == nil || in.Size <= 0 {
		return nil, &provision.ValidationError{Field: "file", Reason: "archivo vacío"}
	}
	if in.Size > uc.maxBytes {
		return nil, fmt.Errorf("%w: máximo %d bytes", domain.ErrDocumentTooLarge, uc.maxBytes)
	}
	filename := sanitizeFilename(in.Filename)
	contentType, ok := resolveContentType(in.ContentType, filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, in.ContentType)
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = entity.DocumentCategoryOther
	}
	if !documentCategories[category] {
		return nil, &provision.ValidationError{Field: "category", Reason: "categoría desconocida"}
	}

	doc := &entity.Document{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   in.Size,
		Category:    category,
		CreatedAt:   uc.now(),
	}
	doc.StorageKey = path.Join("users", userID, doc.ID, filename)

	// Se lee a lo sumo maxBytes+1 para no confiar en el tamaño declarado.
	body := io.LimitReader(in.Body, uc.maxBytes+1)
	if err := uc.storage.Put(ctx, doc.StorageKey, contentType, body, in.Size); err != nil {
		return nil, fmt.Errorf("almacenar documento: %w", err)
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		if delErr := uc.storage.Delete(ctx, doc.StorageKey); delErr != nil {
			uc.log.Error().Err(delErr).Str("key", doc.StorageKey).Msg("objeto huérfano tras fallo al guardar metadatos")
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("document_id", doc.ID).Int64("size", doc.SizeBytes).Msg("documento subido")
	return toDocumentResponse(doc), nil
}

// List devuelve una página de documentos del usuario, más recientes primero.
func (uc *DocumentUseCase) List(ctx context.Context, userID string, page dto.PageRequest) (*dto.DocumentListResponse, error) {
	page.DefaultPage()
	docs, err := uc.repo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.DocumentListResponse{
		Items: make([]dto.DocumentResponse, 0, len(docs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, d := range docs {
		out.Items = append(out.Items, *toDocumentResponse(d))
	}
	return out, nil
}

// Open devuelve los metadatos y el contenido del documento. El caller cierra el ReadCloser.
func (uc *DocumentUseCase) Open(ctx context.Context, userID, id string) (*dto.DocumentResponse, io.ReadCloser, error) {
	doc, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := uc.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("leer documento: %w", err)
	}
	return toDocumentResponse(doc), rc, nil
}

// Delete elimina metadatos y objeto. Si el objeto no se puede borrar queda registrado en el log.
func (uc *DocumentUseCase) Delete(ctx context.Context, userID, id string) error {
	doc, err := uc.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, doc.StorageKey); err != nil {
		uc.log.Error().Err(err).Str("key", doc.StorageKey).Msg("no se pudo borrar el objeto")
	}
	return nil
}

func (uc *DocumentUseCase) get(ctx context.Context, userID, id string) (*entity.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	doc, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// resolveContentType normaliza el tipo declarado; si no es aceptado, intenta por extensión.
func resolveContentType(declared, filename string) (string, bool) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && allowedDocumentTypes[mt] {
		return mt, true
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil && allowedDocumentTypes[mt] {
			return mt, true
		}
	}
	return "", false
}

// sanitizeFilename conserva solo el nombre base y caracteres seguros para una clave de objeto.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n >= maxFilenameRunes {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			continue
		}
		n++
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "documento"
	}
	return out
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
	}
}
