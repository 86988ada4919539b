package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"russify/internal/domain"
	"russify/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxSize    = 10 * 1024 * 1024
	DefaultBaseDir    = "./uploads"
	DefaultStaticBase = "/static"
)

// Service stores inlined files on local disk and records them.
// Simple: decode -> detect type -> write file -> record in DB -> return URL.
type Service struct {
	repo       Repository
	baseDir    string
	staticBase string
	maxSize    int64
	log        *zap.Logger
}

func NewService(repo Repository, baseDir, staticBase string, maxSize int64, log *zap.Logger) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if staticBase == "" {
		staticBase = DefaultStaticBase
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		baseDir:    baseDir,
		staticBase: strings.TrimRight(staticBase, "/"),
		maxSize:    maxSize,
		log:        log,
	}
}

// MaxSize is the largest decoded file accepted.
func (s *Service) MaxSize() int64 { return s.maxSize }

// File is an inlined attachment as portal clients send it.
type File struct {
	Content string // base64, optionally as a data: URL
	Name    string
	Type    string // declared by the client
}

// SaveBase64 decodes f and stores it. With imageOnly set anything whose
// detected type is not image/* is refused.
func (s *Service) SaveBase64(ctx context.Context, userID int64, f File, imageOnly bool) (*domain.Upload, error) {
	data, err := s.Decode(f.Content)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, userID, f.Name, f.Type, data, imageOnly)
}

// Decode turns base64 (or a data: URL) into bytes, refusing payloads over
// the configured maximum. Exactly the maximum is accepted.
func (s *Service) Decode(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, ";base64,"); strings.HasPrefix(content, "data:") && i >= 0 {
		content = content[i+len(";base64,"):]
	}
	if content == "" {
		return nil, ErrEmptyFile
	}

	// DecodedLen overestimates by at most two padding bytes.
	if int64(base64.StdEncoding.DecodedLen(len(content)))-2 > s.maxSize {
		return nil, ErrFileTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// Save writes data under baseDir/YYYY/MM/DD and records it.
func (s *Service) Save(ctx context.Context, userID int64, name, declaredType string, data []byte, imageOnly bool) (*domain.Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if imageOnly && !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrInvalidMimeType
	}
	// Plain binaries carry no signature; keep what the client declared.
	if mimeType == "application/octet-stream" && declaredType != "" {
		mimeType = declaredType
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = detected.Extension()
	}
	if ext == "" {
		ext = ".bin"
	}
	filename := fmt.Sprintf("%s_%s%s", id, sanitizeName(name), ext)

	absPath := filepath.Join(absDir, filename)
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(relDir, filename))
	originalName := filepath.Base(strings.TrimSpace(name))
	if originalName == "." || originalName == "/" || originalName == "" {
		originalName = filename
	}

	upload := &domain.Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: originalName,
		FilePath:     relPath,
		FileURL:      s.staticBase + "/" + relPath,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	s.log.Debug("file stored",
		zap.String("upload_id", id),
		zap.String("mime_type", mimeType),
		zap.Int64("size", upload.Size),
	)
	return upload, nil
}

// Release removes a stored file and its record by public URL. URLs outside
// the static base, or without a matching record, are left alone.
func (s *Service) Release(ctx context.Context, fileURL string) error {
	rel, ok := strings.CutPrefix(fileURL, s.staticBase+"/")
	if !ok {
		return nil
	}
	id, _, ok := strings.Cut(path.Base(rel), "_")
	if !ok {
		return nil
	}

	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if upload.FileURL != fileURL {
		return nil
	}

	// file may already be gone
	_ = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(upload.FilePath)))

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("file released", zap.String("upload_id", id))
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." {
		return "file"
	}
	return name
}
