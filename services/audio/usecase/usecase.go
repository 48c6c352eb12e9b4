package usecase

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/callsight/backend/pkg/gen"
	"github.com/callsight/backend/services/audio/consts"
)

var allowedExtensions = map[string]struct{}{
	consts.FormatWAV: {},
	consts.FormatMP3: {},
	consts.FormatM4A: {},
}

type Usecase interface {
	SaveUpload(filename string, r io.Reader) (string, error)
}

type usecase struct {
	uploadDir string
	ids       gen.UUIDGenerator
}

func New(uploadDir string, ids gen.UUIDGenerator) (Usecase, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &usecase{
		uploadDir: uploadDir,
		ids:       ids,
	}, nil
}

// SaveUpload validates the extension and size cap, then writes the file
// under a fresh uuid name. Transcoding to the ASR collaborator's
// preferred format is the collaborator's job, not ours.
func (u *usecase) SaveUpload(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported audio format %q", ext)
	}

	path := filepath.Join(u.uploadDir, u.ids.Next().String()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, consts.MaxUploadSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if written > consts.MaxUploadSize {
		os.Remove(path)
		return "", fmt.Errorf("file exceeds %d bytes", consts.MaxUploadSize)
	}

	return path, nil
}
