package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
)

// FileTreeSource reads a tree saved in the API node shape. The file may hold
// either a bare node or a full {"success":...,"data":...} response.
type FileTreeSource struct {
	Path string
}

func NewFileTreeSource(path string) *FileTreeSource {
	return &FileTreeSource{Path: path}
}

func (f *FileTreeSource) Describe() string { return f.Path }

func (f *FileTreeSource) LoadTree(ctx context.Context) (*domain.TreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading tree file: %w", err)
	}
	data, err := unwrapEnvelope(f.Path, raw)
	if err != nil {
		return nil, err
	}
	root, err := okrapi.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("tree file %s: %w", f.Path, err)
	}
	return root, nil
}

// unwrapEnvelope returns the data of a saved response, or raw when it is a
// bare node. A response saved with success=false is an *okrapi.APIError.
func unwrapEnvelope(path string, raw []byte) ([]byte, error) {
	var env struct {
		Data    json.RawMessage `json:"data"`
		Success *bool           `json:"success"`
		Message string          `json:"message"`
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, nil
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw, nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, &okrapi.APIError{Endpoint: path, Status: http.StatusOK, Message: msg}
	}
	if env.Data != nil || env.Success != nil {
		return env.Data, nil
	}
	return raw, nil
}
