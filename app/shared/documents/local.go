package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONRenderer renders the context data as indented JSON. It stands in until
// a real PDF renderer is plugged behind the port; the payload carries every
// field a template needs.
type JSONRenderer struct{}

func (JSONRenderer) Render(_ context.Context, template TemplateRef, data any) ([]byte, error) {
	out, err := json.MarshalIndent(map[string]any{
		"template": string(template),
		"data":     data,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", template, err)
	}
	return out, nil
}

// DirStore persists rendered documents under a local directory and returns
// the relative name as the reference.
type DirStore struct {
	Root string
}

func (s DirStore) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store document %s: %w", name, err)
	}
	return name, nil
}
