// Package documents defines the rendering and storage ports for standing
// documents (OSS, SA, variance reports). Rendering and storage live outside
// the core; the core only supplies template references and context data.
package documents

import "context"

// TemplateRef names a document template known to the renderer.
type TemplateRef string

const (
	TemplateOSS      TemplateRef = "round/oss"
	TemplateSA       TemplateRef = "round/sa"
	TemplateVariance TemplateRef = "appearance/variance"
)

// Renderer renders a template with the supplied context data.
type Renderer interface {
	Render(ctx context.Context, template TemplateRef, data any) ([]byte, error)
}

// Store persists rendered documents and returns a stable reference.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}
