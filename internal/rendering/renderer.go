package rendering

import (
	"bytes"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"
)

// Renderer defines the contract for rendering gomponents nodes.
type Renderer interface {
	// RenderComponent renders a node to a slice of bytes. Useful for HTMX fragments.
	RenderComponent(node cmp.Node) ([]byte, error)

	// RenderPage writes a full HTML response with the given status.
	RenderPage(c echo.Context, status int, node cmp.Node) error
}

// NodeRenderer is the concrete Renderer and also satisfies echo.Renderer.
type NodeRenderer struct{}

// NewNodeRenderer creates a new NodeRenderer instance.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{}
}

// RenderComponent implements the Renderer interface.
func (r *NodeRenderer) RenderComponent(node cmp.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage renders into a buffer first so a failed render never leaves a
// half-written page with a success status.
func (r *NodeRenderer) RenderPage(c echo.Context, status int, node cmp.Node) error {
	body, err := r.RenderComponent(node)
	if err != nil {
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer for use with c.Render(status, name, node).
func (r *NodeRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	node, ok := data.(cmp.Node)
	if !ok {
		return fmt.Errorf("unsupported component type %T for %q: must be a gomponents.Node", data, name)
	}
	return node.Render(w)
}
