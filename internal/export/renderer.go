package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/chensoul/interview-guide/internal/models"
)

// Renderer turns an interview detail into a downloadable document.
type Renderer interface {
	Render(ctx context.Context, detail *models.InterviewDetail) ([]byte, error)
}

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"score": func(s *float64) string {
		if s == nil {
			return ""
		}
		return strconv.FormatFloat(*s, 'f', 1, 64)
	},
}).ParseFS(templateFS, "templates/report.html"))

// BuildHTML executes the report template. Rendering to a document format
// happens in the concrete Renderer; the HTML itself stays testable without
// a browser.
func BuildHTML(detail *models.InterviewDetail) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, detail); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}
