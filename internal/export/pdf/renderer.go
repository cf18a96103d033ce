package pdf

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/chensoul/interview-guide/internal/export"
	"github.com/chensoul/interview-guide/internal/models"
)

// Renderer prints interview reports to PDF through headless Chromium.
// Every Render call boots its own Playwright driver and browser; exports
// are infrequent and the browser never outlives one of them.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Install downloads the Playwright driver and the Chromium build it needs.
// Deployments run this once at startup so the first export does not pay
// the download.
func Install() error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	})
}

func (r *Renderer) Render(ctx context.Context, detail *models.InterviewDetail) ([]byte, error) {
	htmlContent, err := export.BuildHTML(detail)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("14mm"),
			Right:  playwright.String("14mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}

	return pdfBytes, nil
}
