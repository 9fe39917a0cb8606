package process

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yumyum-02/scraping/pkg/models"
	"github.com/yumyum-02/scraping/pkg/utils"
)

// ParseDocument parses a decoded HTML body into a goquery document
func ParseDocument(body []byte, pageURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML from '%s': %w", utils.ErrParsing, pageURL, err)
	}
	return doc, nil
}

// ExtractSummary collects the page title and the level-1 and level-2 heading texts.
// All texts are whitespace-trimmed; headings keep document order.
func ExtractSummary(doc *goquery.Document) models.PageSummary {
	summary := models.PageSummary{}

	if title := doc.Find("title").First(); title.Length() > 0 {
		summary.HasTitle = true
		summary.Title = strings.TrimSpace(title.Text())
	}
	summary.H1 = headingTexts(doc, "h1")
	summary.H2 = headingTexts(doc, "h2")

	return summary
}

func headingTexts(doc *goquery.Document, tag string) []string {
	var texts []string
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}
