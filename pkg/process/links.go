package process

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/parse"
)

// ExtractLinks returns the absolute targets of every a[href] on the page whose host equals rootHost.
// Relative hrefs are resolved against pageURL. Order follows the document and duplicates are kept;
// the crawler's visited set is what prevents refetching.
func ExtractLinks(doc *goquery.Document, pageURL *url.URL, rootHost string, taskLog *logrus.Entry) []string {
	var links []string
	total := 0

	doc.Find("a[href]").Each(func(_ int, element *goquery.Selection) {
		href, _ := element.Attr("href")
		total++

		linkURL, err := parse.Resolve(pageURL, href)
		if err != nil {
			taskLog.Debugf("Skipping invalid link href '%s': %v", href, err)
			return
		}
		if linkURL.Host != rootHost {
			return
		}
		links = append(links, linkURL.String())
	})

	taskLog.WithFields(logrus.Fields{"links_total": total, "links_in_scope": len(links)}).Debug("Extracted links")
	return links
}
