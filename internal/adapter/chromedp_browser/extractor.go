package chromedp_browser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/pkg/utils"
)

// ParseItems extracts product links from the outer HTML of the listing
// container. Relative hrefs are resolved against base, and URLs present in
// exclude are skipped. Several anchors in one card may yield the same URL;
// those are deduplicated later.
func ParseItems(html string, base *url.URL, sel Selectors, exclude map[string]struct{}) ([]entity.CollectedItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var items []entity.CollectedItem
	doc.Find(sel.Item + " " + sel.Link).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		abs, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			return
		}
		if _, seen := exclude[abs]; seen {
			return
		}
		items = append(items, entity.CollectedItem{
			URL:         abs,
			HasVariants: s.Find(sel.Variants).Length() > 0,
		})
	})
	return items, nil
}
