package scraper

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const wixMediaBase = "https://static.wixstatic.com/media/"

var cssURLPattern = regexp.MustCompile(`url\((.*?)\)`)

// imageSrc returns the first img's lazy-load data-src, falling back to src.
func imageSrc(sel *goquery.Selection) string {
	img := sel
	if goquery.NodeName(sel) != "img" {
		img = sel.Find("img").First()
	}
	for _, attr := range []string{"data-src", "src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// backgroundURL extracts the url(...) from an inline style.
func backgroundURL(style string) string {
	m := cssURLPattern.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `'"`)
}

// wixImage reads the full-size media URI from a Wix data-image-info attribute.
func wixImage(info string) string {
	var data struct {
		ImageData struct {
			URI string `json:"uri"`
		} `json:"imageData"`
	}
	if err := json.Unmarshal([]byte(info), &data); err != nil || data.ImageData.URI == "" {
		return ""
	}
	return wixMediaBase + data.ImageData.URI
}

// flyerOf tries an img, then the element's own background image.
func flyerOf(sel *goquery.Selection) string {
	if src := imageSrc(sel); src != "" {
		return src
	}
	style, _ := sel.Attr("style")
	return backgroundURL(style)
}
