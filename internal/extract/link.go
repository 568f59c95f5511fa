package extract

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/minjae/threadlens/internal/domain"
	"golang.org/x/net/html"
)

// Article body cap when stored, and the shorter cap used inline in the
// combined post text.
const (
	maxArticleStored = 10000
	maxArticleInline = 5000
)

// extractFromLink fetches an external page and pulls out its title and main
// text. The link cache is consulted first and written after. Any failure
// returns nil.
func (e *Extractor) extractFromLink(ctx context.Context, linkURL string) *domain.LinkContent {
	if linkURL == "" {
		return nil
	}

	if e.linkCache != nil {
		if content, ok := e.linkCache.GetLink(ctx, linkURL); ok {
			e.log.WithField("url", linkURL).Debug("Link cache hit")
			return content
		}
	}

	parsed, err := url.Parse(linkURL)
	if err != nil {
		e.log.WithError(err).WithField("url", linkURL).Warn("Unparseable link URL")
		return nil
	}

	resp, err := e.http.R().SetContext(ctx).Get(linkURL)
	if err != nil {
		e.log.WithError(err).WithField("url", linkURL).Warn("Failed to fetch link")
		return nil
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		e.log.WithField("url", linkURL).Warnf("Link fetch returned HTTP %d", resp.StatusCode())
		return nil
	}

	content := parsePage(resp.Body())
	if content == nil {
		e.log.WithField("url", linkURL).Warn("Could not extract content from link")
		return nil
	}
	content.SourceDomain = parsed.Host

	if e.linkCache != nil {
		e.linkCache.PutLink(ctx, linkURL, content)
	}
	return content
}

// parsePage extracts the title and main text from an HTML document. The
// article and main elements are preferred over the whole body so navigation
// chrome stays out of the analysis text.
func parsePage(body []byte) *domain.LinkContent {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, footer, header").Remove()

	main := doc.Find("article").First()
	if main.Length() == 0 {
		main = doc.Find("main").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}
	if main.Length() == 0 {
		return nil
	}

	var sb strings.Builder
	for _, node := range main.Nodes {
		collectText(node, &sb)
	}
	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" && title == "" {
		return nil
	}
	if len(text) > maxArticleStored {
		text = truncateRunes(text, maxArticleStored) + "..."
	}

	return &domain.LinkContent{Title: title, Text: text}
}

// collectText appends every text node under n, space separated, so text in
// adjacent elements does not run together.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
