package portal

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sjsage522/topicworker/helpers"
	"sjsage522/topicworker/logger"
	apperrors "sjsage522/topicworker/pkg/errors"
)

// extractToken returns the value of the named hidden form input
func extractToken(r io.Reader, field string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	token := doc.Find(fmt.Sprintf("input[name=%q]", field)).First().AttrOr("value", "")
	if token == "" {
		return "", fmt.Errorf("input %s not found", field)
	}
	return token, nil
}

// ParseTopics reads the rows of the first table body on a topic browser page.
// Links are resolved against baseURL.
func ParseTopics(r io.Reader, baseURL string) ([]Topic, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperrors.NewParsing(component, "failed to parse topics page", err)
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, apperrors.NewParsing(component, "topics table not found", nil)
	}

	topics := make([]Topic, 0)
	tbody.ChildrenFiltered("tr").Each(func(i int, row *goquery.Selection) {
		topic, ok := parseRow(row, baseURL)
		if !ok {
			logger.ForPortal().Debug().Int("row", i).Msg("Skipping row without topic data")
			return
		}
		topics = append(topics, topic)
	})

	return topics, nil
}

func parseRow(row *goquery.Selection, baseURL string) (Topic, bool) {
	name := strings.TrimSpace(row.Find("a > span").First().Text())
	if name == "" {
		return Topic{}, false
	}

	href, exists := row.Find("a").First().Attr("href")
	if !exists {
		return Topic{}, false
	}

	// The first direct cell link with leading text names the provider
	var provider string
	row.ChildrenFiltered("td").ChildrenFiltered("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		provider = strings.TrimSpace(leadingText(a))
		return provider == ""
	})
	if provider == "" {
		return Topic{}, false
	}

	return Topic{
		Topic:    name,
		Link:     helpers.ResolveURL(baseURL, href),
		Provider: provider,
	}, true
}

// leadingText returns the text of the first node in the selection up to its
// first child element
func leadingText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var sb strings.Builder
	for child := s.Nodes[0].FirstChild; child != nil && child.Type == html.TextNode; child = child.NextSibling {
		sb.WriteString(child.Data)
	}
	return sb.String()
}
