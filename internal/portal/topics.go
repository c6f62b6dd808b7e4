package portal

import (
	"context"
	"strings"

	apperrors "sjsage522/topicworker/pkg/errors"
)

// FetchTopics applies the configured filter and returns the listed topics.
// An expired session is reported as a session expired error.
func (c *Client) FetchTopics(ctx context.Context) ([]Topic, error) {
	browseURL := c.cfg.PortalURL + browsePath

	body, err := c.browse(ctx, browseURL)
	if err != nil {
		return nil, err
	}

	token, err := extractToken(strings.NewReader(body), portalTokenField)
	if err != nil {
		return nil, apperrors.NewParsing(component, "CSRF token not found on the topics page", err)
	}

	filter := c.cfg.Filter
	form := map[string]string{
		portalTokenField:    token,
		"department":        filter.Department,
		"query":             filter.Query,
		"type":              filter.Type,
		"study_field_code":  filter.StudyFieldCode,
		"study_field_query": filter.StudyFieldQuery,
		"status":            filter.Status,
	}
	headers := map[string]string{
		"Origin":  c.cfg.PortalURL,
		"Referer": browseURL,
	}

	if _, err := c.postForm(ctx, c.cfg.PortalURL+filterSetPath, form, headers, "set filters for topics"); err != nil {
		return nil, err
	}

	// Fetch the topics list again after applying filters
	body, err = c.browse(ctx, browseURL)
	if err != nil {
		return nil, err
	}

	topics, err := ParseTopics(strings.NewReader(body), c.cfg.PortalURL)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Int("count", len(topics)).Msg("Fetched topics")
	return topics, nil
}

func (c *Client) browse(ctx context.Context, browseURL string) (string, error) {
	body, err := c.get(ctx, browseURL, "fetch topics")
	if err != nil {
		return "", err
	}
	if c.sessionExpired(body) {
		return "", apperrors.NewSessionExpired(component)
	}
	return body, nil
}
