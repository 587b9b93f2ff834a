package slack

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// VisitHistory walks the channel history between the oldest and latest
// bounds (Unix-second strings, empty for unbounded), invoking visit for
// every message in the order the API returns them. Returning false from
// visit stops the walk immediately, even mid-page.
//
// Continuation prefers the response cursor; when a page reports has_more
// without a cursor, the last message's ts becomes the new latest bound.
// That fallback can re-deliver the boundary message on the next page,
// which is acceptable; skipping one is not.
func (c *Client) VisitHistory(ctx context.Context, channelID, oldest, latest string, visit func(models.Message) bool) error {
	base := url.Values{}
	base.Set("channel", channelID)
	base.Set("limit", strconv.Itoa(c.pageSize))
	if oldest != "" {
		base.Set("oldest", oldest)
	}

	cursor := ""
	bound := latest
	for {
		params := cloneValues(base)
		if cursor != "" {
			params.Set("cursor", cursor)
		} else if bound != "" {
			params.Set("latest", bound)
		}

		resp, err := c.get(ctx, "conversations.history", params)
		if err != nil {
			return err
		}

		for _, m := range resp.Messages {
			if !visit(m) {
				return nil
			}
		}

		if !resp.HasMore {
			return nil
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			if len(resp.Messages) == 0 {
				return nil
			}
			bound = resp.Messages[len(resp.Messages)-1].Timestamp
		}
	}
}

// FetchReplies returns the replies of the thread rooted at threadTS, in
// ascending ts order, excluding the root message the replies endpoint
// echoes back. When max is positive, at most max replies are collected and
// pagination into the thread stops as soon as the cap is reached.
//
// On a fetch failure the replies gathered so far are returned alongside
// the error so a partially assembled thread is still usable.
func (c *Client) FetchReplies(ctx context.Context, channelID, threadTS string, max int) ([]models.Message, error) {
	base := url.Values{}
	base.Set("channel", channelID)
	base.Set("ts", threadTS)
	base.Set("limit", strconv.Itoa(c.pageSize))

	var replies []models.Message
	err := c.paginate(ctx, "conversations.replies", base, func(resp *apiResponse) bool {
		for _, m := range resp.Messages {
			if m.Timestamp == threadTS {
				continue // echoed root
			}
			replies = append(replies, m)
			if max > 0 && len(replies) >= max {
				return false
			}
		}
		return true
	})

	sort.Slice(replies, func(i, j int) bool {
		return replies[i].Timestamp < replies[j].Timestamp
	})

	if err != nil {
		return replies, err
	}
	return replies, nil
}
