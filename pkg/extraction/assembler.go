package extraction

import (
	"context"
	"strings"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// DefaultReplyCap bounds the replies fetched for a single thread so one
// runaway conversation cannot blow downstream memory or LLM context limits.
const DefaultReplyCap = 1000

// slackbotID is the author of Slack's own system messages.
const slackbotID = "USLACKBOT"

// isBotAuthor reports whether an author identifier belongs to Slackbot or
// a bot integration. Bot authors never open threads; their replies inside
// a human-opened thread are kept.
func isBotAuthor(author string) bool {
	return author == slackbotID || strings.Contains(strings.ToLower(author), "bot")
}

// assembler groups root messages with their replies into threads for one
// channel.
type assembler struct {
	client   Conversations
	channel  string
	replyCap int
}

// assemble builds the thread for one root message. Replies are fetched only
// when the message is a thread parent with a positive reply count; anything
// else is a singleton thread. When the nested fetch fails, the partially
// assembled thread is returned together with the error so the run can keep
// it and record the failure.
func (a *assembler) assemble(ctx context.Context, root models.Message) (models.Thread, error) {
	thread := models.Thread{Root: root}
	if !root.IsThreadRoot() {
		return thread, nil
	}

	replies, err := a.client.FetchReplies(ctx, a.channel, root.Timestamp, a.replyCap)
	thread.Replies = replies
	return thread, err
}
