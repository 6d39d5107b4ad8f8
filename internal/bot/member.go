package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ChatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// ChatMemberChecker resolves channel membership through the Bot API.
type ChatMemberChecker struct {
	api ChatMemberGetter
}

func NewChatMemberChecker(api ChatMemberGetter) *ChatMemberChecker {
	return &ChatMemberChecker{api: api}
}

// ChatMemberStatus returns the member status string. The Bot API call has no
// context support, so cancellation abandons the request instead of aborting it.
func (c *ChatMemberChecker) ChatMemberStatus(ctx context.Context, channel string, userID int64) (string, error) {
	type result struct {
		member tgbotapi.ChatMember
		err    error
	}

	done := make(chan result, 1)
	go func() {
		member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				SuperGroupUsername: channel,
				UserID:             userID,
			},
		})
		done <- result{member: member, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		return r.member.Status, nil
	}
}
