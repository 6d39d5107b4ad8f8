package service

import (
	"fmt"
	"strings"
)

const telegramBaseURL = "https://t.me/"

type LinkBuilder struct {
	botBaseURL string
	channel    string
}

// NewLinkBuilder takes the bot's public URL (https://t.me/<bot>) and the
// channel name with or without the leading "@".
func NewLinkBuilder(botBaseURL, channel string) *LinkBuilder {
	return &LinkBuilder{
		botBaseURL: strings.TrimSuffix(botBaseURL, "/"),
		channel:    strings.TrimPrefix(channel, "@"),
	}
}

func BotBaseURL(botUsername string) string {
	return telegramBaseURL + botUsername
}

func (l *LinkBuilder) ReferralLink(telegramID int64) string {
	return fmt.Sprintf("%s?start=%d", l.botBaseURL, telegramID)
}

func (l *LinkBuilder) ChannelLink() string {
	return telegramBaseURL + l.channel
}

// ChannelHandle is the "@name" form used by the Bot API.
func (l *LinkBuilder) ChannelHandle() string {
	return "@" + l.channel
}
