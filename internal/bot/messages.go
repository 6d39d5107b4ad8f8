package bot

import (
	"fmt"
	"strings"

	"referral_bot/internal/model"
)

const (
	ButtonMyReferralLink = "My referral link"
	ButtonStats          = "Stats"

	adminMenuText       = "Choose an action:"
	leaderboardHeader   = "📊 Top referrers:"
	emptyLeaderboard    = "No one has invited subscribers yet."
	defaultGreetingName = "there"
)

func startText(displayName, referralLink, channelLink string) string {
	if displayName == "" {
		displayName = defaultGreetingName
	}
	return fmt.Sprintf(
		"Hi, %s! Here is your personal referral link:\n🔗 %s\n\n📢 Invite friends to the channel: %s\n\n👥 The more friends you invite, the higher your rank!",
		displayName, referralLink, channelLink,
	)
}

func referralLinkText(referralLink, channelLink string) string {
	return fmt.Sprintf(
		"Here is your link for inviting people to the channel:\n🔗 %s\n\n📢 Channel link: %s",
		referralLink, channelLink,
	)
}

// RenderLeaderboard formats entries one per line under a header. An empty
// leaderboard renders as a fixed notice instead of a bare header.
func RenderLeaderboard(entries []model.LeaderboardEntry) string {
	if len(entries) == 0 {
		return emptyLeaderboard
	}

	var sb strings.Builder
	sb.WriteString(leaderboardHeader)
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n%d. @%s - %d subscribers", e.Rank, e.DisplayName, e.ReferralCount)
	}
	return sb.String()
}
