package model

type LeaderboardEntry struct {
	Rank          int
	DisplayName   string
	ReferralCount int
}
