package bot

import (
	"context"
	"strings"

	"referral_bot/internal/metrics"
	"referral_bot/internal/service"
	"referral_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the bot writes through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	sender      Sender
	referrals   service.ReferralServiceI
	leaderboard service.LeaderboardServiceI
	admins      service.AdminAuthorizer
	links       *service.LinkBuilder
	adminMenu   tgbotapi.ReplyKeyboardMarkup
}

func New(
	sender Sender,
	referrals service.ReferralServiceI,
	leaderboard service.LeaderboardServiceI,
	admins service.AdminAuthorizer,
	links *service.LinkBuilder,
) *Bot {
	adminMenu := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonMyReferralLink),
			tgbotapi.NewKeyboardButton(ButtonStats),
		),
	)
	adminMenu.ResizeKeyboard = true

	return &Bot{
		sender:      sender,
		referrals:   referrals,
		leaderboard: leaderboard,
		admins:      admins,
		links:       links,
		adminMenu:   adminMenu,
	}
}

// Run handles updates until ctx is cancelled or the channel is closed.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	log := logger.Logger().With(
		zap.String("update_id", uuid.NewString()),
		zap.Int64("telegram_id", msg.From.ID),
	)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			metrics.RecordBotUpdate("start")
			b.handleStart(ctx, log, msg)
		default:
			metrics.RecordBotUpdate("unknown_command")
		}
		return
	}

	switch msg.Text {
	case ButtonMyReferralLink:
		if !b.admins.IsAdmin(msg.From.ID) {
			metrics.RecordBotUpdate("denied")
			return
		}
		metrics.RecordBotUpdate("referral_link")
		b.reply(log, tgbotapi.NewMessage(msg.Chat.ID,
			referralLinkText(b.links.ReferralLink(msg.From.ID), b.links.ChannelLink())))
	case ButtonStats:
		if !b.admins.IsAdmin(msg.From.ID) {
			metrics.RecordBotUpdate("denied")
			return
		}
		metrics.RecordBotUpdate("stats")
		b.handleStats(ctx, log, msg)
	default:
		metrics.RecordBotUpdate("ignored")
	}
}

func (b *Bot) handleStart(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message) {
	callerID := msg.From.ID
	displayName := msg.From.UserName

	result, err := b.referrals.Attribute(ctx, callerID, displayName, referralToken(msg.CommandArguments()))
	if err != nil {
		log.Error("failed to attribute user", zap.Error(err))
	} else {
		log.Info("start handled",
			zap.Stringer("status", result.Status),
			zap.Bool("referrer_credited", result.ReferrerCredited))
	}

	b.reply(log, tgbotapi.NewMessage(msg.Chat.ID,
		startText(displayName, b.links.ReferralLink(callerID), b.links.ChannelLink())))

	if b.admins.IsAdmin(callerID) {
		menu := tgbotapi.NewMessage(msg.Chat.ID, adminMenuText)
		menu.ReplyMarkup = b.adminMenu
		b.reply(log, menu)
	}
}

func (b *Bot) handleStats(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message) {
	text, err := StatsMessage(ctx, b.leaderboard)
	if err != nil {
		log.Error("failed to build leaderboard", zap.Error(err))
		return
	}

	b.reply(log, tgbotapi.NewMessage(msg.Chat.ID, text))
}

// StatsMessage renders the current leaderboard.
func StatsMessage(ctx context.Context, leaderboard service.LeaderboardServiceI) (string, error) {
	entries, err := leaderboard.BuildLeaderboard(ctx)
	if err != nil {
		return "", err
	}
	return RenderLeaderboard(entries), nil
}

func (b *Bot) reply(log *zap.Logger, c tgbotapi.Chattable) {
	if _, err := b.sender.Send(c); err != nil {
		log.Error("failed to send message", zap.Error(err))
	}
}

// referralToken is the first word after /start; anything after it is ignored.
func referralToken(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
