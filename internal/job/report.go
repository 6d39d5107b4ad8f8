package job

import (
	"context"
	"time"

	"referral_bot/internal/bot"
	"referral_bot/internal/service"
	"referral_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reportTimeout = 30 * time.Second

// LeaderboardReportJob sends the current stats message to every admin.
type LeaderboardReportJob struct {
	sender      bot.Sender
	leaderboard service.LeaderboardServiceI
	adminIDs    []int64
}

func NewLeaderboardReportJob(sender bot.Sender, leaderboard service.LeaderboardServiceI, adminIDs []int64) *LeaderboardReportJob {
	return &LeaderboardReportJob{
		sender:      sender,
		leaderboard: leaderboard,
		adminIDs:    adminIDs,
	}
}

func (j *LeaderboardReportJob) Run() {
	log := logger.Logger().With(zap.String("job_id", "report-"+uuid.NewString()))

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	text, err := bot.StatsMessage(ctx, j.leaderboard)
	if err != nil {
		log.Error("failed to build leaderboard report", zap.Error(err))
		return
	}

	for _, id := range j.adminIDs {
		if _, err := j.sender.Send(tgbotapi.NewMessage(id, text)); err != nil {
			log.Error("failed to send leaderboard report", zap.Int64("admin_id", id), zap.Error(err))
		}
	}

	log.Info("leaderboard report sent", zap.Int("admins", len(j.adminIDs)))
}

type Manager struct {
	engine *cron.Cron
	report *LeaderboardReportJob
}

func NewManager(report *LeaderboardReportJob) *Manager {
	return &Manager{
		engine: cron.New(),
		report: report,
	}
}

// RegisterJobs schedules the report. An empty schedule leaves it disabled.
func (m *Manager) RegisterJobs(schedule string) error {
	if schedule == "" {
		return nil
	}
	if _, err := m.engine.AddJob(schedule, m.report); err != nil {
		return err
	}
	logger.Logger().Info("leaderboard report scheduled", zap.String("schedule", schedule))
	return nil
}

func (m *Manager) Start() {
	m.engine.Start()
}

// Stop waits for running jobs to finish.
func (m *Manager) Stop() {
	<-m.engine.Stop().Done()
}
