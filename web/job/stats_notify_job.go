package job

import (
	"strconv"

	"gift-gap/logger"
	"gift-gap/web/global"
	"gift-gap/web/locale"
	"gift-gap/web/service"
)

// StatsNotifyJob sends the organizers a periodic registration summary.
type StatsNotifyJob struct {
	participantService service.ParticipantService
}

func NewStatsNotifyJob() *StatsNotifyJob {
	return &StatsNotifyJob{}
}

func (j *StatsNotifyJob) Run() {
	tgBot := global.GetTgBot()
	if tgBot == nil || !tgBot.IsRunning() {
		return
	}

	total, err := j.participantService.Count()
	if err != nil {
		logger.Warning("stats notify: count participants failed:", err)
		return
	}
	drawn, err := j.participantService.CountDrawn()
	if err != nil {
		logger.Warning("stats notify: count drawn failed:", err)
		return
	}

	msg := locale.I18n(locale.Bot, "stats.daily",
		"Total=="+strconv.FormatInt(total, 10),
		"Drawn=="+strconv.FormatInt(drawn, 10),
	)
	tgBot.SendMsgToTgbotAdmins(msg)
}
