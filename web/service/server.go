package service

import (
	"time"

	"gift-gap/config"
	"gift-gap/database"
	"gift-gap/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

type Status struct {
	T        time.Time `json:"-"`
	Version  string    `json:"version"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime       uint64 `json:"uptime"`
	Participants int64  `json:"participants"`
	Drawn        int64  `json:"drawn"`
	Draws        int64  `json:"draws"`
}

type ServerService struct {
	participantService ParticipantService
}

func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{
		T:       now,
		Version: config.GetVersion(),
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	status.CpuCores, err = cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu core count failed:", err)
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	status.Participants, err = s.participantService.Count()
	if err != nil {
		logger.Warning("count participants failed:", err)
	}

	status.Drawn, err = s.participantService.CountDrawn()
	if err != nil {
		logger.Warning("count drawn participants failed:", err)
	}

	status.Draws, err = database.CountDraws()
	if err != nil {
		logger.Warning("count draws failed:", err)
	}

	return status
}
