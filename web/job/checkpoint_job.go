package job

import (
	"gift-gap/database"
	"gift-gap/logger"
)

// CheckpointJob periodically flushes the write-ahead log to the database
// file so a crash loses at most the window since the last run.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return &CheckpointJob{}
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("scheduled checkpoint failed:", err)
	}
}
