package service

import (
	"errors"
	"time"

	"gift-gap/database"
	"gift-gap/database/model"
	"gift-gap/logger"
	"gift-gap/util/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInsufficientParticipants = errors.New("not enough participants to draw")
	ErrAlreadyDrawn             = errors.New("a draw already exists")
)

// Pair is one edge of a draw: the giver gifts to the receiver.
type Pair struct {
	GiverId    int64
	ReceiverId int64
}

type LotteryService struct{}

// Run performs one draw over all registered participants. The result is a
// single cycle over a shuffled order, so nobody is assigned to themselves
// and everybody both gives and receives exactly once. When assignments
// already exist Run refuses unless forceReset is set, in which case the
// previous assignments are discarded and replaced atomically.
func (s *LotteryService) Run(forceReset bool) ([]Pair, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	db := database.GetDB()
	var participants []*model.Participant
	if err := db.Order("created_at asc, id asc").Find(&participants).Error; err != nil {
		return nil, err
	}

	n := len(participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	if !forceReset {
		for _, p := range participants {
			if p.AssignedTo != 0 {
				return nil, ErrAlreadyDrawn
			}
		}
	}

	ids := make([]int64, n)
	for i, p := range participants {
		ids[i] = p.Id
	}
	common.Shuffle(n, func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	pairs := make([]Pair, n)
	for i := range ids {
		pairs[i] = Pair{GiverId: ids[i], ReceiverId: ids[(i+1)%n]}
	}

	drawId := uuid.New().String()
	now := time.Now()
	records := make([]*model.DrawRecord, n)
	for i, pair := range pairs {
		records[i] = &model.DrawRecord{
			DrawId:     drawId,
			GiverId:    pair.GiverId,
			ReceiverId: pair.ReceiverId,
			DrawDate:   now,
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if forceReset {
			if err := clearAssignments(tx); err != nil {
				return err
			}
		}
		for _, pair := range pairs {
			if err := setAssignment(tx, pair.GiverId, pair.ReceiverId); err != nil {
				return err
			}
		}
		return database.AddDrawRecords(tx, records)
	})
	if err != nil {
		return nil, err
	}

	if err := database.Checkpoint(); err != nil {
		logger.Warningf("draw %s: checkpoint failed: %v", drawId, err)
	}

	logger.Infof("draw %s: assigned %d participants", drawId, n)
	return pairs, nil
}
