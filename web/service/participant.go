package service

import (
	"errors"
	"sync"
	"time"

	"gift-gap/database"
	"gift-gap/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrParticipantNotFound is returned when an operation targets an id with
// no stored record.
var ErrParticipantNotFound = errors.New("participant not found")

// storeMu serializes every store mutation. The lottery holds it across its
// whole read-then-write sequence so a concurrent registration cannot
// interleave with an in-progress draw.
var storeMu sync.Mutex

type ParticipantService struct{}

// Put inserts or fully replaces the record keyed by the participant id.
// There is no partial merge: a re-registration overwrites everything,
// including any previous assignment.
func (s *ParticipantService) Put(participant *model.Participant) error {
	storeMu.Lock()
	defer storeMu.Unlock()

	participant.AssignedTo = 0
	participant.CreatedAt = time.Now()

	db := database.GetDB()
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(participant).Error
	if err != nil {
		return err
	}
	return database.Checkpoint()
}

// Get returns the record for the given id, or nil when absent.
func (s *ParticipantService) Get(id int64) (*model.Participant, error) {
	db := database.GetDB()
	participant := &model.Participant{}
	err := db.Where("id = ?", id).First(participant).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return participant, nil
}

// All returns every participant in insertion order.
func (s *ParticipantService) All() ([]*model.Participant, error) {
	db := database.GetDB()
	var participants []*model.Participant
	err := db.Order("created_at asc, id asc").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ParticipantService) Count() (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(&model.Participant{}).Count(&count).Error
	return count, err
}

// CountDrawn returns how many participants currently hold an assignment.
func (s *ParticipantService) CountDrawn() (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(&model.Participant{}).Where("assigned_to <> 0").Count(&count).Error
	return count, err
}

// Delete removes the record for the given id. Reports whether a record
// existed.
func (s *ParticipantService) Delete(id int64) (bool, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	db := database.GetDB()
	result := db.Delete(&model.Participant{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	return true, database.Checkpoint()
}

// Clear removes every participant and the draw history.
func (s *ParticipantService) Clear() error {
	storeMu.Lock()
	defer storeMu.Unlock()

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Participant{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&model.DrawRecord{}).Error
	})
	if err != nil {
		return err
	}
	return database.Checkpoint()
}

// SetAssignment mutates only the assigned_to column of the giver's record.
func (s *ParticipantService) SetAssignment(giverId, receiverId int64) error {
	storeMu.Lock()
	defer storeMu.Unlock()

	if err := setAssignment(database.GetDB(), giverId, receiverId); err != nil {
		return err
	}
	return database.Checkpoint()
}

func setAssignment(tx *gorm.DB, giverId, receiverId int64) error {
	result := tx.Model(&model.Participant{}).Where("id = ?", giverId).Update("assigned_to", receiverId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// ClearAllAssignments returns every record to the undrawn state.
func (s *ParticipantService) ClearAllAssignments() error {
	storeMu.Lock()
	defer storeMu.Unlock()

	if err := clearAssignments(database.GetDB()); err != nil {
		return err
	}
	return database.Checkpoint()
}

func clearAssignments(tx *gorm.DB) error {
	return tx.Model(&model.Participant{}).Where("assigned_to <> 0").Update("assigned_to", 0).Error
}
