package model

import "time"

// Participant is one registered member of the gift exchange, keyed by the
// Telegram user id. AssignedTo is zero until a draw completes.
type Participant struct {
	Id         int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username   string    `json:"username"`
	Name       string    `json:"name" gorm:"not null"`
	Wish       string    `json:"wish" gorm:"type:text;not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	AssignedTo int64     `json:"assignedTo" gorm:"index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"not null"`
}

// DrawRecord is one giver→receiver edge of a completed draw. Records are
// append-only: they keep the history even after assignments are reset.
type DrawRecord struct {
	Id         int64     `json:"id" gorm:"primaryKey"`
	DrawId     string    `json:"drawId" gorm:"type:varchar(36);index"`
	GiverId    int64     `json:"giverId" gorm:"index"`
	ReceiverId int64     `json:"receiverId"`
	DrawDate   time.Time `json:"drawDate" gorm:"not null"`
}
