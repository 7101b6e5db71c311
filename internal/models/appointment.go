package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment is a scheduled session for an accepted proposal.
type Appointment struct {
	gorm.Model
	ProposalID  uint      `gorm:"column:proposal_id;not null;index" json:"proposalId"`
	Proposal    Proposal  `json:"proposal"`
	MeetingTime time.Time `gorm:"column:meeting_time;not null" json:"meetingTime"`
	MeetingLink string    `gorm:"column:meeting_link;size:2048" json:"meetingLink"`
}

// TableName specifies the table name
func (Appointment) TableName() string {
	return "appointments"
}
