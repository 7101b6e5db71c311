package models

import "gorm.io/gorm"

// Message is a chat message scoped to a proposal thread.
type Message struct {
	gorm.Model
	ProposalID uint     `gorm:"column:proposal_id;not null;index" json:"proposalId"`
	Proposal   Proposal `json:"-"`
	SenderID   uint     `gorm:"column:sender_id;not null" json:"senderId"`
	Sender     User     `json:"sender"`
	Content    string   `gorm:"column:content;not null" json:"content"`
	IsRead     bool     `gorm:"column:is_read;not null;default:false" json:"isRead"`
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}
