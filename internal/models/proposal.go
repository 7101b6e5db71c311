package models

import "gorm.io/gorm"

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCompleted ProposalStatus = "completed"
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// Proposal is an offer to exchange one user skill for another.
// Only the recipient may accept or reject; either party may cancel
// while it is still pending or accepted.
type Proposal struct {
	gorm.Model
	ProposerID           uint           `gorm:"column:proposer_id;not null;index" json:"proposerId"`
	Proposer             User           `json:"proposer"`
	RecipientID          uint           `gorm:"column:recipient_id;not null;index" json:"recipientId"`
	Recipient            User           `json:"recipient"`
	ProposerUserSkillID  uint           `gorm:"column:proposer_user_skill_id;not null" json:"proposerUserSkillId"`
	ProposerUserSkill    UserSkill      `json:"proposerUserSkill"`
	RecipientUserSkillID uint           `gorm:"column:recipient_user_skill_id;not null" json:"recipientUserSkillId"`
	RecipientUserSkill   UserSkill      `json:"recipientUserSkill"`
	Status               ProposalStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
}

// TableName specifies the table name
func (Proposal) TableName() string {
	return "proposals"
}

// Involves reports whether the given user is a party to the proposal.
func (p *Proposal) Involves(userID uint) bool {
	return p.ProposerID == userID || p.RecipientID == userID
}

// CounterpartOf returns the other party's user id.
func (p *Proposal) CounterpartOf(userID uint) uint {
	if p.ProposerID == userID {
		return p.RecipientID
	}
	return p.ProposerID
}
