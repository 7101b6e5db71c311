package models

import "gorm.io/gorm"

// Review is feedback left by one party of a completed proposal about the
// other. A reviewer may review a given proposal only once.
type Review struct {
	gorm.Model
	ProposalID uint     `gorm:"column:proposal_id;not null;uniqueIndex:idx_reviews_proposal_reviewer" json:"proposalId"`
	Proposal   Proposal `json:"-"`
	ReviewerID uint     `gorm:"column:reviewer_id;not null;uniqueIndex:idx_reviews_proposal_reviewer" json:"reviewerId"`
	Reviewer   User     `json:"reviewer"`
	RevieweeID uint     `gorm:"column:reviewee_id;not null;index" json:"revieweeId"`
	Reviewee   User     `json:"-"`
	Rating     int      `gorm:"column:rating;not null" json:"rating"`
	Comment    string   `gorm:"column:comment" json:"comment"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}
