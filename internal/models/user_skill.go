package models

import "gorm.io/gorm"

type SkillType string

const (
	SkillTypeOffered SkillType = "offered"
	SkillTypeWanted  SkillType = "wanted"
)

// UserSkill links a user to a catalog skill, either as something they
// teach or something they want to learn.
type UserSkill struct {
	gorm.Model
	UserID      uint      `gorm:"column:user_id;not null;index" json:"userId"`
	User        User      `json:"-"`
	SkillID     uint      `gorm:"column:skill_id;not null" json:"skillId"`
	Skill       Skill     `json:"skill"`
	Type        SkillType `gorm:"column:type;not null" json:"type"`
	Description string    `gorm:"column:description" json:"description"`
}

// TableName specifies the table name
func (UserSkill) TableName() string {
	return "user_skills"
}
