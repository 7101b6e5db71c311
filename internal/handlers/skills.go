package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

// ListSkills returns the public catalog of active skills, optionally
// filtered by category. Listings are cached in Redis for a few minutes.
func ListSkills(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")

		if cached, err := services.GetCachedSkillCatalog(c.Request.Context(), category); err == nil {
			c.JSON(200, utils.SuccessResponse(cached, "Skills retrieved"))
			return
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Skill catalog cache read error: %v", err)
		}

		query := db.Where("is_active = ?", true)
		if category != "" {
			query = query.Where("category = ?", category)
		}

		var skills []models.Skill
		if err := query.Order("name").Find(&skills).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		if err := services.CacheSkillCatalog(c.Request.Context(), category, skills); err != nil {
			log.Printf("Skill catalog cache write error: %v", err)
		}

		c.JSON(200, utils.SuccessResponse(skills, "Skills retrieved"))
	}
}

// CreateSkill adds a new catalog entry.
func CreateSkill(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string `json:"name" binding:"required,max=100"`
			Category string `json:"category" binding:"max=100"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		var count int64
		if err := db.Model(&models.Skill{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}
		if count > 0 {
			c.JSON(400, utils.FailureResponse("Skill already exists"))
			return
		}

		skill := models.Skill{
			Name:     input.Name,
			Category: input.Category,
			IsActive: true,
		}
		if err := db.Create(&skill).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to create skill"))
			return
		}

		services.InvalidateSkillCatalog(c.Request.Context())

		c.JSON(200, utils.SuccessResponse(skill, "Skill created"))
	}
}

// AddUserSkill attaches a catalog skill to the caller's profile, either
// as offered or wanted.
func AddUserSkill(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			SkillID     uint   `json:"skillId" binding:"required"`
			Type        string `json:"type" binding:"required,oneof=offered wanted"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		var skill models.Skill
		if err := db.Where("is_active = ?", true).First(&skill, input.SkillID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Skill not found"))
			return
		}

		userSkill := models.UserSkill{
			UserID:      userID,
			SkillID:     skill.ID,
			Type:        models.SkillType(input.Type),
			Description: input.Description,
		}
		if err := db.Create(&userSkill).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to add skill"))
			return
		}

		userSkill.Skill = skill
		c.JSON(200, utils.SuccessResponse(userSkill, "Skill added to profile"))
	}
}

// ListMySkills returns the caller's offered and wanted skills.
func ListMySkills(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var userSkills []models.UserSkill
		if err := db.Preload("Skill").Where("user_id = ?", userID).Find(&userSkills).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(userSkills, "Skills retrieved"))
	}
}

// RemoveUserSkill detaches a skill from the caller's profile.
func RemoveUserSkill(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userSkillID := c.Param("id")

		var userSkill models.UserSkill
		if err := db.First(&userSkill, userSkillID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Skill not found"))
			return
		}

		if userSkill.UserID != userID {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		if err := db.Delete(&userSkill).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to remove skill"))
			return
		}

		c.JSON(200, utils.SuccessResponse(nil, "Skill removed"))
	}
}
