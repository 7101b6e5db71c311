package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

// CreateReview lets a party of a completed proposal rate the other.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Rating  int    `json:"rating" binding:"required,min=1,max=5"`
			Comment string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}
		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}
		if proposal.Status != models.ProposalStatusCompleted {
			c.JSON(400, utils.FailureResponse("Only completed exchanges can be reviewed"))
			return
		}

		review := models.Review{
			ProposalID: proposal.ID,
			ReviewerID: userID,
			RevieweeID: proposal.CounterpartOf(userID),
			Rating:     input.Rating,
			Comment:    input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			// The unique index on (proposal, reviewer) rejects duplicates
			if strings.Contains(strings.ToLower(err.Error()), "unique") ||
				strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				c.JSON(400, utils.FailureResponse("You have already reviewed this exchange"))
				return
			}
			c.JSON(500, utils.FailureResponse("Failed to create review"))
			return
		}

		c.JSON(200, utils.SuccessResponse(review, "Review submitted"))
	}
}

// ListUserReviews returns the reviews a user has received. Public.
func ListUserReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.Preload("Reviewer").
			Where("reviewee_id = ?", c.Param("id")).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(reviews, "Reviews retrieved"))
	}
}
