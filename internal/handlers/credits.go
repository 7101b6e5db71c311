package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

// GetCreditBalance returns the caller's current balance.
func GetCreditBalance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("User not found"))
			return
		}

		c.JSON(200, utils.SuccessResponse(gin.H{"balance": user.Credits}, "Balance retrieved"))
	}
}

// GetCreditHistory returns the caller's ledger, newest first.
func GetCreditHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var transactions []models.CreditTransaction
		if err := db.Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&transactions).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(transactions, "Transactions retrieved"))
	}
}
