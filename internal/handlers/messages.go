package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

// ListMessages returns a proposal's message thread, oldest first.
func ListMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}
		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		var messages []models.Message
		if err := db.Preload("Sender").
			Where("proposal_id = ?", proposal.ID).
			Order("created_at ASC").
			Find(&messages).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(messages, "Messages retrieved"))
	}
}

// SendMessage posts a message to a proposal thread and pushes it to the
// counterpart in real time.
func SendMessage(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Content string `json:"content" binding:"required"`
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

		message := models.Message{
			ProposalID: proposal.ID,
			SenderID:   userID,
			Content:    input.Content,
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to send message"))
			return
		}

		var sender models.User
		db.First(&sender, userID)

		counterpart := proposal.CounterpartOf(userID)
		hub.NotifyUser(counterpart, "message_received", services.MessageReceived{
			ProposalID: proposal.ID,
			MessageID:  message.ID,
			SenderID:   userID,
			Sender:     sender.Username,
			Content:    message.Content,
		})

		var recipient models.User
		if err := db.First(&recipient, counterpart).Error; err == nil && recipient.FCMToken != "" {
			go func() {
				if err := services.SendPushToToken(context.Background(), recipient.FCMToken,
					"New message from "+sender.Username, message.Content, map[string]string{
						"proposalId": strconv.FormatUint(uint64(proposal.ID), 10),
					}); err != nil {
					log.Printf("Push notification failed for user %d: %v", counterpart, err)
				}
			}()
		}

		c.JSON(200, utils.SuccessResponse(message, "Message sent"))
	}
}

// MarkMessagesRead marks every message addressed to the caller in the
// thread as read.
func MarkMessagesRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}
		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		if err := db.Model(&models.Message{}).
			Where("proposal_id = ? AND sender_id <> ? AND is_read = ?", proposal.ID, userID, false).
			Update("is_read", true).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to mark messages as read"))
			return
		}

		c.JSON(200, utils.SuccessResponse(nil, "Messages marked as read"))
	}
}
