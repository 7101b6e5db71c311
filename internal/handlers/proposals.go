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

const exchangeCredits = 1

func loadProposal(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Preload("Proposer").
		Preload("Recipient").
		Preload("ProposerUserSkill.Skill").
		Preload("RecipientUserSkill.Skill").
		First(&proposal, id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// notifyProposal pushes a status event over the websocket hub and, when
// a device token is registered, over FCM. Best effort on both channels.
func notifyProposal(db *gorm.DB, hub *services.Hub, proposal *models.Proposal, actorID uint, title, body string) {
	target := proposal.CounterpartOf(actorID)

	hub.NotifyUser(target, "proposal_updated", services.ProposalUpdated{
		ProposalID: proposal.ID,
		Status:     string(proposal.Status),
		ActorID:    actorID,
	})

	var user models.User
	if err := db.First(&user, target).Error; err != nil {
		return
	}
	if user.FCMToken != "" {
		go func() {
			if err := services.SendPushToToken(context.Background(), user.FCMToken, title, body, map[string]string{
				"proposalId": strconv.FormatUint(uint64(proposal.ID), 10),
			}); err != nil {
				log.Printf("Push notification failed for user %d: %v", target, err)
			}
		}()
	}
}

// CreateProposal opens a skill exchange: the caller offers one of their
// skills against one of the recipient's.
func CreateProposal(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			RecipientID          uint `json:"recipientId" binding:"required"`
			ProposerUserSkillID  uint `json:"proposerUserSkillId" binding:"required"`
			RecipientUserSkillID uint `json:"recipientUserSkillId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		if input.RecipientID == userID {
			c.JSON(400, utils.FailureResponse("Cannot propose an exchange with yourself"))
			return
		}

		var recipient models.User
		if err := db.First(&recipient, input.RecipientID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("Recipient not found"))
			return
		}

		// Both sides of the exchange must belong to the right users
		var proposerSkill models.UserSkill
		if err := db.First(&proposerSkill, input.ProposerUserSkillID).Error; err != nil || proposerSkill.UserID != userID {
			c.JSON(400, utils.FailureResponse("Proposer skill does not belong to you"))
			return
		}

		var recipientSkill models.UserSkill
		if err := db.First(&recipientSkill, input.RecipientUserSkillID).Error; err != nil || recipientSkill.UserID != input.RecipientID {
			c.JSON(400, utils.FailureResponse("Recipient skill does not belong to the recipient"))
			return
		}

		proposal := models.Proposal{
			ProposerID:           userID,
			RecipientID:          input.RecipientID,
			ProposerUserSkillID:  input.ProposerUserSkillID,
			RecipientUserSkillID: input.RecipientUserSkillID,
			Status:               models.ProposalStatusPending,
		}
		if err := db.Create(&proposal).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to create proposal"))
			return
		}

		var proposer models.User
		db.First(&proposer, userID)

		notifyProposal(db, hub, &proposal, userID, "New proposal",
			proposer.Username+" proposed a skill exchange with you")
		go func() {
			if err := utils.SendProposalReceivedEmail(recipient.Email, recipient.Username, proposer.Username); err != nil {
				log.Printf("Failed to send proposal email to user %d: %v", recipient.ID, err)
			}
		}()

		c.JSON(200, utils.SuccessResponse(proposal, "Proposal sent"))
	}
}

// ListSentProposals returns proposals the caller initiated.
func ListSentProposals(db *gorm.DB) gin.HandlerFunc {
	return listProposals(db, "proposer_id")
}

// ListReceivedProposals returns proposals addressed to the caller.
func ListReceivedProposals(db *gorm.DB) gin.HandlerFunc {
	return listProposals(db, "recipient_id")
}

func listProposals(db *gorm.DB, column string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var proposals []models.Proposal
		err := db.Preload("Proposer").
			Preload("Recipient").
			Preload("ProposerUserSkill.Skill").
			Preload("RecipientUserSkill.Skill").
			Where(column+" = ?", userID).
			Order("created_at DESC").
			Find(&proposals).Error
		if err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(proposals, "Proposals retrieved"))
	}
}

// GetProposal returns one proposal; participants only.
func GetProposal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		proposal, err := loadProposal(db, c.Param("id"))
		if err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}

		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		c.JSON(200, utils.SuccessResponse(proposal, "Proposal retrieved"))
	}
}

// UpdateProposalStatus handles accept, reject and cancel. Only the
// recipient may accept or reject a pending proposal; either party may
// cancel while it is pending or accepted.
func UpdateProposalStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Status string `json:"status" binding:"required,oneof=accepted rejected cancelled"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		proposal, err := loadProposal(db, c.Param("id"))
		if err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}

		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		newStatus := models.ProposalStatus(input.Status)
		switch newStatus {
		case models.ProposalStatusAccepted, models.ProposalStatusRejected:
			if proposal.RecipientID != userID {
				c.JSON(403, utils.FailureResponse("Only the recipient may accept or reject"))
				return
			}
			if proposal.Status != models.ProposalStatusPending {
				c.JSON(400, utils.FailureResponse("Proposal is no longer pending"))
				return
			}
		case models.ProposalStatusCancelled:
			if proposal.Status != models.ProposalStatusPending && proposal.Status != models.ProposalStatusAccepted {
				c.JSON(400, utils.FailureResponse("Proposal can no longer be cancelled"))
				return
			}
		}

		if err := db.Model(proposal).Update("status", newStatus).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to update proposal"))
			return
		}
		proposal.Status = newStatus

		notifyProposal(db, hub, proposal, userID, "Proposal "+input.Status,
			"Your skill-exchange proposal was "+input.Status)

		c.JSON(200, utils.SuccessResponse(proposal, "Proposal "+input.Status))
	}
}

// CompleteProposal marks an accepted exchange as done and credits both
// parties inside one database transaction.
func CompleteProposal(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		proposal, err := loadProposal(db, c.Param("id"))
		if err != nil {
			c.JSON(404, utils.FailureResponse("Proposal not found"))
			return
		}

		if !proposal.Involves(userID) {
			c.JSON(403, utils.FailureResponse("Not allowed"))
			return
		}

		if proposal.Status != models.ProposalStatusAccepted {
			c.JSON(400, utils.FailureResponse("Only accepted proposals can be completed"))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(proposal).Update("status", models.ProposalStatusCompleted).Error; err != nil {
				return err
			}

			for _, partyID := range []uint{proposal.ProposerID, proposal.RecipientID} {
				entry := models.CreditTransaction{
					UserID:      partyID,
					Type:        models.TransactionTypeEarned,
					Amount:      exchangeCredits,
					Description: "Completed skill exchange",
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}

				if err := tx.Model(&models.User{}).Where("id = ?", partyID).
					Update("credits", gorm.Expr("credits + ?", exchangeCredits)).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			log.Printf("Proposal completion error: %v", err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}
		proposal.Status = models.ProposalStatusCompleted

		notifyProposal(db, hub, proposal, userID, "Exchange completed",
			"Your skill exchange was marked as completed")

		c.JSON(200, utils.SuccessResponse(proposal, "Exchange completed"))
	}
}
