package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

// CreateAppointment books a session on an accepted proposal and emails
// both parties.
func CreateAppointment(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			MeetingTime time.Time `json:"meetingTime" binding:"required"`
			MeetingLink string    `json:"meetingLink" binding:"omitempty,url,max=2048"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		if input.MeetingTime.Before(time.Now()) {
			c.JSON(400, utils.FailureResponse("Meeting time must be in the future"))
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
		if proposal.Status != models.ProposalStatusAccepted {
			c.JSON(400, utils.FailureResponse("Sessions can only be booked on accepted proposals"))
			return
		}

		appointment := models.Appointment{
			ProposalID:  proposal.ID,
			MeetingTime: input.MeetingTime,
			MeetingLink: input.MeetingLink,
		}
		if err := db.Create(&appointment).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to create appointment"))
			return
		}

		hub.NotifyUser(proposal.CounterpartOf(userID), "appointment_scheduled", services.AppointmentScheduled{
			ProposalID:    proposal.ID,
			AppointmentID: appointment.ID,
			MeetingTime:   appointment.MeetingTime.Format(time.RFC3339),
			MeetingLink:   appointment.MeetingLink,
		})

		go func() {
			for _, party := range []models.User{proposal.Proposer, proposal.Recipient} {
				if err := utils.SendAppointmentScheduledEmail(party.Email, party.Username,
					appointment.MeetingTime, appointment.MeetingLink); err != nil {
					log.Printf("Failed to send appointment email to user %d: %v", party.ID, err)
				}
			}
		}()

		c.JSON(200, utils.SuccessResponse(appointment, "Session scheduled"))
	}
}

// ListMyAppointments returns upcoming and past sessions for every
// proposal the caller is a party to.
func ListMyAppointments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var appointments []models.Appointment
		err := db.Preload("Proposal.Proposer").
			Preload("Proposal.Recipient").
			Joins("JOIN proposals ON proposals.id = appointments.proposal_id").
			Where("proposals.proposer_id = ? OR proposals.recipient_id = ?", userID, userID).
			Order("appointments.meeting_time ASC").
			Find(&appointments).Error
		if err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(appointments, "Appointments retrieved"))
	}
}
