package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

func profilePayload(user *models.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"bio":               user.Bio,
		"phoneNumber":       user.PhoneNumber,
		"profilePictureUrl": services.GetImageURL(user.ProfilePictureURL),
		"role":              user.Role,
		"twoFactorEnabled":  user.TwoFactorEnabled,
		"credits":           user.Credits,
	}
}

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("User not found"))
			return
		}

		c.JSON(200, utils.SuccessResponse(profilePayload(&user), "Profile retrieved"))
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Username    *string `json:"username"`
			Bio         *string `json:"bio" binding:"omitempty,max=500"`
			PhoneNumber *string `json:"phoneNumber"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("User not found"))
			return
		}

		// Update fields individually so empty strings clear values
		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.Bio != nil {
			user.Bio = *input.Bio
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = *input.PhoneNumber
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to update profile"))
			return
		}

		c.JSON(200, utils.SuccessResponse(profilePayload(&user), "Profile updated"))
	}
}

// UploadProfilePicture stores a new avatar and replaces the old one.
func UploadProfilePicture(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, utils.FailureResponse("User not found"))
			return
		}

		file, err := c.FormFile("picture")
		if err != nil {
			c.JSON(400, utils.FailureResponse("A 'picture' file field is required"))
			return
		}

		imagePath, err := services.UploadImage(file, "avatars")
		if err != nil {
			log.Printf("Avatar upload failed for user %d: %v", userID, err)
			c.JSON(500, utils.FailureResponse("Failed to upload picture"))
			return
		}

		if user.ProfilePictureURL != "" {
			if err := services.DeleteImage(user.ProfilePictureURL); err != nil {
				log.Printf("Failed to delete previous avatar for user %d: %v", userID, err)
			}
		}

		if err := db.Model(&user).Update("profile_picture_url", imagePath).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to save picture"))
			return
		}

		c.JSON(200, utils.SuccessResponse(gin.H{
			"profilePictureUrl": services.GetImageURL(imagePath),
		}, "Profile picture updated"))
	}
}

// RegisterDeviceToken saves an FCM token so the user can receive push
// notifications.
func RegisterDeviceToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", input.Token).Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to register device token"))
			return
		}

		c.JSON(200, utils.SuccessResponse(nil, "Device token registered"))
	}
}

// RemoveDeviceToken clears the stored FCM token on logout.
func RemoveDeviceToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", "").Error; err != nil {
			c.JSON(500, utils.FailureResponse("Failed to remove device token"))
			return
		}

		c.JSON(200, utils.SuccessResponse(nil, "Device token removed"))
	}
}
