package handlers

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/gorm"
)

const signupBonusCredits = 5

var codeFormat = regexp.MustCompile(`^[0-9]{6}$`)

// UserDto is the account payload returned by register and login.
type UserDto struct {
	Username            string `json:"username,omitempty"`
	Email               string `json:"email"`
	Bio                 string `json:"bio,omitempty"`
	ProfilePictureURL   string `json:"profilePictureUrl,omitempty"`
	Token               string `json:"token,omitempty"`
	IsTwoFactorRequired bool   `json:"isTwoFactorRequired"`
}

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Bio      string `json:"bio" binding:"max=500"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyTwoFactorInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type VerifyCodeInput struct {
	Code string `json:"code" binding:"required"`
}

// codeOwner keys the code store by the account's database id.
func codeOwner(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func findUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// dispatchTwoFactorCode delivers a code by email, and by SMS when a
// phone number is on file. Runs in its own goroutine; failures are
// logged and never abort the caller's response.
func dispatchTwoFactorCode(user models.User, code string) {
	if err := utils.SendTwoFactorCodeEmail(user.Email, user.Username, code); err != nil {
		log.Printf("Failed to email 2FA code to user %d: %v", user.ID, err)
	}

	if user.PhoneNumber != "" {
		if err := utils.SendTwoFactorCodeSMS(user.PhoneNumber, code); err != nil {
			log.Printf("Failed to SMS 2FA code to user %d: %v", user.ID, err)
		}
	}
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		email := models.NormalizeEmail(input.Email)

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}
		if count > 0 {
			c.JSON(400, utils.FailureResponse(utils.MsgUserExists))
			return
		}

		user := models.User{
			Username:    input.Username,
			Email:       email,
			Password:    input.Password,
			Bio:         input.Bio,
			PhoneNumber: input.Phone,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			bonus := models.CreditTransaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeBonus,
				Amount:      signupBonusCredits,
				Description: "Welcome bonus",
			}
			if err := tx.Create(&bonus).Error; err != nil {
				return err
			}

			return tx.Model(&user).Update("credits", signupBonusCredits).Error
		})
		if err != nil {
			log.Printf("Registration error: %v", err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		if result := models.AssignRole(db, &user, models.RoleMember); !result.Succeeded {
			c.JSON(400, utils.FailureResponse("Role assignment failed", result.Errors...))
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		go func() {
			if err := utils.SendWelcomeEmail(user.Email, user.Username); err != nil {
				log.Printf("Failed to send welcome email to user %d: %v", user.ID, err)
			}
		}()

		c.JSON(200, utils.SuccessResponse(UserDto{
			Username: user.Username,
			Email:    user.Email,
			Bio:      user.Bio,
			Token:    token,
		}, utils.MsgRegSuccessful))
	}
}

func Login(db *gorm.DB, codes services.CodeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		// Unknown account and wrong password share one rejection payload
		user, err := findUserByEmail(db, input.Email)
		if err != nil {
			c.JSON(401, utils.FailureResponse(utils.MsgInvalidLogin))
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, utils.FailureResponse(utils.MsgInvalidLogin))
			return
		}

		if user.TwoFactorEnabled {
			code, err := services.GenerateLoginCode()
			if err != nil {
				log.Printf("Login 2FA code generation error: %v", err)
				c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
				return
			}

			if err := codes.Put(c.Request.Context(), codeOwner(user.ID), code); err != nil {
				log.Printf("Login 2FA code store error: %v", err)
				c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
				return
			}

			go dispatchTwoFactorCode(*user, code)

			c.JSON(200, utils.SuccessResponse(UserDto{
				Email:               user.Email,
				IsTwoFactorRequired: true,
			}, "A verification code has been sent to "+user.Email+". Please check your email."))
			return
		}

		token, err := utils.GenerateToken(user)
		if err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(UserDto{
			Username:          user.Username,
			Email:             user.Email,
			Bio:               user.Bio,
			ProfilePictureURL: services.GetImageURL(user.ProfilePictureURL),
			Token:             token,
		}, utils.MsgLoginSuccess))
	}
}

// LoginWith2FA completes a login for accounts with two-factor enabled.
func LoginWith2FA(db *gorm.DB, codes services.CodeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyTwoFactorInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		user, err := findUserByEmail(db, input.Email)
		if err != nil || !user.TwoFactorEnabled {
			c.JSON(401, utils.FailureResponse("Invalid request"))
			return
		}

		code := strings.TrimSpace(input.Code)
		if !codeFormat.MatchString(code) {
			c.JSON(400, utils.FailureResponse(utils.MsgCodeFormat))
			return
		}

		valid, err := codes.Validate(c.Request.Context(), codeOwner(user.ID), code)
		if err != nil {
			log.Printf("2FA validation error for user %d: %v", user.ID, err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		// Accounts enrolled with an authenticator app may submit a
		// time-based code instead of the emailed one.
		if !valid && user.TOTPSecret != "" {
			valid = services.ValidateTOTPCode(code, user.TOTPSecret, time.Now())
		}

		if !valid {
			c.JSON(401, utils.FailureResponse(utils.MsgInvalidCode))
			return
		}

		token, err := utils.GenerateToken(user)
		if err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(UserDto{
			Username:          user.Username,
			Email:             user.Email,
			Bio:               user.Bio,
			ProfilePictureURL: services.GetImageURL(user.ProfilePictureURL),
			Token:             token,
		}, "Login Successful via 2FA"))
	}
}

// RequestTwoFactorCode issues a fresh code for the session user,
// overwriting any previous one.
func RequestTwoFactorCode(db *gorm.DB, codes services.CodeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(401, utils.FailureResponse("User not found"))
			return
		}

		code, err := services.GenerateLoginCode()
		if err != nil {
			log.Printf("2FA code generation error: %v", err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		if err := codes.Put(c.Request.Context(), codeOwner(user.ID), code); err != nil {
			log.Printf("2FA code store error: %v", err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		go dispatchTwoFactorCode(user, code)

		log.Printf("2FA code sent to %s", user.Email)
		c.JSON(200, utils.SuccessResponse("Code sent", "A verification code has been sent to "+user.Email))
	}
}

// EnableTwoFactor turns the second factor on once the caller proves
// control of the notification channel by submitting a valid code.
func EnableTwoFactor(db *gorm.DB, codes services.CodeStore) gin.HandlerFunc {
	return setTwoFactorFlag(db, codes, true, "Two-Factor Authentication has been enabled successfully.")
}

// DisableTwoFactor turns the second factor off, also code-gated.
func DisableTwoFactor(db *gorm.DB, codes services.CodeStore) gin.HandlerFunc {
	return setTwoFactorFlag(db, codes, false, "Two-Factor Authentication has been disabled.")
}

func setTwoFactorFlag(db *gorm.DB, codes services.CodeStore, enabled bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(401, utils.FailureResponse("User not found"))
			return
		}

		var input VerifyCodeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, utils.FailureResponse("Validation Failed", err.Error()))
			return
		}

		code := strings.TrimSpace(input.Code)
		if !codeFormat.MatchString(code) {
			log.Printf("Invalid code format for user %s", user.Email)
			c.JSON(400, utils.FailureResponse(utils.MsgCodeFormat))
			return
		}

		valid, err := codes.Validate(c.Request.Context(), codeOwner(user.ID), code)
		if err != nil {
			log.Printf("2FA validation error for user %d: %v", user.ID, err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}
		if !valid {
			log.Printf("2FA verification failed for user %s", user.Email)
			c.JSON(400, utils.FailureResponse("Invalid or expired code. Please request a new code."))
			return
		}

		if err := db.Model(&user).Update("two_factor_enabled", enabled).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		log.Printf("2FA set to %v for user %s", enabled, user.Email)
		c.JSON(200, utils.SuccessResponse(true, message))
	}
}

// EnrollAuthenticator provisions a TOTP secret so an authenticator app
// can serve as the second factor alongside emailed codes.
func EnrollAuthenticator(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(401, utils.FailureResponse("User not found"))
			return
		}

		secret, uri, err := services.GenerateTOTPSecret(user.Email)
		if err != nil {
			log.Printf("TOTP enrollment error for user %d: %v", user.ID, err)
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		if err := db.Model(&user).Update("totp_secret", secret).Error; err != nil {
			c.JSON(500, utils.FailureResponse(utils.MsgGenericError))
			return
		}

		c.JSON(200, utils.SuccessResponse(gin.H{
			"secret": secret,
			"uri":    uri,
		}, "Scan the provisioning URI with your authenticator app."))
	}
}
