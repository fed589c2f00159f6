package routes

import (
	"fmt"

	"productr/db"
	"productr/models"
	"productr/otp"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	// The client submits the code as either a string or a number.
	OTP interface{} `json:"otp"`
}

// sendOTP issues a fresh login code and acknowledges before the mail leaves
// the building. Delivery failures only show up in the dead-letter log.
func sendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Cannot parse JSON",
		})
	}

	email := otp.NormalizeEmail(req.Email)
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Email is required",
		})
	}

	code := otpStore.Issue(email)
	mail.Send(email, "Productr OTP Code", fmt.Sprintf("Your login code is %s", code))
	zap.S().Infof("OTP issued for %s", email)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent",
	})
}

// verifyOTP consumes the pending code and hands back the canonical email used
// as the session identity. A mismatch leaves the code valid for a retry.
func verifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Cannot parse JSON",
		})
	}

	email := otp.NormalizeEmail(req.Email)
	code := cast.ToString(req.OTP)
	if email == "" || code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Email and otp are required",
		})
	}

	if !otpStore.Verify(email, code) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid code",
		})
	}

	// First successful login registers the user
	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.DB.Create(&models.User{Email: email}).Error; err != nil {
				zap.S().Errorf("failed to register user %s: %s", email, err)
			}
		} else {
			zap.S().Errorf("failed to look up user %s: %s", email, err)
		}
	}

	zap.S().Infof("OTP verified for %s", email)
	return c.JSON(fiber.Map{
		"success": true,
		"email":   email,
	})
}
