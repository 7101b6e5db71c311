package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

const companyName = "TalentVerse"

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #5C6BC0; margin: 0;">TalentVerse</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 TalentVerse. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	emailFrom := os.Getenv("EMAIL_FROM")
	emailPassword := os.Getenv("EMAIL_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	// Without SMTP configuration the mail is logged instead of sent so
	// development setups keep working.
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("Email not configured. Would send to %v:\nSubject: %s", to, subject)
		return nil
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "TalentVerse-Mailer"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message)); err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendTwoFactorCodeEmail delivers a login verification code.
func SendTwoFactorCodeEmail(email, username, code string) error {
	subject := "Your TalentVerse Login Code"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Verification Code</h1>
					<p>Hello %s,</p>
					<p>Your Two-Factor Authentication code is:</p>
					<p style="text-align: center; font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #5C6BC0;">%s</p>
					<p>This code will expire in 10 minutes.</p>
					<p>If you didn't request this code, please secure your account immediately.</p>
					<p>Best regards,<br>The TalentVerse Team</p>
				</div>`+emailFooter,
		username, code)

	return sendEmail([]string{email}, subject, body)
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(email, username string) error {
	subject := "Welcome to TalentVerse"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Welcome, %s!</h1>
					<p>Your TalentVerse account is ready. Post the skills you can teach,
					browse what others offer, and start exchanging.</p>
					<p>You have received 5 welcome credits to get started.</p>
					<p>Best regards,<br>The TalentVerse Team</p>
				</div>`+emailFooter,
		username)

	return sendEmail([]string{email}, subject, body)
}

// SendAppointmentScheduledEmail notifies a proposal party about a new session.
func SendAppointmentScheduledEmail(email, username string, meetingTime time.Time, meetingLink string) error {
	linkSection := ""
	if meetingLink != "" {
		linkSection = fmt.Sprintf(`
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s" style="background-color: #5C6BC0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Join Meeting</a>
					</div>`, meetingLink)
	}

	subject := "Session Scheduled - TalentVerse"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Session Scheduled</h1>
					<p>Hello %s,</p>
					<p>A skill-exchange session has been scheduled for <strong>%s</strong>.</p>
					%s
					<p>Best regards,<br>The TalentVerse Team</p>
				</div>`+emailFooter,
		username, meetingTime.Format("Monday, 2 January 2006 at 15:04 MST"), linkSection)

	return sendEmail([]string{email}, subject, body)
}

// SendProposalReceivedEmail notifies a user about a new skill-exchange proposal.
func SendProposalReceivedEmail(email, username, proposerName string) error {
	subject := "New Skill-Exchange Proposal - TalentVerse"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Proposal</h1>
					<p>Hello %s,</p>
					<p><strong>%s</strong> has proposed a skill exchange with you.</p>
					<p>Log in to your TalentVerse account to accept or reject the proposal.</p>
					<p>Best regards,<br>The TalentVerse Team</p>
				</div>`+emailFooter,
		username, proposerName)

	return sendEmail([]string{email}, subject, body)
}
