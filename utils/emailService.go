package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"lms/config"
)

// SendEmail delivers a single HTML email through SendGrid. When no API key is
// configured the message is logged and dropped, so local development works
// without a SendGrid account.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendGridKey == "" {
		log.Printf("[EMAIL] SendGrid key not set, skipping email to %s (%s)", toEmail, subject)
		return nil
	}

	from := sgmail.NewEmail(config.AppConfig.AppName, config.AppConfig.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid rejected message to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the shared LearnSphere layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B5C; line-height: 1.6; }
			.content h2 { color: #1A2B5C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.stat-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #58A6FF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LearnSphere</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; LearnSphere. Keep learning.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(name, email string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to LearnSphere! Your account is ready.</p>
		<p>Browse the course catalog and enroll in your first course to start
		building a study streak.</p>`, name)

	go SendEmail(name, email, "Welcome to LearnSphere", getEmailTemplate("Welcome aboard!", body))
}

// SendEnrollmentEmail confirms a new course enrollment
func SendEnrollmentEmail(name, email, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are enrolled in <strong>%s</strong>.</p>
		<p>Your progress, bookmarks and quiz scores are tracked automatically.
		Watch at least 90%% of a lesson to mark it complete.</p>`, name, courseTitle)

	go SendEmail(name, email, "Enrollment confirmed: "+courseTitle, getEmailTemplate("You're enrolled!", body))
}

// SendCompletionEmail congratulates a user on finishing a course
func SendCompletionEmail(name, email, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<div class="stat-box">Certificate number: <strong>%s</strong></div>
		<p>Your certificate is available in your profile.</p>`, name, courseTitle, certificateNumber)

	go SendEmail(name, email, "Course completed: "+courseTitle, getEmailTemplate("Course complete!", body))
}

// SendInactivityReminderEmail nudges a user whose streak is about to lapse
func SendInactivityReminderEmail(name, email, courseTitle string, streakDays int) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You haven't studied <strong>%s</strong> today.</p>
		<div class="stat-box">Current streak: <strong>%d day(s)</strong></div>
		<p>A few minutes of watch time keeps your streak alive.</p>`, name, courseTitle, streakDays)

	go SendEmail(name, email, "Don't lose your study streak!", getEmailTemplate("Your streak needs you", body))
}
