package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"codefit/internal/models"
)

// EmailService sends the weekly wellness summary via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	toEmail   string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. If no sender address is
// configured the service is created disabled and all sends become no-ops.
func NewEmailService(awsRegion, fromEmail, toEmail string, debug bool) (*EmailService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Email service disabled: summary addresses not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWeeklySummary emails a digest of the week's wellness numbers
func (s *EmailService) SendWeeklySummary(ctx context.Context, stats *models.UserStats, weekActivities []models.Activity) error {
	if !s.enabled {
		log.Println("Skipping email send (service disabled): weekly summary")
		return nil
	}
	if s.debug {
		log.Printf("[DEBUG] Sending weekly summary to %s: %d activities this week", s.toEmail, len(weekActivities))
	}

	minutes := 0
	for _, a := range weekActivities {
		minutes += a.Duration / 60
	}

	subject := "Your CodeFit weekly summary"
	textBody := fmt.Sprintf(`Here's how your week went:

Exercises completed: %d
Active minutes: %d
Health score: %d/100
Current streak: %d days (longest: %d)
Level: %d (%s), %d XP

Keep moving!

---
This is an automated email from CodeFit. Please do not reply.
`, len(weekActivities), minutes, stats.HealthScore, stats.CurrentStreak,
		stats.LongestStreak, stats.Level, LevelTitle(stats.Level), stats.XP)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send weekly summary: %w", err)
	}
	log.Printf("Weekly summary sent to %s", s.toEmail)
	return nil
}
