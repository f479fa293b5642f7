// internal/notification/notifier.go

// Package notification delivers assignment and decision notices over SES
// email and SNS SMS. Delivery is fire-and-forget: every failure ends in a log
// line, never in an error returned to the workflow.
package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage"
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Service resolves recipients from the reviewer and profile stores and sends
// through whichever channels are enabled.
type Service struct {
	email     EmailSender
	sms       SMSSender
	reviewers storage.ReviewerStore
	profiles  storage.ProfileStore
	cfg       config.NotificationConfig
	log       logger.Logger
}

func NewService(
	email EmailSender,
	sms SMSSender,
	reviewers storage.ReviewerStore,
	profiles storage.ProfileStore,
	cfg config.NotificationConfig,
	log logger.Logger,
) *Service {
	return &Service{
		email:     email,
		sms:       sms,
		reviewers: reviewers,
		profiles:  profiles,
		cfg:       cfg,
		log:       log,
	}
}

// NotifyAssignment emails the reviewer who just received the case.
func (s *Service) NotifyAssignment(ctx context.Context, app *models.LoanApplication, a *models.Assignment) {
	reviewer, err := s.findReviewer(ctx, a.ReviewerID, a.Tier)
	if err != nil {
		s.logFailure("assignment", app.ApplicationID, err)
		return
	}

	subject := fmt.Sprintf("Loan application %s assigned to you", app.ApplicationID)
	body := fmt.Sprintf(
		"Hello %s,\n\nApplication %s (%s loan, risk tier %s) has been assigned to you for review.",
		reviewer.name, app.ApplicationID, app.LoanType, app.RiskTier,
	)
	if a.Priority != "" {
		subject = fmt.Sprintf("[%s] %s", a.Priority, subject)
	}
	s.sendEmail(ctx, "assignment", app.ApplicationID, reviewer.email, subject, body)
}

// NotifyDecision tells the applicant the outcome over email and SMS.
func (s *Service) NotifyDecision(ctx context.Context, app *models.LoanApplication) {
	profile, err := s.profiles.GetProfile(ctx, app.ApplicantID)
	if err != nil {
		s.logFailure("decision", app.ApplicationID, err)
		return
	}

	outcome := "approved"
	body := fmt.Sprintf("Your loan application %s has been approved.", app.ApplicationID)
	if app.Status == models.StatusRejected {
		outcome = "rejected"
		body = fmt.Sprintf("Your loan application %s has been rejected. Reason: %s", app.ApplicationID, app.DecisionReason)
	}
	subject := fmt.Sprintf("Loan application %s %s", app.ApplicationID, outcome)

	if profile.Email != "" {
		s.sendEmail(ctx, "decision", app.ApplicationID, profile.Email, subject, body)
	}
	if profile.Phone != "" {
		s.sendSMS(ctx, app.ApplicationID, profile.Phone, body)
	}
}

func (s *Service) sendEmail(ctx context.Context, kind, applicationID, to, subject, body string) {
	if !s.cfg.Email.Enabled || s.email == nil || to == "" {
		return
	}
	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.cfg.Email.FromEmail),
	}
	if _, err := s.email.SendEmail(ctx, input); err != nil {
		s.logFailure(kind, applicationID, errors.NewNotificationSendFailedError("email", err))
	}
}

func (s *Service) sendSMS(ctx context.Context, applicationID, phone, message string) {
	if !s.cfg.SMS.Enabled || s.sms == nil {
		return
	}
	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	}
	if _, err := s.sms.Publish(ctx, input); err != nil {
		s.logFailure("decision", applicationID, errors.NewNotificationSendFailedError("sms", err))
	}
}

type recipient struct {
	name  string
	email string
}

func (s *Service) findReviewer(ctx context.Context, reviewerID string, tier models.ReviewTier) (recipient, error) {
	pool, err := s.reviewers.ListReviewers(ctx, tier)
	if err != nil {
		return recipient{}, err
	}
	for _, r := range pool {
		if r.ReviewerID() != reviewerID {
			continue
		}
		switch officer := r.(type) {
		case models.LoanOfficer:
			return recipient{name: officer.FullName(), email: officer.Email}, nil
		case models.ComplianceOfficer:
			return recipient{name: officer.FullName(), email: officer.Email}, nil
		}
		return recipient{name: r.FullName()}, nil
	}
	return recipient{}, errors.NewValidationFailedError(fmt.Sprintf("reviewer %s not in %s pool", reviewerID, tier))
}

func (s *Service) logFailure(kind, applicationID string, err error) {
	s.log.WithError(err).Warn("notification delivery failed", map[string]interface{}{
		"kind":           kind,
		"application_id": applicationID,
	})
}
