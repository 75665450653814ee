package notify

import (
	"context"
	"fmt"
	"time"

	appcfg "fieldtrack/internal/common/config"
	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/common/metrics"
	"fieldtrack/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Interfaces over the AWS clients so tests can mock the send path.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier sends follow-up reminders over email and SMS. Sends are best
// effort: a delivery failure is logged and counted but never propagated to
// the visit write path.
type Notifier struct {
	sesClient SESService
	snsClient SNSService
	cfg       appcfg.NotificationConfig
	logger    logger.Logger
}

func NewNotifier(ctx context.Context, cfg appcfg.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		cfg:       cfg,
		logger:    log,
	}, nil
}

func newNotifier(sesClient SESService, snsClient SNSService, cfg appcfg.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{sesClient: sesClient, snsClient: snsClient, cfg: cfg, logger: log}
}

// FollowUpScheduled notifies the client that a follow-up has been booked.
// Email goes out when the visit carries an address; SMS when it carries a
// ten digit phone. Each channel is gated by its own config switch.
func (n *Notifier) FollowUpScheduled(ctx context.Context, visit *models.VisitRecord) {
	if visit.FollowUpAt == nil {
		return
	}
	when := visit.FollowUpAt.Format("Mon, 2 Jan 2006 at 15:04")

	if n.cfg.Email.Enabled && visit.ClientEmail != "" {
		subject := "Follow-up visit scheduled"
		body := fmt.Sprintf("Hi %s, %s will follow up with you on %s.",
			visit.ClientName, visit.WorkerName, when)
		if err := n.sendEmail(ctx, visit.ClientEmail, subject, body); err != nil {
			metrics.RemindersSentTotal.WithLabelValues("email", "failure").Inc()
			n.logger.Error("follow-up email failed", map[string]interface{}{
				"visit_id": visit.ID,
				"error":    err.Error(),
			})
		} else {
			metrics.RemindersSentTotal.WithLabelValues("email", "success").Inc()
		}
	}

	if n.cfg.SMS.Enabled && visit.ClientPhone != "" {
		message := fmt.Sprintf("%s will follow up with you on %s.", visit.WorkerName, when)
		if err := n.sendSMS(ctx, "+91"+visit.ClientPhone, message); err != nil {
			metrics.RemindersSentTotal.WithLabelValues("sms", "failure").Inc()
			n.logger.Error("follow-up SMS failed", map[string]interface{}{
				"visit_id": visit.ID,
				"error":    err.Error(),
			})
		} else {
			metrics.RemindersSentTotal.WithLabelValues("sms", "success").Inc()
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError(err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError(err)
	}
	return nil
}
