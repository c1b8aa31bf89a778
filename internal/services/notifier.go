// society-service/internal/services/notifier.go

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/towerline/society-service/internal/config"
	"github.com/towerline/society-service/internal/models"
	"github.com/towerline/society-service/internal/repositories"
	"github.com/towerline/society-service/internal/utils"
)

// MailClient is the slice of *sendgrid.Client we depend on.
type MailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// AdminNotifier fans a message out to every administrator. All legs are
// best-effort: a failed SMS or email is logged and never propagated, so
// a flaky provider cannot fail the workflow step that triggered it.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, title, body string)
}

type adminNotifier struct {
	cfg           *config.Config
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	twClient      *twilio.RestClient
	sgClient      MailClient
}

func NewAdminNotifier(
	cfg *config.Config,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	twClient *twilio.RestClient,
	sgClient MailClient,
) AdminNotifier {
	return &adminNotifier{
		cfg:           cfg,
		users:         users,
		notifications: notifications,
		twClient:      twClient,
		sgClient:      sgClient,
	}
}

func (n *adminNotifier) NotifyAdmins(ctx context.Context, title, body string) {
	admins, err := n.users.ListAdmins(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("NotifyAdmins: list admins failed")
		return
	}

	for _, admin := range admins {
		// In-app notification row
		record := &models.Notification{
			ID:      uuid.New(),
			UserID:  admin.ID,
			Title:   title,
			Message: body,
		}
		if err := n.notifications.Create(ctx, record); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to create in-app notification for admin %s", admin.ID)
		}

		// ---------- Twilio SMS ----------
		if n.twClient != nil && admin.PhoneNumber != nil && *admin.PhoneNumber != "" {
			params := &twilioApi.CreateMessageParams{}
			params.SetTo(*admin.PhoneNumber)
			params.SetFrom(n.cfg.TwilioFromPhone)
			params.SetBody(title + " :: " + body)
			if _, smsErr := n.twClient.Api.CreateMessage(params); smsErr != nil {
				utils.Logger.WithError(smsErr).Warnf("Failed to send SMS to admin %s", admin.ID)
			}
		}

		// ---------- SendGrid Email ----------
		if n.sgClient != nil && admin.Email != "" {
			from := mail.NewEmail(n.cfg.OrganizationName, n.cfg.SendGridFromEmail)
			to := mail.NewEmail(admin.Name, admin.Email)
			msg := mail.NewSingleEmail(from, title, to, body, "<p>"+body+"</p>")
			if n.cfg.SendGridSandboxMode {
				ms := mail.NewMailSettings()
				ms.SetSandboxMode(mail.NewSetting(true))
				msg.MailSettings = ms
			}
			if _, sgErr := n.sgClient.Send(msg); sgErr != nil {
				utils.Logger.WithError(sgErr).Warnf("Email send failure to admin %s", admin.ID)
			}
		}
	}
}
