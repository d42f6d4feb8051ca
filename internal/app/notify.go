package app

import (
	"context"

	appaws "childcare-assistant/internal/common/aws"
	deliverreport "childcare-assistant/internal/workers/assistant/deliver-report"
)

// Notifiers builds the SES and SNS senders for the enabled channels. A
// disabled channel is returned as nil.
func (a *App) Notifiers(ctx context.Context) (deliverreport.Mailer, deliverreport.Texter, error) {
	n := a.Config.Notifications
	if !n.Email.Enabled && !n.SMS.Enabled {
		return nil, nil, nil
	}

	awsCfg, err := appaws.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return nil, nil, err
	}

	var (
		mailer deliverreport.Mailer
		texter deliverreport.Texter
	)
	if n.Email.Enabled {
		mailer = appaws.NewMailer(awsCfg, n.Email.FromEmail)
	}
	if n.SMS.Enabled {
		texter = appaws.NewTexter(awsCfg, n.SMS.SenderID)
	}
	return mailer, texter, nil
}
