package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notifyChecklistDone e-mails the compliance team that a checklist was
// completed. Delivery is best effort: failures are logged only.
func (svc *ComplianceService) notifyChecklistDone(r *http.Request, id uuid.UUID) {
	logger := zerolog.Ctx(r.Context())

	if svc.AWSEmailClient == nil || svc.Config == nil {
		return
	}
	from, to := svc.Config.Notifications.SenderEmail, svc.Config.Notifications.ComplianceEmail
	if from == "" || to == "" {
		logger.Debug().Msg("Compliance notifications are not configured")
		return
	}

	checklist, err := svc.DB.GetChecklist(r.Context(), id)
	if err != nil || checklist == nil {
		logger.Warn().Err(err).Str("checklist_id", id.String()).Msg("Could not load checklist for notification")
		return
	}

	subject := fmt.Sprintf("[%s] Checklist completed: %s", checklist.Code, checklist.Title)
	body := fmt.Sprintf("Checklist %s (%s) was marked done by %s.\n\nAssignee: %s\n",
		checklist.Code, checklist.Title, actor(r), checklist.Assignee)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := svc.AWSEmailClient.SendEmail(ctx, input); err != nil {
		event := logger.Error().Err(err).Str("checklist_id", id.String())
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			event = event.Str("error_code", apiErr.ErrorCode())
		}
		event.Msg("Failed to send checklist completion e-mail")
		return
	}

	logger.Info().Str("checklist_id", id.String()).Str("to", to).Msg("Checklist completion e-mail sent")
}
