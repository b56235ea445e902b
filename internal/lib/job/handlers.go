package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/linkcondo/internal/lib/email"
	"github.com/hibiken/asynq"
)

// magicLinkSender is the part of email.Client the worker needs.
type magicLinkSender interface {
	SendMagicLinkEmail(ctx context.Context, to string, data email.MagicLinkData) error
}

// handleMagicLinkEmailTask decodes the payload and sends the email.
// A returned error makes asynq retry the task.
func (j *JobService) handleMagicLinkEmailTask(ctx context.Context, t *asynq.Task) error {
	var p MagicLinkEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal magic link email payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskMagicLinkEmail).
		Str("subdomain", p.Subdomain).
		Logger()

	logger.Info().Msg("processing magic link email task")

	err := j.emails.SendMagicLinkEmail(ctx, p.To, email.MagicLinkData{
		Link:         p.Link,
		AccessLabel:  p.AccessLabel,
		CompanyName:  p.CompanyName,
		ValidMinutes: p.ValidMinutes,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send magic link email")
		return err
	}

	logger.Info().Msg("sent magic link email")
	return nil
}
