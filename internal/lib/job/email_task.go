package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskMagicLinkEmail is the job type name stored in Redis.
	TaskMagicLinkEmail = "email:magic_link"
)

// MagicLinkEmailPayload is the JSON payload of the magic link email task.
type MagicLinkEmailPayload struct {
	To           string `json:"to"`
	Link         string `json:"link"`
	AccessLabel  string `json:"access_label"`
	CompanyName  string `json:"company_name"`
	ValidMinutes int    `json:"valid_minutes"`
	Subdomain    string `json:"subdomain"`
}

// NewMagicLinkEmailTask builds the task that emails an access link.
//
// Links expire quickly, so the task goes to the critical queue and is
// dropped once it outlives the link itself. expiresAt is the exp claim of
// the token carried by the link.
func NewMagicLinkEmailTask(p MagicLinkEmailPayload, expiresAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskMagicLinkEmail,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
		asynq.Deadline(expiresAt),
	), nil
}
