// internal/autosave/alert.go
package autosave

import (
	"context"
	"encoding/json"
	"fmt"

	"survey-workers/internal/routing"
)

// Alerter is told about jobs that could not be persisted anywhere.
type Alerter interface {
	Alert(ctx context.Context, job Job, failure *routing.AllDestinationsFailedError) error
}

// Publisher sends a message to a topic. *aws.SNSClient implements it.
type Publisher interface {
	PublishMessage(ctx context.Context, topicARN, subject, message string) (string, error)
}

// SNSAlerter publishes a dead-letter notice to an SNS topic.
type SNSAlerter struct {
	publisher Publisher
	topicARN  string
}

func NewSNSAlerter(publisher Publisher, topicARN string) *SNSAlerter {
	return &SNSAlerter{publisher: publisher, topicARN: topicARN}
}

type deadLetter struct {
	JobID    string              `json:"jobId"`
	Context  string              `json:"context,omitempty"`
	Fields   []string            `json:"fields"`
	Attempts []deadLetterAttempt `json:"attempts"`
}

type deadLetterAttempt struct {
	Destination routing.Destination `json:"destination"`
	Table       string              `json:"table"`
	Error       string              `json:"error"`
}

func (a *SNSAlerter) Alert(ctx context.Context, job Job, failure *routing.AllDestinationsFailedError) error {
	msg := deadLetter{
		JobID:   job.ID,
		Context: job.Context,
		Fields:  job.Record.Keys(),
	}
	for _, attempt := range failure.Attempts {
		errText := ""
		if attempt.Err != nil {
			errText = attempt.Err.Error()
		}
		msg.Attempts = append(msg.Attempts, deadLetterAttempt{
			Destination: attempt.Destination,
			Table:       attempt.Table,
			Error:       errText,
		})
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode dead letter: %w", err)
	}
	if _, err := a.publisher.PublishMessage(ctx, a.topicARN, "Auto-save failed", string(body)); err != nil {
		return err
	}
	return nil
}
