// internal/workers/assistant/deliver-report/models.go
package deliverreport

type Input struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	HTML    string   `json:"html,omitempty"`
	Email   []string `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
}

type Output struct {
	DeliveryID     string `json:"deliveryId"`
	Status         string `json:"status"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent    = "sent"
	StatusPartial = "partial"
)
