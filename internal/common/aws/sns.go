// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Texter sends SMS summaries through SNS.
type Texter struct {
	client   SNSService
	senderID string
}

func NewTexter(cfg aws.Config, senderID string) *Texter {
	return NewTexterWithClient(sns.NewFromConfig(cfg), senderID)
}

func NewTexterWithClient(client SNSService, senderID string) *Texter {
	return &Texter{client: client, senderID: senderID}
}

// Send publishes message to a single E.164 phone number.
func (t *Texter) Send(ctx context.Context, phone, message string) (string, error) {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	}
	if t.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(t.senderID)},
		}
	}

	out, err := t.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
