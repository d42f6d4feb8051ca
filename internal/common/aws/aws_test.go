package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := NewMailerWithClient(client, "reports@childcare.example")

	id, err := m.Send(context.Background(), []string{"director@sunny.example"}, "Weekly report", "text", "")
	require.NoError(t, err)

	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "reports@childcare.example", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"director@sunny.example"}, client.input.Destination.ToAddresses)
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestMailer_SendError(t *testing.T) {
	m := NewMailerWithClient(&fakeSES{err: errors.New("throttled")}, "from@x.example")
	_, err := m.Send(context.Background(), []string{"a@b.example"}, "s", "t", "<p>t</p>")
	assert.ErrorContains(t, err, "throttled")
}

func TestTexter_Send(t *testing.T) {
	client := &fakeSNS{}
	tx := NewTexterWithClient(client, "CHILDCARE")

	id, err := tx.Send(context.Background(), "+15551234567", "3 children absent today")
	require.NoError(t, err)

	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "+15551234567", aws.ToString(client.input.PhoneNumber))
	assert.Contains(t, client.input.MessageAttributes, "AWS.SNS.SMS.SenderID")
}
