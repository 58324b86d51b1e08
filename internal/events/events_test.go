package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

func TestSNSPublish(t *testing.T) {
	fake := &fakeSNS{}
	p := NewSNS(fake, "arn:aws:sns:us-east-1:000000000000:invoices")
	amount := 120.5
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	err := p.Publish(context.Background(), Event{
		Type: InvoiceCreated, UserID: 1, ClientID: 2, InvoiceID: 3, Amount: &amount, OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:invoices", *in.TopicArn)
	assert.Equal(t, "invoice.created", *in.MessageAttributes["event-type"].StringValue)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(*in.Message), &got))
	assert.Equal(t, "invoice.created", got["type"])
	assert.Equal(t, 120.5, got["amount"])
	assert.Equal(t, float64(3), got["invoice_id"])
	assert.NotContains(t, got, "status")
}

func TestSNSPublishError(t *testing.T) {
	fake := &fakeSNS{err: errors.New("throttled")}
	err := NewSNS(fake, "arn").Publish(context.Background(), Event{Type: ClientDeleted})
	assert.ErrorContains(t, err, "client.deleted")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Type: InvoiceDeleted}))
}
