package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type ExchangeMessageTrace struct {
	modules.BaseModule
}

var ExchangeMessageTraceOptions = []*types.Option{
	&o.MailboxOpt,
	&o.CountOpt,
	&o.SenderOpt,
}

var ExchangeMessageTraceMetadata = modules.Metadata{
	Id:          "message-trace",
	Name:        "Message Trace",
	Description: "List the newest messages in a mailbox, optionally filtered by sender.",
	Platform:    modules.Exchange,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/user-list-messages"},
}

var ExchangeMessageTraceOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
	op.NewCsvFileProvider,
}

func NewExchangeMessageTrace(options []*types.Option, run types.Run) (modules.Module, error) {
	return &ExchangeMessageTrace{
		BaseModule: modules.BaseModule{
			Metadata:        ExchangeMessageTraceMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(ExchangeMessageTraceOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *ExchangeMessageTrace) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	mailbox := m.GetOptionByName(o.MailboxOpt.Name).Value
	sender := m.GetOptionByName(o.SenderOpt.Name).Value
	count, err := strconv.Atoi(m.GetOptionByName(o.CountOpt.Name).Value)
	if err != nil || count < 1 {
		return fmt.Errorf("invalid count value %q", m.GetOptionByName(o.CountOpt.Name).Value)
	}

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, _, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	queryParams := &users.ItemMessagesRequestBuilderGetQueryParameters{
		Top:     helpers.Int32Ptr(int32(count)),
		Orderby: []string{"receivedDateTime DESC"},
		Select:  []string{"subject", "receivedDateTime", "from", "toRecipients"},
	}
	if sender != "" {
		filter := fmt.Sprintf("from/emailAddress/address eq '%s'", sender)
		queryParams.Filter = &filter
	}
	requestConfig := &users.ItemMessagesRequestBuilderGetRequestConfiguration{
		QueryParameters: queryParams,
	}

	var result models.MessageCollectionResponseable
	err = helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.Users().ByUserId(mailbox).Messages().Get(ctx, requestConfig)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to fetch messages for %s: %s", mailbox, helpers.GraphErrorDetail(err))
	}

	entries := []types.MessageTraceEntry{}
	for _, msg := range result.GetValue() {
		entries = append(entries, traceEntry(msg))
	}

	message.Success("Retrieved %d messages from %s", len(entries), mailbox)
	m.Run.Data <- m.MakeResult(entries, types.WithFilename(op.DefaultFileName("message-trace", "json")))
	m.Run.Data <- m.MakeResult(traceCsv(entries), types.WithFilename(op.DefaultFileName("message-trace", "csv")))
	return nil
}

func traceEntry(msg models.Messageable) types.MessageTraceEntry {
	entry := types.MessageTraceEntry{Subject: helpers.StringValue(msg.GetSubject())}

	if from := msg.GetFrom(); from != nil && from.GetEmailAddress() != nil {
		entry.From = helpers.StringValue(from.GetEmailAddress().GetAddress())
	}
	for _, recipient := range msg.GetToRecipients() {
		if recipient.GetEmailAddress() != nil {
			if addr := recipient.GetEmailAddress().GetAddress(); addr != nil {
				entry.To = append(entry.To, *addr)
			}
		}
	}
	if received := msg.GetReceivedDateTime(); received != nil {
		entry.ReceivedAt = *received
	}

	return entry
}

func traceCsv(entries []types.MessageTraceEntry) types.CSVDocument {
	doc := types.CSVDocument{
		Headers: []string{"receivedDateTime", "from", "to", "subject"},
	}
	for _, entry := range entries {
		doc.Rows = append(doc.Rows, []string{
			entry.ReceivedAt.Format(time.RFC3339),
			entry.From,
			strings.Join(entry.To, "; "),
			entry.Subject,
		})
	}
	return doc
}
