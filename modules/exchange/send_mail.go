package exchange

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
	"github.com/mpvl/unique"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type ExchangeSendMail struct {
	modules.BaseModule
}

var ExchangeSendMailOptions = []*types.Option{
	o.WithDescription(o.MailboxOpt, "mailbox to send from (user principal name)"),
	&o.ToOpt,
	&o.CcOpt,
	&o.BccOpt,
	&o.SubjectOpt,
	&o.BodyOpt,
	&o.BodyHTMLOpt,
	&o.AttachmentsOpt,
}

var ExchangeSendMailMetadata = modules.Metadata{
	Id:          "send-mail",
	Name:        "Send Mail",
	Description: "Send a message from a mailbox with optional HTML body and file attachments.",
	Platform:    modules.Exchange,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/user-sendmail"},
}

var ExchangeSendMailOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
}

func NewExchangeSendMail(options []*types.Option, run types.Run) (modules.Module, error) {
	return &ExchangeSendMail{
		BaseModule: modules.BaseModule{
			Metadata:        ExchangeSendMailMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(ExchangeSendMailOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *ExchangeSendMail) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	mailbox := m.GetOptionByName(o.MailboxOpt.Name).Value
	to := parseRecipients(m.GetOptionByName(o.ToOpt.Name).Value)
	cc := parseRecipients(m.GetOptionByName(o.CcOpt.Name).Value)
	bcc := parseRecipients(m.GetOptionByName(o.BccOpt.Name).Value)
	subject := m.GetOptionByName(o.SubjectOpt.Name).Value
	body := m.GetOptionByName(o.BodyOpt.Name).Value
	bodyHTML := m.GetOptionByName(o.BodyHTMLOpt.Name).Value
	attachPaths := splitPaths(m.GetOptionByName(o.AttachmentsOpt.Name).Value)

	if len(to) == 0 {
		return fmt.Errorf("no valid To recipients")
	}

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, _, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	msg := models.NewMessage()
	msg.SetSubject(&subject)

	msgBody := models.NewItemBody()
	if bodyHTML != "" {
		msgBody.SetContent(&bodyHTML)
		contentType := models.HTML_BODYTYPE
		msgBody.SetContentType(&contentType)
	} else {
		msgBody.SetContent(&body)
		contentType := models.TEXT_BODYTYPE
		msgBody.SetContentType(&contentType)
	}
	msg.SetBody(msgBody)

	msg.SetToRecipients(makeRecipients(to))
	if len(cc) > 0 {
		msg.SetCcRecipients(makeRecipients(cc))
	}
	if len(bcc) > 0 {
		msg.SetBccRecipients(makeRecipients(bcc))
	}

	if len(attachPaths) > 0 {
		attachments, err := makeFileAttachments(attachPaths)
		if err != nil {
			return err
		}
		msg.SetAttachments(attachments)
	}

	requestBody := users.NewItemSendMailPostRequestBody()
	requestBody.SetMessage(msg)

	err = helpers.RetryTransient(ctx, func(ctx context.Context) error {
		return client.Users().ByUserId(mailbox).SendMail().Post(ctx, requestBody, nil)
	})
	if err != nil {
		return fmt.Errorf("failed to send mail from %s: %s", mailbox, helpers.GraphErrorDetail(err))
	}

	message.Success("Sent %q from %s to %s", subject, mailbox, strings.Join(to, ", "))
	m.Run.Data <- m.MakeResult(map[string]any{
		"from":        mailbox,
		"to":          to,
		"cc":          cc,
		"bcc":         bcc,
		"subject":     subject,
		"attachments": len(attachPaths),
	})
	return nil
}

// parseRecipients splits a comma-separated address list, trims whitespace,
// and drops duplicates and empty entries.
func parseRecipients(raw string) []string {
	var addrs []string
	for _, part := range strings.Split(raw, ",") {
		addr := strings.ToLower(strings.TrimSpace(part))
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		addrs = append(addrs, addr)
	}
	unique.Strings(&addrs)
	return addrs
}

func splitPaths(raw string) []string {
	var paths []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func makeRecipients(addrs []string) []models.Recipientable {
	recipients := make([]models.Recipientable, len(addrs))
	for i, addr := range addrs {
		recipient := models.NewRecipient()
		emailAddress := models.NewEmailAddress()
		address := addr
		emailAddress.SetAddress(&address)
		recipient.SetEmailAddress(emailAddress)
		recipients[i] = recipient
	}
	return recipients
}

func makeFileAttachments(paths []string) ([]models.Attachmentable, error) {
	var attachments []models.Attachmentable
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", path, err)
		}

		attachment := models.NewFileAttachment()
		odataType := "#microsoft.graph.fileAttachment"
		attachment.SetOdataType(&odataType)

		fileName := filepath.Base(path)
		attachment.SetName(&fileName)

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		attachment.SetContentType(&contentType)
		attachment.SetContentBytes(data)

		attachments = append(attachments, attachment)
	}
	return attachments, nil
}
