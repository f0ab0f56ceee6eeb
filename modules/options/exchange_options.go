package options

import "github.com/zer0grav1tas/tenantctl/pkg/types"

var MailboxOpt = types.Option{
	Name:        "mailbox",
	Short:       "m",
	Description: "target mailbox (user principal name)",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var CountOpt = types.Option{
	Name:        "count",
	Description: "number of messages to retrieve",
	Required:    false,
	Type:        types.Int,
	Value:       "25",
}

var SenderOpt = types.Option{
	Name:        "sender",
	Description: "only include messages from this sender address",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var ToOpt = types.Option{
	Name:        "to",
	Description: "comma-separated To recipients",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var CcOpt = types.Option{
	Name:        "cc",
	Description: "comma-separated CC recipients",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var BccOpt = types.Option{
	Name:        "bcc",
	Description: "comma-separated BCC recipients",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var SubjectOpt = types.Option{
	Name:        "subject",
	Description: "message subject",
	Required:    false,
	Type:        types.String,
	Value:       "Automated notification",
}

var BodyOpt = types.Option{
	Name:        "body",
	Description: "plain text message body",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var BodyHTMLOpt = types.Option{
	Name:        "body-html",
	Description: "HTML message body (takes precedence over --body)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var AttachmentsOpt = types.Option{
	Name:        "attach",
	Description: "comma-separated file paths to attach",
	Required:    false,
	Type:        types.String,
	Value:       "",
}
