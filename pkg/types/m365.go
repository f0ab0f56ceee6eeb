package types

import "time"

// DirectoryUser is the flattened projection of an Entra ID user exported by
// the user export module.
type DirectoryUser struct {
	ID                string `json:"id"`
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	AccountEnabled    bool   `json:"accountEnabled"`
	UserType          string `json:"userType"`
	Department        string `json:"department,omitempty"`
	JobTitle          string `json:"jobTitle,omitempty"`
}

// AppRegistration describes an app registration created or inspected by the
// Entra application modules.
type AppRegistration struct {
	ObjectID           string     `json:"objectId"`
	AppID              string     `json:"appId"`
	DisplayName        string     `json:"displayName"`
	TenantID           string     `json:"tenantId,omitempty"`
	ServicePrincipalID string     `json:"servicePrincipalId,omitempty"`
	CreatedAt          *time.Time `json:"createdDateTime,omitempty"`
	CertThumbprint     string     `json:"certThumbprint,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
}

// StaleApp is the cleanup module's verdict for a single app registration.
type StaleApp struct {
	ObjectID        string `json:"objectId"`
	AppID           string `json:"appId"`
	DisplayName     string `json:"displayName"`
	CreatedAt       string `json:"createdDateTime"`
	HasSignIn       bool   `json:"hasSignIn"`
	HasUnexpiredTag bool   `json:"hasUnexpiredTag"`
	Stale           bool   `json:"stale"`
	Deleted         bool   `json:"deleted"`
}

// ManagerLink is one edge of the reporting hierarchy emitted by the
// manager-chain module.
type ManagerLink struct {
	UserPrincipalName    string `json:"userPrincipalName"`
	ManagerPrincipalName string `json:"managerPrincipalName"`
}

// MessageTraceEntry is one mailbox message summarized by the message-trace
// module.
type MessageTraceEntry struct {
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	ReceivedAt time.Time `json:"receivedDateTime"`
}

// SiteWeb is the site-level metadata collected by the SharePoint audit.
type SiteWeb struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Template string `json:"template"`
}

// SiteList is a SharePoint list with its permission inheritance state.
type SiteList struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	BaseTemplate int    `json:"baseTemplate"`
	ItemCount    int    `json:"itemCount"`
	Hidden       bool   `json:"hidden"`
	HasUnique    bool   `json:"hasUniquePermissions"`
}

// RoleDefinition is a SharePoint permission level.
type RoleDefinition struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RoleAssignment binds a principal to a permission level on a web or list.
type RoleAssignment struct {
	Scope         string `json:"scope"` // "web" or the list title
	PrincipalID   int64  `json:"principalId"`
	PrincipalName string `json:"principalName"`
	LoginName     string `json:"loginName"`
	Email         string `json:"email,omitempty"`
	PrincipalType int64  `json:"principalType"`
	RoleName      string `json:"roleName"`
}

// SiteAuditReport is the complete artifact produced by the site audit module.
type SiteAuditReport struct {
	ReportID        string           `json:"reportId"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Web             SiteWeb          `json:"web"`
	Lists           []SiteList       `json:"lists"`
	RoleDefinitions []RoleDefinition `json:"roleDefinitions"`
	Assignments     []RoleAssignment `json:"roleAssignments"`
}

// ActivityContent is one content blob listed by the Office 365 Management
// Activity API.
type ActivityContent struct {
	ContentType       string `json:"contentType"`
	ContentID         string `json:"contentId"`
	ContentURI        string `json:"contentUri"`
	ContentCreated    string `json:"contentCreated"`
	ContentExpiration string `json:"contentExpiration"`
}

// ActivityRecord is a single audit record fetched from a content blob. The
// schema varies per workload so it stays loosely typed.
type ActivityRecord map[string]any
