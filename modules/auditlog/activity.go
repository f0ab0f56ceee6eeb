package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// Management Activity API endpoints per cloud environment.
var activityEndpoints = map[string]string{
	"enterprise":   "https://manage.office.com/api/v1.0/",
	"gcc-gov":      "https://manage-gcc.office.com/api/v1.0/",
	"gcc-high-gov": "https://manage.office365.us/api/v1.0/",
	"dod-gov":      "https://manage.protection.apps.mil/api/v1.0/",
}

// The feed accepts at most a 24 hour window, no older than 7 days.
const (
	maxWindow   = 24 * time.Hour
	maxLookback = 7 * 24 * time.Hour
)

type AuditActivity struct {
	modules.BaseModule
}

var AuditActivityOptions = []*types.Option{
	&o.ContentTypesOpt,
	&o.StartTimeOpt,
	&o.EndTimeOpt,
	&o.CloudOpt,
	&o.PublisherOpt,
}

var AuditActivityMetadata = modules.Metadata{
	Id:          "activity",
	Name:        "Audit Activity Feed",
	Description: "Fetch unified audit records from the Office 365 Management Activity API.",
	Platform:    modules.Audit,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/office/office-365-management-api/office-365-management-activity-api-reference"},
}

var AuditActivityOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
}

func NewAuditActivity(options []*types.Option, run types.Run) (modules.Module, error) {
	return &AuditActivity{
		BaseModule: modules.BaseModule{
			Metadata:        AuditActivityMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(AuditActivityOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *AuditActivity) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.Secret == "" {
		return fmt.Errorf("the activity feed requires --tenant, --client, and --secret")
	}

	cloud := strings.ToLower(m.GetOptionByName(o.CloudOpt.Name).Value)
	baseURL, ok := activityEndpoints[cloud]
	if !ok {
		return fmt.Errorf("unknown cloud %q", cloud)
	}

	start, end, err := resolveWindow(
		m.GetOptionByName(o.StartTimeOpt.Name).Value,
		m.GetOptionByName(o.EndTimeOpt.Name).Value,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	publisher := m.GetOptionByName(o.PublisherOpt.Name).Value
	if publisher == "" {
		publisher = cfg.TenantID
	}

	contentTypes := splitContentTypes(m.GetOptionByName(o.ContentTypesOpt.Name).Value)
	if len(contentTypes) == 0 {
		return fmt.Errorf("no content types given")
	}

	client := newFeedClient(ctx, cfg, baseURL, publisher)

	records := []types.ActivityRecord{}
	for _, contentType := range contentTypes {
		blobs, err := client.listContent(ctx, contentType, start, end)
		if err != nil {
			return err
		}
		message.Info("%s: %d content blobs between %s and %s", contentType, len(blobs),
			start.Format(time.RFC3339), end.Format(time.RFC3339))

		for _, blob := range blobs {
			fetched, err := client.fetchContent(ctx, blob.ContentURI)
			if err != nil {
				message.Warning("Failed to fetch %s: %v", blob.ContentID, err)
				continue
			}
			records = append(records, fetched...)
		}
	}

	message.Success("Fetched %d audit records", len(records))
	m.Run.Data <- m.MakeResult(records, types.WithFilename(op.DefaultFileName("audit-activity", "json")))
	return nil
}

// resolveWindow applies the feed's limits to the requested query window.
// With no arguments the window is the 24 hours up to now.
func resolveWindow(startRaw, endRaw string, now time.Time) (time.Time, time.Time, error) {
	end := now
	if endRaw != "" {
		var err error
		end, err = time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q: %w", endRaw, err)
		}
	}

	start := end.Add(-maxWindow)
	if startRaw != "" {
		var err error
		start, err = time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q: %w", startRaw, err)
		}
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end time must be after start time")
	}
	if end.Sub(start) > maxWindow {
		return time.Time{}, time.Time{}, fmt.Errorf("query window exceeds 24 hours")
	}
	if now.Sub(start) > maxLookback {
		return time.Time{}, time.Time{}, fmt.Errorf("start time is more than 7 days ago")
	}

	return start, end, nil
}

func splitContentTypes(raw string) []string {
	var contentTypes []string
	for _, part := range strings.Split(raw, ",") {
		if ct := strings.TrimSpace(part); ct != "" {
			contentTypes = append(contentTypes, ct)
		}
	}
	return contentTypes
}

// feedClient talks to the Management Activity API with an app-only token.
type feedClient struct {
	http      *http.Client
	baseURL   string
	tenantID  string
	publisher string
}

func newFeedClient(ctx context.Context, cfg helpers.CredentialConfig, baseURL, publisher string) *feedClient {
	resource := strings.TrimSuffix(baseURL, "/api/v1.0/")

	oauth := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.Secret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{resource + "/.default"},
	}

	return &feedClient{
		http:      oauth.Client(ctx),
		baseURL:   baseURL,
		tenantID:  cfg.TenantID,
		publisher: publisher,
	}
}

func (c *feedClient) listContent(ctx context.Context, contentType string, start, end time.Time) ([]types.ActivityContent, error) {
	query := url.Values{}
	query.Set("contentType", contentType)
	query.Set("startTime", start.Format("2006-01-02T15:04:05"))
	query.Set("endTime", end.Format("2006-01-02T15:04:05"))
	query.Set("PublisherIdentifier", c.publisher)

	endpoint := fmt.Sprintf("%s%s/activity/feed/subscriptions/content?%s", c.baseURL, c.tenantID, query.Encode())

	blobs := []types.ActivityContent{}
	// The content listing pages through the NextPageUri response header.
	for endpoint != "" {
		var page []types.ActivityContent
		next, err := c.getJSON(ctx, endpoint, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s content: %w", contentType, err)
		}
		blobs = append(blobs, page...)
		endpoint = next
	}

	return blobs, nil
}

func (c *feedClient) fetchContent(ctx context.Context, contentURI string) ([]types.ActivityRecord, error) {
	var records []types.ActivityRecord
	_, err := c.getJSON(ctx, contentURI, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *feedClient) getJSON(ctx context.Context, endpoint string, out any) (string, error) {
	backoff := retry.NewFibonacci(1 * time.Second)
	backoff = retry.WithMaxRetries(3, backoff)

	var next string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if helpers.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return retry.RetryableError(err)
			}
			return err
		}

		next = resp.Header.Get("NextPageUri")
		return json.NewDecoder(resp.Body).Decode(out)
	})
	return next, err
}
