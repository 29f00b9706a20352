package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"codefit/internal/config"
	"codefit/internal/models"
	"codefit/internal/repository"
)

// Cloud function names. Every remote operation is a named function invoked
// as POST {base}/functions/{name}.
const (
	FnGetUser         = "getUser"
	FnUpdateUser      = "updateUser"
	FnLogActivity     = "logActivity"
	FnGetStats        = "getStats"
	FnGetAchievements = "getAchievements"
	FnGetMetrics      = "getMetrics"
	FnExportData      = "exportData"
	FnActivateLicense = "activateLicense"
	FnVerifyLicense   = "verifyLicense"
	FnGetOrganization = "getOrganization"
	FnGetTeamStats    = "getTeamStats"
	FnGetAnalytics    = "getAnalytics"
)

// CloudToken is the stored cloud session
type CloudToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Email        string    `json:"email,omitempty"`
}

// SyncSummary reports the outcome of a bulk activity sync
type SyncSummary struct {
	Synced   int       `json:"synced"`
	Total    int       `json:"total"`
	SyncedAt time.Time `json:"synced_at"`
}

type cloudEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CloudService talks to the remote function backend and manages the local
// session token. All calls are bearer-authenticated except sign-in.
type CloudService struct {
	baseURL    string
	httpClient *http.Client
	oauth      *oauth2.Config
	state      *repository.StateRepository
	activities *repository.ActivityRepository
	wellness   *repository.WellnessRepository
	clock      Clock
}

// NewCloudService creates a cloud client from the cloud configuration
func NewCloudService(cfg *config.Config, state *repository.StateRepository, activities *repository.ActivityRepository, wellness *repository.WellnessRepository, clock Clock) *CloudService {
	return &CloudService{
		baseURL:    cfg.CloudBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		oauth: &oauth2.Config{
			ClientID:     cfg.CloudClientID,
			ClientSecret: cfg.CloudClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.CloudBaseURL + "/oauth/authorize",
				TokenURL: cfg.CloudBaseURL + "/oauth/token",
			},
			RedirectURL: "http://localhost:" + cfg.ServerPort + "/auth/callback",
			Scopes:      []string{"profile", "wellness"},
		},
		state:      state,
		activities: activities,
		wellness:   wellness,
		clock:      clock,
	}
}

// SignInURL returns the authorization URL to open in a browser
func (c *CloudService) SignInURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// CompleteSignIn exchanges the authorization code and stores the session
func (c *CloudService) CompleteSignIn(ctx context.Context, code string) error {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	session := CloudToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if err := c.state.Set(repository.KeyCloudToken, session); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// SignOut discards the stored session
func (c *CloudService) SignOut() error {
	return c.state.Set(repository.KeyCloudToken, CloudToken{})
}

// SignedIn reports whether a usable session token is stored
func (c *CloudService) SignedIn() bool {
	tok, err := c.token()
	return err == nil && tok.AccessToken != ""
}

func (c *CloudService) token() (CloudToken, error) {
	var tok CloudToken
	found, err := c.state.Get(repository.KeyCloudToken, &tok)
	if err != nil {
		return CloudToken{}, err
	}
	if !found {
		return CloudToken{}, fmt.Errorf("not signed in")
	}
	return tok, nil
}

// Call invokes a named cloud function with a JSON payload and decodes the
// result envelope into out (which may be nil).
func (c *CloudService) Call(ctx context.Context, name string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/"+name, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, err := c.token(); err == nil && tok.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", name, err)
	}

	var envelope cloudEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", name, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %s", name, envelope.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", name, resp.StatusCode)
	}

	if out != nil && envelope.Result != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", name, err)
		}
	}
	return nil
}

// SyncActivities pushes every activity created since the last sync, one
// logActivity call per record. Failures are logged and skipped; there is no
// automatic retry. The watermark never advances past the oldest failed
// item, so a later manual sync picks the skipped activities up again.
func (c *CloudService) SyncActivities(ctx context.Context) (SyncSummary, error) {
	since, err := c.wellness.LastSyncedAt()
	if err != nil {
		return SyncSummary{}, err
	}

	pending, err := c.activities.CreatedSince(since)
	if err != nil {
		return SyncSummary{}, err
	}

	summary := SyncSummary{Total: len(pending)}
	var oldestFailed time.Time
	for _, activity := range pending {
		if err := c.Call(ctx, FnLogActivity, activity, nil); err != nil {
			log.Printf("sync: skipping activity %s: %v", activity.ID, err)
			if oldestFailed.IsZero() || activity.CreatedAt.Before(oldestFailed) {
				oldestFailed = activity.CreatedAt
			}
			continue
		}
		summary.Synced++
	}

	if summary.Synced > 0 {
		summary.SyncedAt = c.clock.Now()
		watermark := summary.SyncedAt
		if !oldestFailed.IsZero() {
			// CreatedSince is strictly-after, so stay just below the
			// failed item's timestamp
			watermark = oldestFailed.Add(-time.Nanosecond)
		}
		if err := c.wellness.SaveLastSyncedAt(watermark); err != nil {
			return summary, fmt.Errorf("recording sync time: %w", err)
		}
	}
	return summary, nil
}

// PushStats uploads the current stats aggregate
func (c *CloudService) PushStats(ctx context.Context, stats *models.UserStats) error {
	return c.Call(ctx, FnUpdateUser, map[string]any{"stats": stats}, nil)
}

// FetchMetrics retrieves server-side metrics for the dashboard
func (c *CloudService) FetchMetrics(ctx context.Context, out any) error {
	return c.Call(ctx, FnGetMetrics, map[string]any{}, out)
}

// FetchOrganization retrieves the user's organization record, if any
func (c *CloudService) FetchOrganization(ctx context.Context, out any) error {
	return c.Call(ctx, FnGetOrganization, map[string]any{}, out)
}

// FetchTeamStats retrieves aggregated team wellness stats
func (c *CloudService) FetchTeamStats(ctx context.Context, out any) error {
	return c.Call(ctx, FnGetTeamStats, map[string]any{}, out)
}

// FetchAnalytics retrieves usage analytics for the signed-in user
func (c *CloudService) FetchAnalytics(ctx context.Context, out any) error {
	return c.Call(ctx, FnGetAnalytics, map[string]any{}, out)
}
