// Package cloudservices fetches and caches the access token used by cloud
// backed features such as CKBox.
package cloudservices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/plugin"
)

// PluginName is the plugin name.
const PluginName = "CloudServices"

// Token fetch errors.
var (
	// ErrNoToken is returned when no token has been fetched or no token URL
	// is configured.
	ErrNoToken = errors.New("no cloud services token")

	// ErrTokenResponse is returned for non-2xx or empty token responses.
	ErrTokenResponse = errors.New("invalid token response")
)

// maxTokenSize bounds the token response body.
const maxTokenSize = 64 << 10

// CloudServices holds the token of one editor.
type CloudServices struct {
	mu       sync.RWMutex
	tokenURL string
	token    string
	fetched  time.Time
	client   *retryablehttp.Client
	log      *logrus.Entry
}

// New creates the plugin.
func New() plugin.Plugin { return &CloudServices{} }

// PluginName implements plugin.Plugin.
func (*CloudServices) PluginName() string { return PluginName }

// Init implements plugin.Plugin. The token is fetched lazily by Refresh.
func (c *CloudServices) Init(host plugin.Host) error {
	c.log = host.Logger().WithField("plugin", PluginName)

	client := retryablehttp.NewClient()
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = leveledLogger{c.log}

	if cfg := host.Config(); cfg != nil {
		c.tokenURL = cfg.TokenURL()
		client.RetryMax = cfg.CloudServices.RetryMax
		client.HTTPClient.Timeout = cfg.CloudServices.Timeout()
	}
	c.client = client
	return nil
}

// TokenURL returns the configured token endpoint.
func (c *CloudServices) TokenURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokenURL
}

// Token returns the cached token.
func (c *CloudServices) Token() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", ErrNoToken
	}
	return c.token, nil
}

// FetchedAt returns when the cached token was fetched.
func (c *CloudServices) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched
}

// Refresh fetches a new token from the token URL and caches it.
func (c *CloudServices) Refresh(ctx context.Context) (string, error) {
	url := c.TokenURL()
	if url == "" {
		return "", fmt.Errorf("refresh: no token url: %w", ErrNoToken)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenSize))
	if err != nil {
		return "", fmt.Errorf("refresh: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("refresh: status %d: %w", resp.StatusCode, ErrTokenResponse)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("refresh: empty body: %w", ErrTokenResponse)
	}

	c.mu.Lock()
	c.token = token
	c.fetched = time.Now()
	c.mu.Unlock()

	c.log.WithField("url", url).Debug("token refreshed")
	return token, nil
}

// EnsureToken returns the cached token, fetching one first when none has
// been fetched yet.
func (c *CloudServices) EnsureToken(ctx context.Context) (string, error) {
	if token, err := c.Token(); err == nil {
		return token, nil
	}
	return c.Refresh(ctx)
}

// Destroy implements plugin.Destroyer.
func (c *CloudServices) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	if c.client != nil {
		c.client.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(kv []interface{}) *logrus.Entry {
	e := l.entry
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.WithField(fmt.Sprint(kv[i]), kv[i+1])
	}
	return e
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Info(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }
