package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/dmitrijs2005/sharesaver/internal/metrics"
	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent mimics a desktop browser; the management server sits
// behind the same frontend a browser uses.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

const maxBodySize = 8 << 20

// Options configures NewHTTPClient.
type Options struct {
	BaseURL   string
	Username  string
	Password  string
	UserAgent string
	// Timeout bounds every single request. Defaults to 10s.
	Timeout   time.Duration
	Transport http.RoundTripper
	Metrics   *metrics.Metrics
	Logger    logging.Logger
}

// HTTPClient talks to the management server REST API.
type HTTPClient struct {
	baseURL   string
	username  string
	password  string
	userAgent string
	http      *http.Client
	log       logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("server url is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &HTTPClient{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		username:  opts.Username,
		password:  opts.Password,
		userAgent: opts.UserAgent,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: opts.Metrics.InstrumentRoundTripper(opts.Transport),
		},
		log: opts.Logger,
	}, nil
}

// NewFactory returns a Factory producing independent HTTPClient sessions.
func NewFactory(opts Options) Factory {
	return func() (Client, error) {
		return NewHTTPClient(opts)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func (e envelope) errorText() string {
	if len(e.Error) > 0 && string(e.Error) != "null" {
		var s string
		if err := json.Unmarshal(e.Error, &s); err == nil {
			return s
		}
		return string(e.Error)
	}
	if e.Message != "" {
		return e.Message
	}
	return "no error message"
}

func (c *HTTPClient) Authenticate(ctx context.Context) error {
	if _, err := c.send(ctx, http.MethodGet, "/", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}
	c.log.Debug(ctx, "initial cookies received", "cookies", len(c.cookies()))

	creds := map[string]string{"username": c.username, "password": c.password}
	if _, err := c.send(ctx, http.MethodPost, "/api/auth/login", creds); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	c.log.Debug(ctx, "logged in", "username", c.username)
	return nil
}

func (c *HTTPClient) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.call(ctx, http.MethodGet, "/api/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (c *HTTPClient) ListFolders(ctx context.Context, accountID, folderID models.ID) ([]models.FolderNode, error) {
	path := "/api/folders/" + url.PathEscape(accountID.String()) + "?folderId=" + url.QueryEscape(folderID.String())

	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("list folders of %s: %w", folderID, err)
	}
	nodes, err := decodeOneOrMany[models.FolderNode](raw)
	if err != nil {
		return nil, fmt.Errorf("decode folders of %s: %w", folderID, err)
	}
	return nodes, nil
}

func (c *HTTPClient) ParseShare(ctx context.Context, accountID models.ID, shareLink, accessCode string) ([]models.ShareFolder, error) {
	body := map[string]any{
		"shareLink":  shareLink,
		"accountId":  accountID,
		"accessCode": accessCode,
	}
	var folders []models.ShareFolder
	if err := c.call(ctx, http.MethodPost, "/api/share/parse", body, &folders); err != nil {
		return nil, fmt.Errorf("parse share: %w", err)
	}
	return folders, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, req models.CreateTaskRequest) ([]models.Task, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodPost, "/api/tasks", req, &raw); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	tasks, err := decodeOneOrMany[models.Task](raw)
	if err != nil {
		return nil, fmt.Errorf("decode created tasks: %w", err)
	}
	return tasks, nil
}

func (c *HTTPClient) ExecuteTask(ctx context.Context, taskID models.ID) error {
	if err := c.call(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID.String())+"/execute", nil, nil); err != nil {
		return fmt.Errorf("execute task %s: %w", taskID, err)
	}
	return nil
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, taskID models.ID, deleteCloud bool) error {
	body := map[string]bool{"deleteCloud": deleteCloud}
	if err := c.call(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID.String()), body, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

func (c *HTTPClient) ExecuteAll(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/api/tasks/executeAll", nil, nil); err != nil {
		return fmt.Errorf("execute all tasks: %w", err)
	}
	return nil
}

// call sends a request, checks the {success, data, error} envelope and
// decodes data into out when out is non-nil.
func (c *HTTPClient) call(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: malformed response: %w", ErrServerLogic, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrServerLogic, env.errorText())
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: unexpected data: %w", ErrServerLogic, err)
	}
	return nil
}

// send performs one HTTP exchange and returns the body of a 2xx response.
func (c *HTTPClient) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, path, err)
	}
	c.log.Debug(ctx, "server response", "method", method, "path", path, "status", resp.StatusCode, "body", truncate(raw, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func (c *HTTPClient) cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.http.Jar.Cookies(u)
}

// decodeOneOrMany accepts either a JSON array of T or a single T.
func decodeOneOrMany[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var many []T
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
