package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

const defaultTimeout = 30 * time.Second

// HTTPClient is the Client implementation over the JSON API. It is meant
// to be constructed with an *http.Client whose transport is the request
// pipeline (Transport) and whose cookie jar is shared with the credential
// store's cookie medium.
type HTTPClient struct {
	baseURL *url.URL
	httpc   *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, httpc *http.Client, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{baseURL: u, httpc: httpc, log: log}, nil
}

// do performs one JSON round trip. A non-nil in is marshalled as the
// request body; a non-nil out receives the decoded response body. Failure
// statuses are mapped to the common sentinels.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		// bytes.Reader gives the request a GetBody, which the pipeline
		// needs for its single replay.
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatus(resp.StatusCode, data)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, identifier, secret string) (*models.Credentials, error) {
	in := struct {
		Identifier string `json:"identifier"`
		Secret     string `json:"secret"`
	}{identifier, secret}

	var creds models.Credentials
	if err := c.do(ctx, http.MethodPost, common.TokenPath, in, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	in := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, common.TokenRefreshPath, in, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, common.RegisterPath, reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// taskListEnvelope is the paginated listing shape; the API may also return
// a bare array.
type taskListEnvelope struct {
	Count   int           `json:"count"`
	Results []models.Task `json:"results"`
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, common.TasksPath, nil, &raw); err != nil {
		return nil, err
	}

	tasks, err := decodeTaskList(raw)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		c.normalize(ctx, &tasks[i])
	}
	return tasks, nil
}

func decodeTaskList(raw json.RawMessage) ([]models.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []models.Task
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task list: %w", err)
		}
		return tasks, nil
	}

	var env taskListEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode task listing envelope: %w", err)
	}
	return env.Results, nil
}

// normalize coerces out-of-range enum values on a record read from the
// server, logging the anomaly instead of propagating it.
func (c *HTTPClient) normalize(ctx context.Context, t *models.Task) {
	if t.Normalize() {
		c.log.Warn(ctx, "server task record carried out-of-range enum values, coerced",
			"task_id", t.ID, "status", t.Status, "priority", t.Priority)
	}
}

func (c *HTTPClient) taskPath(id int64) string {
	return common.TasksPath + "/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, c.taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	c.normalize(ctx, &task)
	return &task, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be blank", common.ErrValidation)
	}

	var task models.Task
	if err := c.do(ctx, http.MethodPost, common.TasksPath, draft, &task); err != nil {
		return nil, err
	}
	c.normalize(ctx, &task)
	return &task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, c.taskPath(id), patch, &task); err != nil {
		return nil, err
	}
	c.normalize(ctx, &task)
	return &task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.taskPath(id), nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, common.MePath, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, common.MePath, patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ Client = (*HTTPClient)(nil)
