package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/deltamirror/internal/client/mirror"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/pkg/api"
)

// DefaultTimeout таймаут запроса по умолчанию
const DefaultTimeout = 30 * time.Second

var _ mirror.Remote = (*Client)(nil)

// Error ответ сервера с кодом ошибки
type Error struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с репозиторием
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент. timeout <= 0 означает DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			// Ограничиваем количество редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// GetLedgerSnapshot получает снимок ledger репозитория
func (c *Client) GetLedgerSnapshot(ctx context.Context) ([]models.FileRecord, error) {
	var resp api.LedgerResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/ledger", nil, &resp); err != nil {
		return nil, fmt.Errorf("get ledger request failed: %w", err)
	}

	records := make([]models.FileRecord, 0, len(resp.Files))
	for _, f := range resp.Files {
		rec, err := fromAPIRecord(f)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetPatch получает патч с базовой версией base.
// mirror.ErrNotFound, если репозиторий такого патча не хранит.
func (c *Client) GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error) {
	path := "/api/v1/patch/" + escapeName(name) + "?base=" + url.QueryEscape(base.String())

	var resp api.PatchResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Code == api.ErrCodeNotFound {
			return nil, fmt.Errorf("%w: patch %s@%s", mirror.ErrNotFound, name, base)
		}
		return nil, fmt.Errorf("get patch request failed: %w", err)
	}

	baseVersion, err := models.ParseVersion(resp.BaseVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid patch base version: %w", err)
	}
	target, err := models.ParseVersion(resp.TargetVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid patch target version: %w", err)
	}

	return &models.Patch{
		CreatedAt:     resp.CreatedAt,
		FileName:      resp.FileName,
		TargetHash:    resp.TargetHash,
		Script:        resp.Script,
		BaseVersion:   baseVersion,
		TargetVersion: target,
	}, nil
}

// GetFullFile получает полное содержимое файла и его запись ledger
func (c *Client) GetFullFile(ctx context.Context, name string) (*models.FullFile, error) {
	var resp api.FullFileResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/files/"+escapeName(name), nil, &resp); err != nil {
		return nil, fmt.Errorf("get file request failed: %w", err)
	}

	rec, err := fromAPIRecord(resp.Record)
	if err != nil {
		return nil, err
	}

	return &models.FullFile{Content: resp.Content, Record: rec}, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return &Error{StatusCode: resp.StatusCode, Code: errResp.Error, Message: errResp.Message}
		}
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// escapeName экранирует каждый сегмент имени, сохраняя "/"
func escapeName(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func fromAPIRecord(f api.FileRecord) (models.FileRecord, error) {
	v, err := models.ParseVersion(f.Version)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("invalid version of %s: %w", f.FileName, err)
	}
	return models.FileRecord{Name: f.FileName, Hash: f.ContentHash, Version: v}, nil
}
