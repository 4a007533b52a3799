// Package apiclient is the HTTP client the flow runner uses to talk to the
// checklist API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/flow"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login authenticates and stores the access token for subsequent calls
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var login models.LoginResponse
	if err := c.do(req, &login); err != nil {
		return nil, err
	}

	c.token = login.AccessToken
	return &login, nil
}

// ListChecklists retrieves the active checklist catalog
func (c *Client) ListChecklists(ctx context.Context) ([]models.Checklist, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/checklists", nil)
	if err != nil {
		return nil, err
	}

	var checklists []models.Checklist
	if err := c.do(req, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// StartExecution opens an execution for a checklist
func (c *Client) StartExecution(ctx context.Context, checklistID uuid.UUID) (*models.StartExecutionResponse, error) {
	url := fmt.Sprintf("%s/checklists/%s/start", c.baseURL, checklistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}

	var start models.StartExecutionResponse
	if err := c.do(req, &start); err != nil {
		return nil, err
	}
	return &start, nil
}

// SubmitAnswer sends one answer as a multipart form, attaching the photo
// file when the input names one
func (c *Client) SubmitAnswer(ctx context.Context, executionID uuid.UUID, in flow.AnswerInput) (*models.Answer, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"questionId":  in.QuestionID.String(),
		"value":       string(in.Value),
		"observation": in.Observation,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if in.PhotoPath != "" {
		if err := attachPhoto(writer, in.PhotoPath); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/executions/%s/answer", c.baseURL, executionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var answer models.AnswerResponse
	if err := c.do(req, &answer); err != nil {
		return nil, err
	}
	return answer.Answer, nil
}

// Finalize closes an execution and returns the conformity percentage
func (c *Client) Finalize(ctx context.Context, executionID uuid.UUID) (float64, error) {
	url := fmt.Sprintf("%s/executions/%s/finalize", c.baseURL, executionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return 0, err
	}

	var result models.FinalizeResponse
	if err := c.do(req, &result); err != nil {
		return 0, err
	}
	return result.ConformityPercentage, nil
}

func attachPhoto(writer *multipart.Writer, photoPath string) error {
	file, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("photo", filepath.Base(photoPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}
	return nil
}

// do executes the request, decoding the JSON response into out on success
// and the API's error payload into an error otherwise
func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("api returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("api returned status %d: %s", resp.StatusCode, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
