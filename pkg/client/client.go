package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bjesuiter/github-light/internal/domain"
)

// Client is the API client for the github-light dashboard
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateRepositoryRequest is the creation payload
type CreateRepositoryRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	OwnerLogin        string `json:"ownerLogin"`
	Visibility        string `json:"visibility"`
	AutoInit          bool   `json:"autoInit"`
	GitignoreTemplate string `json:"gitignoreTemplate,omitempty"`
	LicenseTemplate   string `json:"licenseTemplate,omitempty"`
}

// CreatedRepository is the response to a successful creation
type CreatedRepository struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	HTMLURL  string `json:"htmlUrl"`
}

// GetProjects retrieves the owner-grouped repository aggregate; refresh
// bypasses the server-side cache
func (c *Client) GetProjects(refresh bool) (*domain.ProjectsAggregate, error) {
	params := url.Values{}
	if refresh {
		params.Set("refresh", "true")
	}

	var response struct {
		Data *domain.ProjectsAggregate `json:"data"`
	}
	if err := c.get("/api/projects", params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// CreateRepository creates a repository from a draft payload
func (c *Client) CreateRepository(req CreateRepositoryRequest) (*CreatedRepository, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.baseURL+"/api/repos/create", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var response struct {
		Data *CreatedRepository `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// decodeError turns a non-success API response into an error carrying
// the server's message and optional hint
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	if envelope.Hint != "" {
		return fmt.Errorf("%s (%s)", envelope.Error.Message, envelope.Hint)
	}
	return fmt.Errorf("%s", envelope.Error.Message)
}
