package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

// Client talks to the directory/ledger server over HTTP with JSON bodies
// and a bearer token for authenticated routes.
type Client struct {
	Base  string
	HTTP  *http.Client
	token string
}

// NewClient returns a Client for the given base URL.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: base, HTTP: httpClient}
}

// SetToken installs the bearer token used on authenticated routes.
func (c *Client) SetToken(token string) { c.token = token }

// Signup registers a new user together with their public key records.
func (c *Client) Signup(ctx context.Context, username, email, password string, signing, agreement jwk.Record) error {
	body := map[string]any{
		"username":     username,
		"email":        email,
		"password":     password,
		"signingKey":   signing,
		"agreementKey": agreement,
	}
	return c.post(ctx, "/api/auth/signup", body, nil)
}

// Login exchanges credentials for a bearer token and installs it.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Credentials, error) {
	var out domain.Credentials
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/api/auth/login", body, &out); err != nil {
		return domain.Credentials{}, err
	}
	c.token = out.Token
	return out, nil
}

// ListUsers returns the directory's id+username projection.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	var out []domain.UserSummary
	return out, c.get(ctx, "/api/users", &out)
}

// FetchUser returns a directory entry with its published key records.
func (c *Client) FetchUser(ctx context.Context, id string) (domain.User, error) {
	var out domain.User
	return out, c.get(ctx, "/api/users/"+url.PathEscape(id), &out)
}

// CreateRequest opens a key exchange toward responderID.
func (c *Client) CreateRequest(ctx context.Context, responderID string, agreement jwk.Record, signing *jwk.Record) (string, error) {
	body := map[string]any{
		"receiverId":   responderID,
		"agreementKey": agreement,
		"signingKey":   signing,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/key/request", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// IncomingRequests lists pending requests addressed to us.
func (c *Client) IncomingRequests(ctx context.Context) ([]domain.IncomingRequest, error) {
	var out []domain.IncomingRequest
	return out, c.get(ctx, "/api/key/requests/incoming", &out)
}

// AcceptedRequest fetches the accepted exchange we initiated toward peer,
// if any.
func (c *Client) AcceptedRequest(ctx context.Context, responderID string) (domain.KeyExchangeRequest, bool, error) {
	var out domain.KeyExchangeRequest
	err := c.get(ctx, "/api/key/requests/accepted/"+url.PathEscape(responderID), &out)
	if isStatus(err, http.StatusNotFound) {
		return domain.KeyExchangeRequest{}, false, nil
	}
	if err != nil {
		return domain.KeyExchangeRequest{}, false, err
	}
	return out, true, nil
}

// AcceptRequest accepts a pending exchange addressed to us.
func (c *Client) AcceptRequest(ctx context.Context, requestID string, agreement jwk.Record, signing *jwk.Record) (domain.AcceptResult, error) {
	body := map[string]any{
		"requestId":    requestID,
		"agreementKey": agreement,
		"signingKey":   signing,
	}
	var out domain.AcceptResult
	return out, c.post(ctx, "/api/key/accept", body, &out)
}

// RejectRequest deletes a pending exchange addressed to us.
func (c *Client) RejectRequest(ctx context.Context, requestID string) error {
	return c.post(ctx, "/api/key/reject", map[string]string{"requestId": requestID}, nil)
}

// SendMessage posts a wire envelope for verbatim storage.
func (c *Client) SendMessage(ctx context.Context, msg domain.WireMessage) (domain.StoredMessage, error) {
	var out domain.StoredMessage
	return out, c.post(ctx, "/api/messages", msg, &out)
}

// SendFile uploads a file message for receiverID.
func (c *Client) SendFile(ctx context.Context, receiverID, path string) (domain.StoredMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StoredMessage{}, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	if err := mw.WriteField("to", receiverID); err != nil {
		return domain.StoredMessage{}, err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return domain.StoredMessage{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return domain.StoredMessage{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.StoredMessage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/api/messages/file", buf)
	if err != nil {
		return domain.StoredMessage{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var out domain.StoredMessage
	return out, c.do(req, &out)
}

// History fetches the full conversation with peerID, oldest first.
func (c *Client) History(ctx context.Context, peerID string) ([]domain.StoredMessage, error) {
	var out []domain.StoredMessage
	return out, c.get(ctx, "/api/messages/history/"+url.PathEscape(peerID), &out)
}

// ---------- plumbing ----------

// statusError carries the HTTP status of a non-2xx reply plus the
// server's error text.
type statusError struct {
	Code int
	Msg  string
}

func (e *statusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("server: %s (%d)", e.Msg, e.Code)
	}
	return fmt.Sprintf("server: status %d", e.Code)
}

func isStatus(err error, code int) bool {
	se, ok := err.(*statusError)
	return ok && se.Code == code
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &statusError{Code: resp.StatusCode, Msg: body.Error}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertion that Client implements domain.DirectoryClient.
var _ domain.DirectoryClient = (*Client)(nil)
