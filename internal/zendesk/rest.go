// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zendesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/sirseerhq/helpdesk-relay/internal/deskerror"
	relayerrors "github.com/sirseerhq/helpdesk-relay/internal/errors"
	"github.com/sirseerhq/helpdesk-relay/pkg/version"
)

const (
	// maxErrorBody caps how much of an error response body is carried in
	// error messages and logs.
	maxErrorBody = 2048

	// maxResponseSize caps the size of any response body read from the API.
	maxResponseSize = 10 * 1024 * 1024 // 10MB
)

// RESTClient implements the Client interface against the helpdesk REST API.
// Every request is a single attempt: there are no retries, no backoff, and
// no reactive rate-limit handling.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	inspector  deskerror.Inspector
}

// NewRESTClient creates a client for the given account base URL
// (e.g. https://acme.zendesk.com/api/v2). Authentication uses the platform's
// API-token convention: basic auth with "<email>/token" as the username and
// the API token as the password. The client is configured with:
//   - A User-Agent header for API compliance
//   - Response size limiting to prevent memory issues
//   - Connection pooling tuned for a small sequential request stream
func NewRESTClient(baseURL, email, token string, pageSize int) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			email: email,
			token: token,
			base:  transport,
		},
	}

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		inspector:  deskerror.NewErrorChainInspector(deskerror.NewInspector()),
	}
}

// FetchUsers retrieves one page of users. An empty pageURL requests the first
// page from the list endpoint; otherwise the server-supplied next_page URL is
// followed verbatim. Any failure, including a malformed pagination cursor or
// a user record violating the API contract, is returned as an error: the
// caller must treat the whole list as unavailable.
func (c *RESTClient) FetchUsers(ctx context.Context, pageURL string) (*UserPage, error) {
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/users.json?per_page=%d", c.baseURL, c.pageSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to build user list request for %s", pageURL)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readErrorBody(resp.Body)
		return nil, c.mapStatusError("user list request", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user list response: %v: %w", err, relayerrors.ErrFetchFailed)
	}

	page, err := decodeUserPage(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, relayerrors.ErrFetchFailed)
	}

	return page, nil
}

// UpdateAlias issues one partial update request setting only the alias field
// of the given user. The request body is shaped as {"user": {"alias": ...}}
// so every other field of the remote record stays untouched. A non-2xx
// response is returned as an *UpdateError carrying the status code and the
// response body; the caller decides whether to continue with other users.
func (c *RESTClient) UpdateAlias(ctx context.Context, id int64, alias string) error {
	payload := struct {
		User struct {
			Alias string `json:"alias"`
		} `json:"user"`
	}{}
	payload.User.Alias = alias

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode update for user %d", id)
	}

	updateURL := fmt.Sprintf("%s/users/%d.json", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, updateURL, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to build update request for user %d", id)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpdateError{
			UserID:     id,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// decodeUserPage parses a user list response body. Decoding is deliberately
// strict: a record with a missing id or role violates the API contract and
// poisons the whole page, and a non-empty next_page that is not an absolute
// http(s) URL is rejected rather than fixed up.
func decodeUserPage(data []byte) (*UserPage, error) {
	var body struct {
		Users    []User  `json:"users"`
		NextPage *string `json:"next_page"`
	}

	if err := json.Unmarshal(data, &body); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode user list response")
	}

	for i, u := range body.Users {
		if u.ID == 0 {
			return nil, fmt.Errorf("user record %d has no id", i)
		}
		if u.Role == "" {
			return nil, fmt.Errorf("user record %d (id %d) has no role", i, u.ID)
		}
	}

	page := &UserPage{Users: body.Users}
	if body.NextPage != nil && *body.NextPage != "" {
		next, err := url.Parse(*body.NextPage)
		if err != nil || !next.IsAbs() || next.Host == "" ||
			(next.Scheme != "http" && next.Scheme != "https") {
			return nil, fmt.Errorf("malformed pagination cursor %q", *body.NextPage)
		}
		page.NextPage = *body.NextPage
	}

	return page, nil
}

// mapTransportError maps connection-level failures to domain errors.
func (c *RESTClient) mapTransportError(err error) error {
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error reaching the helpdesk API: %v: %w", err, relayerrors.ErrNetworkFailure)
	}
	return fmt.Errorf("request to the helpdesk API failed: %v: %w", err, relayerrors.ErrFetchFailed)
}

// mapStatusError maps a non-2xx list response to a domain error with an
// actionable message.
func (c *RESTClient) mapStatusError(what string, status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s returned status %d; check the account email and API token: %w",
			what, status, relayerrors.ErrInvalidCredentials)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s returned status %d; the API rate limit was hit: %w",
			what, status, relayerrors.ErrRateLimited)
	default:
		if body != "" {
			return fmt.Errorf("%s returned status %d: %s: %w", what, status, body, relayerrors.ErrFetchFailed)
		}
		return fmt.Errorf("%s returned status %d: %w", what, status, relayerrors.ErrFetchFailed)
	}
}

// readErrorBody reads up to maxErrorBody bytes of a response body for use in
// error messages. Read failures yield an empty string; the status code alone
// still identifies the failure.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// basicAuthTransport adds API-token basic auth and safety limits to HTTP requests.
type basicAuthTransport struct {
	email string
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// API-token convention: username is "<email>/token", password is the token
	req.SetBasicAuth(t.email+"/token", t.token)

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("helpdesk-relay/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}
