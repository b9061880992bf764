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
	"context"
	"fmt"

	relayerrors "github.com/sirseerhq/helpdesk-relay/internal/errors"
)

// UpdateCall records one UpdateAlias invocation on the mock.
type UpdateCall struct {
	ID    int64
	Alias string
}

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Pages to serve, in order. The mock fills in NextPage markers between
	// consecutive pages.
	Pages [][]User

	// FailAtPage makes the fetch of that page (1-based) fail; 0 disables.
	FailAtPage int

	// FetchErr is returned for a failing fetch; defaults to a fetch failure.
	FetchErr error

	// UpdateErrs maps user ids to errors returned by UpdateAlias.
	UpdateErrs map[int64]error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	FetchCalls  int
	UpdateCalls []UpdateCall
}

// NewMockClient creates a new mock client with default test data: one page
// holding an admin whose alias is stale, an agent, and an admin whose alias
// is already aligned.
func NewMockClient() *MockClient {
	return &MockClient{
		Pages:      [][]User{generateTestUsers()},
		UpdateErrs: make(map[int64]error),
	}
}

// FetchUsers implements the Client interface. Pages are served in order
// regardless of the pageURL passed in; the synthetic NextPage markers only
// signal whether another page exists.
func (m *MockClient) FetchUsers(ctx context.Context, pageURL string) (*UserPage, error) {
	m.FetchCalls++

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relayerrors.ErrInvalidCredentials)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relayerrors.ErrNetworkFailure)
	}

	if m.FailAtPage > 0 && m.FetchCalls == m.FailAtPage {
		if m.FetchErr != nil {
			return nil, m.FetchErr
		}
		return nil, fmt.Errorf("page %d unavailable: %w", m.FailAtPage, relayerrors.ErrFetchFailed)
	}

	idx := m.FetchCalls - 1
	if idx >= len(m.Pages) {
		return &UserPage{}, nil
	}

	page := &UserPage{Users: m.Pages[idx]}
	if idx+1 < len(m.Pages) {
		page.NextPage = fmt.Sprintf("https://mock.zendesk.com/api/v2/users.json?page=%d", idx+2)
	}

	return page, nil
}

// UpdateAlias implements the Client interface.
func (m *MockClient) UpdateAlias(ctx context.Context, id int64, alias string) error {
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Alias: alias})

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err, ok := m.UpdateErrs[id]; ok {
		return err
	}

	return nil
}

// generateTestUsers creates sample user data for testing
func generateTestUsers() []User {
	return []User{
		{ID: 1, Name: "Avery Chen", Role: "admin", RoleType: 4, Alias: "old"},
		{ID: 2, Name: "Brook Diaz", Role: "agent", RoleType: 0, Alias: "Support Team"},
		{ID: 3, Name: "Casey Flynn", Role: "admin", RoleType: 4, Alias: "Support Team"},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPages sets the pages of users to serve, in order.
func WithPages(pages ...[]User) MockClientOption {
	return func(m *MockClient) {
		m.Pages = pages
	}
}

// WithFetchFailureAt makes the fetch of the given page (1-based) fail.
func WithFetchFailureAt(page int, err error) MockClientOption {
	return func(m *MockClient) {
		m.FailAtPage = page
		m.FetchErr = err
	}
}

// WithUpdateFailure makes UpdateAlias fail for the given user id.
func WithUpdateFailure(id int64, err error) MockClientOption {
	return func(m *MockClient) {
		m.UpdateErrs[id] = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
