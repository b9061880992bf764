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

// Package testutil provides common test helpers for helpdesk-relay
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// UpdateRecord captures one user update received by the mock server.
type UpdateRecord struct {
	ID    int64
	Alias string
}

// MockServer provides common mock server configurations for testing.
// BaseURL() is what a client should be pointed at.
type MockServer struct {
	*httptest.Server

	mu         sync.Mutex
	fetchCount int
	updates    []UpdateRecord

	// UpdateStatus maps user ids to a non-2xx status the update endpoint
	// should answer with. Set before issuing requests.
	UpdateStatus map[int64]int
}

// BaseURL returns the API base URL served by the mock.
func (s *MockServer) BaseURL() string {
	return s.URL + "/api/v2"
}

// FetchCount returns how many user list requests the server has seen.
func (s *MockServer) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCount
}

// Updates returns the update requests received so far, in order.
func (s *MockServer) Updates() []UpdateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UpdateRecord, len(s.updates))
	copy(out, s.updates)
	return out
}

// NewHelpdeskServer creates a mock helpdesk API serving the given pages of
// users from GET /api/v2/users.json and recording PUT /api/v2/users/{id}.json
// requests. Pagination uses a page query parameter with next_page built as an
// absolute URL, absent on the final page.
func NewHelpdeskServer(t *testing.T, pages [][]map[string]interface{}) *MockServer {
	t.Helper()

	mock := &MockServer{UpdateStatus: make(map[int64]int)}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/users.json":
			mock.mu.Lock()
			mock.fetchCount++
			mock.mu.Unlock()

			page := 1
			if p := r.URL.Query().Get("page"); p != "" {
				if n, err := strconv.Atoi(p); err == nil {
					page = n
				}
			}
			if page < 1 || page > len(pages) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"InvalidPage"}`))
				return
			}

			body := map[string]interface{}{
				"users":     pages[page-1],
				"next_page": nil,
			}
			if page < len(pages) {
				body["next_page"] = fmt.Sprintf("%s/api/v2/users.json?page=%d", mock.URL, page+1)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/v2/users/"):
			id, ok := parseUserID(r.URL.Path)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"RecordNotFound"}`))
				return
			}

			var payload struct {
				User struct {
					Alias string `json:"alias"`
				} `json:"user"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"MalformedBody"}`))
				return
			}

			mock.mu.Lock()
			status := mock.UpdateStatus[id]
			if status == 0 {
				mock.updates = append(mock.updates, UpdateRecord{ID: id, Alias: payload.User.Alias})
			}
			mock.mu.Unlock()

			if status != 0 {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":"UpdateRejected"}`))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"user": map[string]interface{}{"id": id, "alias": payload.User.Alias},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"RecordNotFound"}`))
		}
	}))

	t.Cleanup(mock.Close)
	return mock
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	mock := &MockServer{UpdateStatus: make(map[int64]int)}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.fetchCount++
		mock.mu.Unlock()
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))
	t.Cleanup(mock.Close)
	return mock
}

// NewFailingPageServer creates a mock server that serves user pages normally
// until failAtPage (1-based), which answers with the given status instead.
func NewFailingPageServer(t *testing.T, pages [][]map[string]interface{}, failAtPage, statusCode int) *MockServer {
	t.Helper()
	mock := &MockServer{UpdateStatus: make(map[int64]int)}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v2/users.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		mock.mu.Lock()
		mock.fetchCount++
		mock.mu.Unlock()

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				page = n
			}
		}

		if page >= failAtPage {
			w.WriteHeader(statusCode)
			_, _ = w.Write([]byte(http.StatusText(statusCode)))
			return
		}

		body := map[string]interface{}{
			"users":     pages[page-1],
			"next_page": fmt.Sprintf("%s/api/v2/users.json?page=%d", mock.URL, page+1),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(mock.Close)
	return mock
}

// NewRawServer creates a mock server answering every user list request with
// the given literal body. Useful for malformed payload cases.
func NewRawServer(t *testing.T, body string) *MockServer {
	t.Helper()
	mock := &MockServer{UpdateStatus: make(map[int64]int)}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.fetchCount++
		mock.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(mock.Close)
	return mock
}

// GenerateUsers generates user records with ids in [startID, endID], all
// sharing the given role, role_type, and alias.
func GenerateUsers(startID, endID int64, role string, roleType int, alias string) []map[string]interface{} {
	users := make([]map[string]interface{}, 0, endID-startID+1)
	for id := startID; id <= endID; id++ {
		users = append(users, map[string]interface{}{
			"id":        id,
			"name":      fmt.Sprintf("User %d", id),
			"role":      role,
			"role_type": roleType,
			"alias":     alias,
		})
	}
	return users
}

// parseUserID extracts the user id from a /api/v2/users/{id}.json path.
func parseUserID(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/api/v2/users/")
	rest = strings.TrimSuffix(rest, ".json")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
