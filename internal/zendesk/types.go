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

// Package zendesk types define the user records exchanged with the helpdesk API.
package zendesk

import "fmt"

// User represents the subset of a remote user record this tool consumes.
// The remote record is authoritative; a User value is never mutated locally
// except to drive an update request. ID and Role are required on decode;
// Alias and Name may legitimately be empty.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	RoleType int    `json:"role_type"`
	Alias    string `json:"alias"`
}

// UserPage represents one page of users from the list endpoint. NextPage is
// the server-supplied pagination cursor: a full URL to the next page, or
// empty on the final page.
type UserPage struct {
	Users    []User
	NextPage string
}

// UpdateError describes a failed per-user update. It carries the identifier,
// the HTTP status, and the response body (when available) so the caller can
// log the failure and continue with the remaining users.
type UpdateError struct {
	UserID     int64
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("update of user %d failed with status %d", e.UserID, e.StatusCode)
	}
	return fmt.Sprintf("update of user %d failed with status %d: %s", e.UserID, e.StatusCode, e.Body)
}

// IsAuthError reports whether the update failed on credentials. Used by the
// error chain inspector.
func (e *UpdateError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsRateLimitError reports whether the update was rate limited.
func (e *UpdateError) IsRateLimitError() bool {
	return e.StatusCode == 429
}

// IsNotFoundError reports whether the target user does not exist.
func (e *UpdateError) IsNotFoundError() bool {
	return e.StatusCode == 404
}
