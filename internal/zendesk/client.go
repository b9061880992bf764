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

import "context"

// Client defines the interface for interacting with the helpdesk user API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchUsers retrieves one page of users. An empty pageURL fetches the
	// first page; subsequent pages are fetched by passing the NextPage URL
	// from the previous response. Any failure means the overall user list is
	// incomplete and the caller must abort.
	FetchUsers(ctx context.Context, pageURL string) (*UserPage, error)

	// UpdateAlias sets the alias field of a single user, leaving every other
	// field of the remote record untouched. A failure here is recoverable at
	// the batch level; callers log it and continue with the next user.
	UpdateAlias(ctx context.Context, id int64, alias string) error
}
