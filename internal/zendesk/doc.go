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

// Package zendesk provides a client for the helpdesk platform's
// user-management REST API. It covers the two operations the tool needs:
// listing users page by page and updating the alias field of a single user.
//
// The package includes:
//   - A Client interface for fetching user pages and updating aliases
//   - A REST implementation with basic authentication and pagination
//   - Mock client for testing
//   - Type definitions for user records
//
// Basic usage:
//
//	client := zendesk.NewRESTClient("https://acme.zendesk.com/api/v2", "ops@example.com", "token", 100)
//	page, err := client.FetchUsers(ctx, "")
//	if err != nil {
//	    // Handle error; the caller must abort, the list is incomplete
//	}
//	for _, user := range page.Users {
//	    // Process user; follow page.NextPage until empty
//	}
package zendesk
