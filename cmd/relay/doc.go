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

// Package main implements the helpdesk-relay command-line interface.
// This tool fetches every user from a helpdesk account, selects users by
// role conditions, and aligns the alias field of the matches, emitting one
// NDJSON result record per considered user.
//
// The CLI supports:
//   - Paginated fetch of the full user list (fail-fast: any page failure aborts)
//   - Role/role_type selection rules from a config file or --role flags
//   - Idempotent updates (users already carrying the alias are skipped)
//   - Per-user update failures that do not abort the batch
//   - Dry runs, customizable output destinations, an optional courtesy delay
//
// Usage:
//
//	helpdesk-relay sync <subdomain> [flags]
//
// Example:
//
//	export HELPDESK_API_TOKEN=your_token
//	helpdesk-relay sync acme --email ops@example.com --alias "Support Team" --role admin:4
//
// Exit codes:
//   - 0: Ran to completion (individual update failures do not change this)
//   - 1: General error, including an aborted fetch
//   - 2: Credential or rate-limit error
//   - 3: Network error
package main
