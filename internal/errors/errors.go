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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidCredentials indicates helpdesk API authentication failed.
	// Maps to exit code 2.
	ErrInvalidCredentials = errors.New("invalid helpdesk credentials")

	// ErrFetchFailed indicates the full user list could not be retrieved.
	// Any page failure aborts the entire run: a partial user list must never
	// be treated as complete. Maps to exit code 1.
	ErrFetchFailed = errors.New("user fetch failed")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimited indicates the helpdesk API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimited = errors.New("helpdesk rate limit exceeded")
)
