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

package output

// OutputWriter defines the interface for writing per-user sync results.
// This abstraction allows for different output formats (NDJSON, CSV, etc.)
// to be implemented in the future without changing the core logic.
type OutputWriter interface {
	// Write writes a single record to the output.
	// The record should be immediately flushed to avoid memory accumulation.
	Write(record interface{}) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Actions recorded per user in the result stream.
const (
	// ActionUpdated means the alias update call succeeded.
	ActionUpdated = "updated"

	// ActionSkipped means the user already carried the desired alias and no
	// call was made. A run where every record is skipped made zero writes.
	ActionSkipped = "skipped"

	// ActionFailed means the alias update call failed; the run continued
	// with the remaining users.
	ActionFailed = "failed"

	// ActionPlanned means a dry run decided the user would be updated.
	ActionPlanned = "planned"
)

// Record is the per-user result serialized to the NDJSON stream.
type Record struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Alias  string `json:"alias,omitempty"`
	Error  string `json:"error,omitempty"`
}
