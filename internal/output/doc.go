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

// Package output provides utilities for writing sync results in NDJSON
// (Newline Delimited JSON) format. Each line contains one valid JSON object
// describing the outcome for a single user, which makes the result stream
// easy to pipe into jq or ingest into log tooling.
//
// The primary type is Writer, which provides thread-safe writing of JSON
// records to an io.Writer or file.
//
// Example usage:
//
//	w, err := output.NewFileWriter("results.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Write(output.Record{ID: 42, Action: output.ActionUpdated}); err != nil {
//	    log.Printf("Failed to write record: %v", err)
//	}
package output
