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

// Package output provides utilities for writing search results in NDJSON
// (Newline Delimited JSON) format. Each line holds one user record tagged
// with the term and page it was found on, which makes the output easy to
// feed into jq or a data pipeline.
//
// The primary type is Writer, which provides thread-safe writing of JSON records
// to an io.Writer or file without accumulating records in memory.
//
// Example usage:
//
//	w, err := output.Open("users.ndjson", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.WritePage("octocat", 1, users); err != nil {
//	    log.Printf("Failed to write page: %v", err)
//	}
//
//	fmt.Printf("Wrote %d records\n", w.Count())
package output
