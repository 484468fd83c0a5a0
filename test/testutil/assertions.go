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

package testutil

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// AssertNDJSONUsers validates that r holds NDJSON user records and returns
// their logins in order.
func AssertNDJSONUsers(t *testing.T, r io.Reader, expectedCount int) []string {
	t.Helper()

	scanner := bufio.NewScanner(r)
	logins := make([]string, 0, expectedCount)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var user map[string]interface{}
		if err := json.Unmarshal([]byte(line), &user); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", len(logins)+1, err)
			continue
		}

		requiredFields := []string{"id", "kind", "login", "avatar_url", "url", "public_repos", "created_at", "updated_at"}
		for _, field := range requiredFields {
			if _, ok := user[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", len(logins)+1, field)
			}
		}

		login, _ := user["login"].(string)
		logins = append(logins, login)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading output: %v", err)
	}

	if len(logins) != expectedCount {
		t.Errorf("Expected %d users, got %d", expectedCount, len(logins))
	}

	return logins
}

// AssertNDJSONFile opens path and validates it with AssertNDJSONUsers.
func AssertNDJSONFile(t *testing.T, path string, expectedCount int) []string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	return AssertNDJSONUsers(t, file, expectedCount)
}

// AssertMetadataFile validates that dir holds exactly one session metadata
// file and decodes it into v.
func AssertMetadataFile(t *testing.T, dir string, v interface{}) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "session-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 metadata file in %s, found %d", dir, len(matches))
	}

	ReadJSON(t, matches[0], v)
}
