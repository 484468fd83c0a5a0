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

// Package main implements the sirseer-scout command-line interface.
// Scout searches GitHub users by name or email, either interactively in a
// terminal UI or as a scriptable command that writes NDJSON.
//
// The CLI supports:
//   - An interactive search screen with debounced input and cached paging
//   - One-shot searches of a single page or every page (--all)
//   - Streaming search terms from stdin with the same debouncing as the UI
//   - A demo mode backed by generated users, no token required
//   - GitHub token authentication via flag or environment variable
//
// Usage:
//
//	scout [flags]
//	scout tui [flags]
//	scout search <term> [flags]
//	scout stream [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	scout search "ada lovelace" --page 2 --output users.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication or rate limit error
//   - 3: Network error
//   - 4: Malformed response from GitHub
package main
