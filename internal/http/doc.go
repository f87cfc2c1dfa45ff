// Package http provides the HTTP client used for remote APIs.
//
// The Client in this package handles:
//   - A User-Agent header identifying the tool
//   - A timeout long enough for LLM completions
//   - The Do method expected by SDK clients such as go-openai
//
// # Basic Usage
//
//	client := http.NewClient(http.WithTimeout(time.Minute))
//	resp, err := client.Do(req)
package http
