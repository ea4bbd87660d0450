// Package clients contains the HTTP clients for the remote collaborators.
// Both the schedule authority and the partner booking systems expose a
// GraphQL endpoint; requests are plain POSTs with a JSON query body.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// postQuery executes one GraphQL request and maps failures into the domain
// taxonomy: transport problems become ErrRemoteUnavailable, GraphQL-level
// errors become ErrRemoteRejected (or ErrNotFound for missing entities), with
// the remote's message preserved for diagnostics.
func postQuery(ctx context.Context, client *http.Client, url, query string, cred auth.Credentials, headers map[string]string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	cred.Apply(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnavailable, url, err)
	}
	defer resp.Body.Close()

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %v", domain.ErrRemoteUnavailable, url, err)
	}

	if len(out.Errors) > 0 {
		msg := out.Errors[0].Message
		if strings.Contains(strings.ToLower(msg), "not found") {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteRejected, msg)
	}

	return out.Data, nil
}
