package auth

import "net/http"

const RoleAdmin = "ADMIN"

// Caller is the resolved identity of an inbound request. Requests without a
// valid token still produce a Caller with IsAuthenticated=false; operations
// decide themselves whether they need a user, a partner credential, or both.
type Caller struct {
	UserID          int64
	Role            string
	IsAuthenticated bool
	Authorization   string
	APIKey          string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsPartner reports whether the caller presented the shared partner secret.
func (c Caller) IsPartner(partnerAPIKey string) bool {
	return partnerAPIKey != "" && c.APIKey == partnerAPIKey
}

// Credentials returns the forwardable credential pair for outbound calls to
// the schedule authority and partner services.
func (c Caller) Credentials() Credentials {
	return Credentials{Authorization: c.Authorization, APIKey: c.APIKey}
}

// Credentials is the opaque credential material forwarded verbatim on every
// outbound remote call.
type Credentials struct {
	Authorization string
	APIKey        string
}

func (c Credentials) Apply(req *http.Request) {
	if c.Authorization != "" {
		req.Header.Set("Authorization", c.Authorization)
	}
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}
}
