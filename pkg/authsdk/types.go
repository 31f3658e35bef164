package authsdk

import "time"

// ============================================================================
// User Types
// ============================================================================

// SignUpRequest is the body of POST /api/users/sign-up.
type SignUpRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`

	// Photo is the URL of a previously uploaded photo (optional)
	Photo string `json:"photo,omitempty" example:"https://care.example.com/api/users/photos/ada.png"`
}

// SignInRequest is the body of POST /api/users/sign-in.
type SignInRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// UserResponse is the public view of an identity. It never carries the
// password hash or the refresh token.
type UserResponse struct {
	ID            string    `json:"id" example:"01HZY8J4QW3V6X9T2K5N7R1M0B"`
	Name          string    `json:"name" example:"Ada Lovelace"`
	Email         string    `json:"email" example:"ada@example.com"`
	Photo         string    `json:"photo,omitempty"`
	Role          string    `json:"role" example:"User"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	Message string        `json:"message" example:"User login successful"`
	Data    *UserResponse `json:"data,omitempty"`
}

// MessageResponse is the body of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Verification successful"`
}

// CurrentUserResponse is the identity resolved from the session cookies.
type CurrentUserResponse struct {
	ID    string `json:"id" example:"01HZY8J4QW3V6X9T2K5N7R1M0B"`
	Email string `json:"email" example:"ada@example.com"`
	Role  string `json:"role" example:"User"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the identity and code store status
	Database string `json:"database"`

	// Mail indicates whether the mail dispatcher is accepting messages
	Mail string `json:"mail"`
}
