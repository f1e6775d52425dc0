package client

import "fmt"

// Ring flag values reported by the API.
const (
	RingIdle    = "idle"
	RingRinging = "ringing"
)

// Rider is one row of /get_riders.
type Rider struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Status     string `json:"status"`
	RTime      string `json:"r_time"`
	ATime      string `json:"a_time"`
	DeviceInfo string `json:"device_info"`
	RingStatus string `json:"ring_status"`
}

// Ringing reports whether the rider has an unanswered ring.
func (r Rider) Ringing() bool {
	return r.RingStatus == RingRinging
}

// APIError is a non-2xx answer from the board API.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type addRiderRequest struct {
	Name string `json:"name"`
}

type addRiderResponse struct {
	Code string `json:"code"`
}
