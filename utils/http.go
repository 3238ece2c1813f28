// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the Slack Web API client and response-URL replies.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
