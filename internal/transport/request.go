package transport

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/agentstation/bangmap/pkg/errors"
)

// maxErrorBody bounds how much of an error response is kept in an APIError.
const maxErrorBody = 512

// CheckResponse returns an APIError for any non-200 response. The body of a
// failed response is drained into the error message and closed.
func CheckResponse(resp *http.Response, provider string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = resp.Status
	}

	apiErr := errors.NewAPIError(provider, resp.StatusCode, message)
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.Endpoint = resp.Request.URL.String()
	}
	return apiErr
}

// StatusText returns the reason phrase of a response, "Not Found" for
// "404 Not Found". It falls back to the standard text for the code.
func StatusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
