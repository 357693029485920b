package statuspage

import "net/http"

// StatusMessage returns a short, human-readable description of the given HTTP
// status code.
func StatusMessage(statusCode int) string {
	switch statusCode {
	// 4xx
	case http.StatusBadRequest:
		return "Your browser has sent a malformed request."
	case http.StatusForbidden:
		return "You do not have access to this resource."
	case http.StatusNotFound:
		return "The page you've requested could not be found."
	case http.StatusRequestHeaderFieldsTooLarge:
		return "Your browser has sent a request header that is too large to process."

	// 5xx
	case http.StatusNotImplemented:
		return "The method you've requested is not supported."
	case http.StatusBadGateway:
		return "The server you've requested could not be contacted."
	}

	if 400 <= statusCode && statusCode <= 599 {
		return "We're sorry, something went wrong!"
	}

	return "That's all we know."
}
