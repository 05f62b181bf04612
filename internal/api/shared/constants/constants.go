package constants

const (
	// SERVICE_NAME is reported by the status endpoints
	SERVICE_NAME = "solspace-backend"

	// MAX_REQUEST_BODY_BYTES bounds JSON request bodies
	MAX_REQUEST_BODY_BYTES = 4 << 10

	// REQUEST_ID_HEADER carries the per-request correlation id
	REQUEST_ID_HEADER = "X-Request-ID"
)
