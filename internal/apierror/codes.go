package apierror

// Error type URIs following the urn:z3st:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:z3st:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:z3st:error:not_found"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:z3st:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:z3st:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:z3st:error:internal"

	// TypeInvalidLocalDate indicates a date that is not a valid YYYY-MM-DD day (400)
	TypeInvalidLocalDate = "urn:z3st:error:invalid_local_date"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:z3st:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation       = "Validation Error"
	TitleNotFound         = "Resource Not Found"
	TitleRateLimit        = "Rate Limit Exceeded"
	TitleUnauthorized     = "Authentication Required"
	TitleInternal         = "Internal Server Error"
	TitleInvalidLocalDate = "Invalid Local Date"
	TitleBadRequest       = "Bad Request"
)
