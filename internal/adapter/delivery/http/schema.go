package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

const statusError = "error"

// shortenRequest is the body of POST /shorturls.
type shortenRequest struct {
	URL       string `json:"url" validate:"required,max=2048"`
	Validity  *int   `json:"validity" validate:"omitempty,gt=0"`
	ShortCode string `json:"shortcode" validate:"omitempty,min=4,alphanum"`
}

// toEntity converts the request body to an entity.ShortenRequest.
func (req shortenRequest) toEntity() entity.ShortenRequest {
	return entity.ShortenRequest{
		TargetURL:       req.URL,
		ValidityMinutes: req.Validity,
		ShortCode:       req.ShortCode,
	}
}

// shortenResponse is returned when a short link is created.
type shortenResponse struct {
	ShortLink string    `json:"shortLink"`
	Expiry    time.Time `json:"expiry"`
}

// toShortenResponse builds the short link of url under baseURL.
func toShortenResponse(baseURL string, url *entity.URL) shortenResponse {
	return shortenResponse{
		ShortLink: baseURL + "/" + url.ShortCode,
		Expiry:    url.ExpiresAt,
	}
}

// clickResponse represents a single recorded click.
type clickResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	GeoInfo   string    `json:"geographical_info"`
}

// statsResponse represents the click statistics of a short link.
type statsResponse struct {
	ShortCode   string          `json:"shortcode"`
	OriginalURL string          `json:"original_url"`
	TotalClicks int64           `json:"total_clicks"`
	CreatedAt   time.Time       `json:"created_at"`
	Expiry      time.Time       `json:"expiry"`
	Clicks      []clickResponse `json:"clicks_data"`
	IsExpired   bool            `json:"is_expired"`
}

// toStatsResponse converts an entity.StatsSnapshot to a statsResponse.
func toStatsResponse(snapshot *entity.StatsSnapshot) statsResponse {
	clicks := make([]clickResponse, 0, len(snapshot.ClickEvents))
	for _, c := range snapshot.ClickEvents {
		clicks = append(clicks, clickResponse{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Source:    c.Referrer,
			UserAgent: c.UserAgent,
			IP:        c.ClientIP,
			GeoInfo:   c.GeoHint,
		})
	}

	return statsResponse{
		ShortCode:   snapshot.ShortCode,
		OriginalURL: snapshot.OriginalURL,
		TotalClicks: snapshot.TotalClicks,
		CreatedAt:   snapshot.CreatedAt,
		Expiry:      snapshot.ExpiresAt,
		Clicks:      clicks,
		IsExpired:   snapshot.IsExpired,
	}
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	TotalURLs int       `json:"total_urls"`
}

// serviceInfoResponse lists the service endpoints.
type serviceInfoResponse struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

var serviceInfo = serviceInfoResponse{
	Service: "url-shortener",
	Endpoints: map[string]string{
		"create":   "POST /shorturls",
		"stats":    "GET /shorturls/{shortcode}",
		"redirect": "GET /{shortcode}",
		"health":   "GET /health",
		"docs":     "GET /swagger/index.html",
	},
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// newErrorResponse returns an errorResponse with the given message.
func newErrorResponse(message string) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: message,
	}
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = newErrorResponse("empty request body")
	invalidRequestBodyResponse = newErrorResponse("invalid request body")
	invalidFormatResponse      = newErrorResponse("invalid url or shortcode format")
	invalidValidityResponse    = newErrorResponse("validity must be a positive number of minutes")
	shortCodeExistsResponse    = newErrorResponse("shortcode already exists")
	urlNotFoundResponse        = newErrorResponse("shortcode not found")
	urlExpiredResponse         = newErrorResponse("short link has expired")
	serverErrorResponse        = newErrorResponse("server error occurred")
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "max":
		return "value is too long"
	case "min":
		return "value is too short"
	case "gt":
		return "value must be positive"
	case "alphanum":
		return "only letters and digits are allowed"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	resp := newErrorResponse("validation error")
	resp.Errors = getValidationErrors(err)
	return resp
}
