package apperr

import "github.com/lojatech/precifica/pkg/zerror"

const (
	ValidationErrorCode     = "VALIDATION_FAILED"
	MarginRuleNotFoundCode  = "MARGIN_RULE_NOT_FOUND"
	MarginOutOfRangeCode    = "MARGIN_OUT_OF_RANGE"
	MissingRuleKeyCode      = "MARGIN_RULE_KEY_MISSING"
	FeedUnavailableCode     = "SUPPLIER_FEED_UNAVAILABLE"
	ClientIDRequiredCode    = "CLIENT_ID_REQUIRED"
	SearchTermRequiredCode  = "SEARCH_TERM_REQUIRED"
	UnknownMarginScopeCode  = "UNKNOWN_MARGIN_SCOPE"
)

var (
	ValidationErr         = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	MarginRuleNotFoundErr = zerror.NewNotFound(MarginRuleNotFoundCode, "margin rule not found")
	MarginOutOfRangeErr   = zerror.NewValidationFailed(MarginOutOfRangeCode, "margin percentage must be between 0 and 1000")
	MissingRuleKeyErr     = zerror.NewValidationFailed(MissingRuleKeyCode, "category name or product id is required for this margin type")
	UnknownMarginScopeErr = zerror.NewValidationFailed(UnknownMarginScopeCode, "margin type must be one of global, category, product")
	FeedUnavailableErr    = zerror.NewBadGateway(FeedUnavailableCode, "supplier feed is unavailable")
	ClientIDRequiredErr   = zerror.NewBadRequest(ClientIDRequiredCode, "X-Client-Id header is required")
	SearchTermRequiredErr = zerror.NewBadRequest(SearchTermRequiredCode, "search term is required")
)
