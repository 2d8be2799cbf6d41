package api

import (
	"net/url"
	"strconv"
)

// Backend endpoints.
const (
	PathPreregistration        = "/api/preregistration"
	PathConfirmPreregistration = "/api/confirmpreregistration"
	PathIsLoggedIn             = "/api/authentication/isLoggedIn"
	PathGoogleToken            = "/api/authentication/googletoken"
	PathPackSummary            = "/api/summary/pack"
)

// RegistrationPath is GET /api/preregistration/:key.
func RegistrationPath(securityKey string) string {
	return PathPreregistration + "/" + url.PathEscape(securityKey)
}

// PromotePath is POST /api/preregistration/:key/promote.
func PromotePath(securityKey string) string {
	return RegistrationPath(securityKey) + "/promote"
}

// RegistrationInvoicePath is GET /api/preregistration/:key/invoice.
func RegistrationInvoicePath(securityKey string) string {
	return RegistrationPath(securityKey) + "/invoice"
}

// InvoicePath is GET /api/invoice/:id.
func InvoicePath(id uint64) string {
	return "/api/invoice/" + strconv.FormatUint(id, 10)
}
