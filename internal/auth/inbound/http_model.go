package inbound

import (
	"strings"

	"github.com/samber/lo"
)

type RequestCodeRequest struct {
	DocumentNumber string `json:"document_number" example:"123456789"`
}

type VerifyCodeRequest struct {
	DocumentNumber string `json:"document_number" example:"123456789"`
	Code           string `json:"code" example:"042913"`
}

type RequestCodeResponse struct {
	DocumentNumber   string `json:"document_number"`
	FullName         string `json:"full_name"`
	EmailHint        string `json:"email_hint"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	// CodeDebug carries the plaintext code only when debug mode is enabled.
	CodeDebug string `json:"code_debug,omitempty"`
}

func (RequestCodeResponse) Message() string {
	return "verification code sent to the registered email address"
}

type ResendCodeResponse struct {
	DocumentNumber   string `json:"document_number"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	CodeDebug        string `json:"code_debug,omitempty"`
}

func (ResendCodeResponse) Message() string {
	return "new verification code sent to the registered email address"
}

type VerifyCodeResponse struct {
	DocumentNumber string `json:"document_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	OfficeCode     string `json:"office_code"`
}

func (VerifyCodeResponse) Message() string {
	return "code verified, access granted"
}

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

// maskEmail hides most of the local part so the response only hints at which
// address the code went to.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return ""
	}

	local := email[:at]
	visible := lo.TernaryF(len(local) > 3, func() string { return local[:3] }, func() string { return local })

	return visible + "***@" + email[at+1:]
}
