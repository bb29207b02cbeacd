package internaldefs

import (
	goIdentity "github.com/MrEthical07/goIdentity"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   goIdentity.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   goIdentity.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goIdentity.MetricLoginSuccess, Name: "goidentity_login_success_total", Help: "Successful logins."},
	{ID: goIdentity.MetricLoginFailure, Name: "goidentity_login_failure_total", Help: "Logins rejected for an unknown identity or a wrong password."},
	{ID: goIdentity.MetricLogout, Name: "goidentity_logout_total", Help: "Revoked sessions."},
	{ID: goIdentity.MetricSignupRequest, Name: "goidentity_signup_request_total", Help: "Verification emails requested."},
	{ID: goIdentity.MetricSignupDuplicate, Name: "goidentity_signup_duplicate_total", Help: "Signups rejected because the email is taken."},
	{ID: goIdentity.MetricSignupSuccess, Name: "goidentity_signup_success_total", Help: "Created users."},
	{ID: goIdentity.MetricAccountDeleted, Name: "goidentity_account_deleted_total", Help: "Deleted users."},
	{ID: goIdentity.MetricPasswordResetRequest, Name: "goidentity_password_reset_request_total", Help: "Password reset emails requested."},
	{ID: goIdentity.MetricPasswordResetUnknownEmail, Name: "goidentity_password_reset_unknown_email_total", Help: "Password resets requested for unknown addresses."},
	{ID: goIdentity.MetricPasswordResetSuccess, Name: "goidentity_password_reset_success_total", Help: "Changed passwords."},
	{ID: goIdentity.MetricPasswordResetNoop, Name: "goidentity_password_reset_noop_total", Help: "Resets to the current password."},
	{ID: goIdentity.MetricMFARequired, Name: "goidentity_mfa_required_total", Help: "Operations that asked for a one-time code."},
	{ID: goIdentity.MetricMFAFailure, Name: "goidentity_mfa_failure_total", Help: "Rejected one-time codes."},
	{ID: goIdentity.MetricMFASuccess, Name: "goidentity_mfa_success_total", Help: "Accepted one-time codes."},
	{ID: goIdentity.MetricMFAEnrollmentAck, Name: "goidentity_mfa_enrollment_ack_total", Help: "Authenticator seeds provisioned and awaiting confirmation."},
	{ID: goIdentity.MetricMFAEnabled, Name: "goidentity_mfa_enabled_total", Help: "Second factors enabled."},
	{ID: goIdentity.MetricMFADisabled, Name: "goidentity_mfa_disabled_total", Help: "Second factors disabled."},
	{ID: goIdentity.MetricTokenRejected, Name: "goidentity_token_rejected_total", Help: "Tokens revoked, consumed or colliding."},
	{ID: goIdentity.MetricWrongToken, Name: "goidentity_wrong_token_total", Help: "Valid tokens presented to the wrong operation."},
	{ID: goIdentity.MetricBestEffortFailure, Name: "goidentity_best_effort_failure_total", Help: "Failed cleanups after a committed operation."},
}

var HistogramDefs = []HistogramDef{
	{ID: goIdentity.MetricValidateLatency, Name: "goidentity_session_validate_latency_seconds", Help: "Session validation latency."},
}

// HistogramBounds are the upper bounds of the engine's latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix spells HistogramBounds for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
