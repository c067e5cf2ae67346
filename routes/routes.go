// Package routes provides shared API route constants used by the FitRoom
// client to prevent path mismatches between request builders and the
// request pipeline's endpoint classification.
package routes

// API route paths under the versioned prefix.
const (
	// AuthRegister creates an account and returns a token pair.
	AuthRegister = "/auth/register"

	// AuthLogin exchanges credentials for a token pair.
	AuthLogin = "/auth/login"

	// AuthGoogle exchanges a Google ID token for a token pair.
	AuthGoogle = "/auth/google"

	// AuthLogout revokes the supplied refresh token.
	AuthLogout = "/auth/logout"

	// AuthRefresh swaps a refresh token for a fresh token pair.
	AuthRefresh = "/auth/refresh" // #nosec G101 -- route path, not a credential

	// AuthMe returns the current authenticated user's profile.
	AuthMe = "/auth/me"

	// SocialLooks is the published-looks feed (cursor paginated).
	SocialLooks = "/social/looks"

	// SocialProfileMe is the caller's own social profile.
	SocialProfileMe = "/social/profiles/me"

	// SocialProfiles is the prefix for other users' profiles.
	SocialProfiles = "/social/profiles"

	// SocialLookDraftMe is the caller's server-side look draft.
	SocialLookDraftMe = "/social/look-drafts/me"

	// BillingPackages lists purchasable credit packages.
	BillingPackages = "/billing/packages"

	// BillingCheckout creates a checkout session with the payment provider.
	BillingCheckout = "/billing/checkout"

	// BillingPayments is the prefix for payment status lookups.
	BillingPayments = "/billing/payments"

	// BillingBalance returns the caller's credit balance.
	BillingBalance = "/billing/balance"

	// TryOnAnalyze runs a try-on render for a person/clothing image pair.
	TryOnAnalyze = "/try-on/analyze"

	// TryOnStyleHints returns styling suggestions for a finished render.
	TryOnStyleHints = "/try-on/style-hints"
)
