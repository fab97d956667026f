// Package navigation models the client's page state machine. Pages are an
// enum, not URLs; transitions are a priority cascade evaluated against a
// session snapshot on every auth or profile change.
package navigation

// Page is one client page state.
type Page string

const (
	PageLoading           Page = "loading"
	PageHome              Page = "home"
	PageLogin             Page = "login"
	PageSignup            Page = "signup"
	PageProfileCompletion Page = "profile-completion"
	PageProfile           Page = "profile"
	PageUserProfile       Page = "user-profile"
	PageRequests          Page = "requests"
	PageMessages          Page = "messages"
	PageChat              Page = "chat"
	PageBanned            Page = "banned"
	PageAdmin             Page = "admin"
	PageAdminUsers        Page = "admin-users"
	PageAdminSwaps        Page = "admin-swaps"
	PageAdminMessages     Page = "admin-messages"
	PageAdminChat         Page = "admin-chat"
)

// Session is the snapshot the cascade is evaluated against.
type Session struct {
	AuthResolved    bool
	Authenticated   bool
	Banned          bool
	ProfileComplete bool
	Role            string
}

var authOnlyPages = map[Page]bool{
	PageProfile:           true,
	PageUserProfile:       true,
	PageRequests:          true,
	PageMessages:          true,
	PageChat:              true,
	PageProfileCompletion: true,
	PageAdmin:             true,
	PageAdminUsers:        true,
	PageAdminSwaps:        true,
	PageAdminMessages:     true,
	PageAdminChat:         true,
}

var adminOnlyPages = map[Page]bool{
	PageAdmin:         true,
	PageAdminUsers:    true,
	PageAdminSwaps:    true,
	PageAdminMessages: true,
	PageAdminChat:     true,
}

// RequiresAuth reports whether the page is reachable only when signed in.
func RequiresAuth(p Page) bool {
	return authOnlyPages[p]
}

// AdminOnly reports whether the page additionally requires the admin role.
func AdminOnly(p Page) bool {
	return adminOnlyPages[p]
}

// Resolve applies the priority cascade to the current page and returns the
// page the client should render.
//
//  1. Auth unresolved: stay on loading.
//  2. Authenticated and banned: banned, always. Sticky.
//  3. Authenticated with an incomplete profile: profile completion.
//  4. Unauthenticated on an auth-only page: home.
//  5. Authenticated, complete, sitting on login or signup: home.
//
// Admin pages gate separately on role: a non-admin is silently sent home
// rather than shown an error.
func Resolve(current Page, s Session) Page {
	if !s.AuthResolved {
		return PageLoading
	}

	if s.Authenticated && s.Banned {
		return PageBanned
	}

	if s.Authenticated && !s.ProfileComplete {
		return PageProfileCompletion
	}

	// Resolution finished and nothing forced a page: loading lands home.
	if current == PageLoading {
		return PageHome
	}

	if !s.Authenticated && RequiresAuth(current) {
		return PageHome
	}

	if s.Authenticated && s.ProfileComplete && (current == PageLogin || current == PageSignup) {
		return PageHome
	}

	if AdminOnly(current) && s.Role != "admin" {
		return PageHome
	}

	return current
}
