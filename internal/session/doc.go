// Package session keeps who is signed in across runs.
//
// A Session holds the user returned at login and the service cookies, and is
// saved as TOML (default ~/.local/state/frame/session.toml, mode 0600). Gate
// maps a requested route to allow or redirect: screens other than login and
// register need a session, and a signed-in user is sent from login and
// register to the gallery. The token cookie's exp claim is read without
// verification; an expired token counts as signed out.
//
// Manager wires the account operations (login, register, logout, password
// change) to the session file and the HTTP client's cookie jar.
package session
