package common

// SessionCookieName is the HTTP cookie used to carry the session token
// between the browser and the API.
const SessionCookieName = "nutrigenie_session"
