package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sid",
		Value:    fmt.Sprintf("%d", sessionId),
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie returns the anonymous session id for the request,
// minting a cookie when none is present yet.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) int {
	sessionId := generateSessionId()
	c, err := r.Cookie("sid")
	if err != nil {
		setSessionCookie(w, r, sessionId)
		return sessionId
	}
	parsed, err := strconv.Atoi(c.Value)
	if err != nil {
		setSessionCookie(w, r, sessionId)
		return sessionId
	}
	return parsed
}
