package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	AuthCallback(w http.ResponseWriter, r *http.Request)
	User(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
}

type ContextValue string

var (
	ContextOwner = ContextValue("owner")
	ContextRole  = ContextValue("role")
)

// OwnerFromRequest returns the authenticated owner id placed on the
// context by the auth middleware.
func OwnerFromRequest(r *http.Request) string {
	if owner, ok := r.Context().Value(ContextOwner).(string); ok {
		return owner
	}
	return ""
}

func RoleFromRequest(r *http.Request) string {
	if role, ok := r.Context().Value(ContextRole).(string); ok {
		return role
	}
	return "anonymous"
}

const tokenCookieName = "bb-auth"

// GoogleAuth signs owners in with Google and hands out an HS256 JWT
// cookie; service calls authenticate with a static API key instead.
type GoogleAuth struct {
	serverKey    []byte
	serverApiKey string
	authConfig   *oauth2.Config
	adminEmails  map[string]struct{}
}

func NewGoogleAuth() (*GoogleAuth, error) {
	clientId := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	callbackUrl := os.Getenv("CALLBACK_URL")
	if clientId == "" || clientSecret == "" || callbackUrl == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET or CALLBACK_URL environment variable not set")
	}
	hash := os.Getenv("BARKBASE_TOKEN_HASH")
	if hash == "" {
		return nil, fmt.Errorf("BARKBASE_TOKEN_HASH environment variable not set")
	}
	apiKey := os.Getenv("BARKBASE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("BARKBASE_API_KEY environment variable not set")
	}

	adminEmails := make(map[string]struct{})
	for _, email := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			adminEmails[email] = struct{}{}
		}
	}

	return &GoogleAuth{
		serverKey:    []byte(hash),
		serverApiKey: apiKey,
		adminEmails:  adminEmails,
		authConfig: &oauth2.Config{
			ClientID:     clientId,
			ClientSecret: clientSecret,
			RedirectURL:  callbackUrl,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}, nil
}

func generateStateOauthCookie() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func (a *GoogleAuth) roleFor(email string) string {
	if _, ok := a.adminEmails[email]; ok {
		return "admin"
	}
	return "owner"
}

func (a *GoogleAuth) createToken(username, name, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"username": username,
			"name":     name,
			"role":     role,
			"exp":      time.Now().Add(time.Hour * 24).Unix(),
		})
	return token.SignedString(a.serverKey)
}

func (a *GoogleAuth) parseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.serverKey, nil
	})
}

func (a *GoogleAuth) Login(w http.ResponseWriter, r *http.Request) {
	oauthState := generateStateOauthCookie()
	url := a.authConfig.AuthCodeURL(oauthState, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (a *GoogleAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   tokenCookieName,
		Value:  "",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusOK)
}

type userData struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Id            string `json:"id"`
	Picture       string `json:"picture"`
}

func getUserData(token *oauth2.Token) (*userData, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var data userData
	if err = json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (a *GoogleAuth) AuthCallback(w http.ResponseWriter, r *http.Request) {
	token, err := a.authConfig.Exchange(context.Background(), r.FormValue("code"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := getUserData(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ownToken, err := a.createToken(data.Email, data.Name, a.roleFor(data.Email))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    ownToken,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour * 24),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (a *GoogleAuth) User(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	token, err := a.parseToken(cookie.Value)
	if err != nil || !token.Valid {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"username": claims["username"],
		"name":     claims["name"],
		"role":     claims["role"],
	})
}

func (a *GoogleAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ""
		role := "anonymous"

		if auth := r.Header.Get("Authorization"); auth == a.serverApiKey {
			owner = "api"
			role = "api"
		} else {
			cookie, err := r.Cookie(tokenCookieName)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			token, err := a.parseToken(cookie.Value)
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			owner, _ = claims["username"].(string)
			role, _ = claims["role"].(string)
			if owner == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), ContextOwner, owner)
		ctx = context.WithValue(ctx, ContextRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// MockAuth authenticates every request as a fixed owner, used in tests
// and local development.
type MockAuth struct {
	Owner string
	Role  string
}

func (m *MockAuth) Login(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (m *MockAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (m *MockAuth) AuthCallback(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (m *MockAuth) User(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"username":%q,"name":"Mock User","role":%q}`, m.Owner, m.Role)
}

func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextOwner, m.Owner)
		ctx = context.WithValue(ctx, ContextRole, m.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
