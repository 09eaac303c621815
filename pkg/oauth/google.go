package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrFailedToGetUser    = errors.New("failed to get user info from Google")
	ErrInvalidState       = errors.New("invalid state parameter")
	ErrOAuthNotConfigured = errors.New("Google OAuth is not configured")
	ErrEmailNotVerified   = errors.New("Google account email is not verified")
)

const (
	userInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateLifetime = 10 * time.Minute
)

// GoogleUserInfo is the subset of the Google profile used to sign staff in.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleOAuthConfig holds the configuration for Google OAuth
type GoogleOAuthConfig struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	FrontendSuccessURL string
	FrontendErrorURL   string
	// StateSecret signs the state parameter so callbacks can be verified without server-side storage.
	StateSecret string
}

// GoogleOAuthService handles Google sign-in for staff accounts
type GoogleOAuthService struct {
	config             *oauth2.Config
	userInfoURL        string
	stateSecret        []byte
	frontendSuccessURL string
	frontendErrorURL   string
	now                func() time.Time
}

// NewGoogleOAuthService creates a new Google OAuth service
func NewGoogleOAuthService(cfg GoogleOAuthConfig) *GoogleOAuthService {
	return &GoogleOAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL:        userInfoURL,
		stateSecret:        []byte(cfg.StateSecret),
		frontendSuccessURL: cfg.FrontendSuccessURL,
		frontendErrorURL:   cfg.FrontendErrorURL,
		now:                time.Now,
	}
}

// IsConfigured checks if Google OAuth is properly configured
func (s *GoogleOAuthService) IsConfigured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// AuthURL returns the consent URL together with the signed state it embeds.
func (s *GoogleOAuthService) AuthURL() (url, state string) {
	state = s.newState()
	return s.config.AuthCodeURL(state), state
}

// Authenticate verifies state, exchanges code and returns the verified Google profile.
func (s *GoogleOAuthService) Authenticate(ctx context.Context, state, code string) (*GoogleUserInfo, error) {
	if !s.IsConfigured() {
		return nil, ErrOAuthNotConfigured
	}
	if err := s.verifyState(state); err != nil {
		return nil, err
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}
	return info, nil
}

func (s *GoogleOAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := s.config.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrFailedToGetUser, resp.StatusCode, string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	return &info, nil
}

// newState returns "<unix>.<signature>".
func (s *GoogleOAuthService) newState() string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return ts + "." + s.sign(ts)
}

func (s *GoogleOAuthService) verifyState(state string) error {
	ts, sig, ok := strings.Cut(state, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(s.sign(ts))) {
		return ErrInvalidState
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || s.now().Sub(time.Unix(issued, 0)) > stateLifetime {
		return ErrInvalidState
	}
	return nil
}

func (s *GoogleOAuthService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.stateSecret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// FrontendSuccessURL is where the browser lands after a successful sign-in.
func (s *GoogleOAuthService) FrontendSuccessURL() string {
	return s.frontendSuccessURL
}

// FrontendErrorURL is where the browser lands after a failed sign-in.
func (s *GoogleOAuthService) FrontendErrorURL() string {
	return s.frontendErrorURL
}
