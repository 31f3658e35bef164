package authsdk

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Cookie names used by the service.
const (
	AccessTokenCookie = "accessToken"
	UserIDCookie      = "userId"
)

// Client is a client for the Care Cube authentication service. It keeps the
// session cookies in a jar, so calls made after SignUp or SignIn are
// authenticated until SignOut.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client with an empty cookie jar.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Cookie returns the value of a session cookie held for the service, or ""
// when the jar has none.
func (c *Client) Cookie(name string) string {
	if c.HTTPClient.Jar == nil {
		return ""
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}

	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// SetCookie stores a cookie for the service, replacing any previous value.
// An empty value removes the cookie.
func (c *Client) SetCookie(name, value string) {
	if c.HTTPClient.Jar == nil {
		return
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return
	}

	ck := &http.Cookie{Name: name, Value: value, Path: "/"}
	if value == "" {
		ck.MaxAge = -1
	}
	c.HTTPClient.Jar.SetCookies(u, []*http.Cookie{ck})
}
