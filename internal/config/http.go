package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type HTTP struct {
	Address      InterpolatedString   `yaml:"address"`
	BaseURL      InterpolatedString   `yaml:"baseUrl"`
	TemplatesDir InterpolatedString   `yaml:"templatesDir"`
	Session      Session              `yaml:"session"`
	CSRF         CSRF                 `yaml:"csrf"`
	RateLimit    RateLimit            `yaml:"rateLimit"`
	SlowRequest  InterpolatedDuration `yaml:"slowRequest"`
}

type Session struct {
	Keys   InterpolatedStringSlice `yaml:"keys"`
	Cookie Cookie                  `yaml:"cookie"`
}

type Cookie struct {
	Name     InterpolatedString `yaml:"name"`
	Path     InterpolatedString `yaml:"path"`
	HTTPOnly InterpolatedBool   `yaml:"httpOnly"`
	Secure   InterpolatedBool   `yaml:"secure"`
	MaxAge   InterpolatedInt    `yaml:"maxAge"`
}

type CSRF struct {
	Key            InterpolatedString      `yaml:"key"`
	TrustedOrigins InterpolatedStringSlice `yaml:"trustedOrigins"`
}

type RateLimit struct {
	Enabled InterpolatedBool  `yaml:"enabled"`
	Rate    InterpolatedFloat `yaml:"rate"`
	Burst   InterpolatedInt   `yaml:"burst"`
}

func NewDefaultHTTPConfig() HTTP {
	return HTTP{
		Address:      "${FITHUB_HTTP_ADDRESS:-:8080}",
		BaseURL:      "${FITHUB_HTTP_BASE_URL:-http://localhost:8080}",
		TemplatesDir: "${FITHUB_HTTP_TEMPLATES_DIR:-}",
		Session: Session{
			Keys: InterpolatedStringSlice{"${FITHUB_HTTP_SESSION_KEY:-}"},
			Cookie: Cookie{
				Name:     "${FITHUB_HTTP_SESSION_COOKIE_NAME:-fithub_session}",
				Path:     "/",
				HTTPOnly: true,
				Secure:   false,
				MaxAge:   86400,
			},
		},
		CSRF: CSRF{
			Key:            "${FITHUB_HTTP_CSRF_KEY:-}",
			TrustedOrigins: InterpolatedStringSlice{},
		},
		RateLimit: RateLimit{
			Enabled: true,
			Rate:    10,
			Burst:   20,
		},
		SlowRequest: InterpolatedDuration(200 * time.Millisecond),
	}
}

func NewHTTPConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                       []*yaml.Comment{yaml.HeadComment(" Webserver configuration")},
		".address":               []*yaml.Comment{yaml.HeadComment(" Webserver's listening address")},
		".baseUrl":               []*yaml.Comment{yaml.HeadComment(" Public base URL, used in outgoing emails")},
		".templatesDir":          []*yaml.Comment{yaml.HeadComment(" Optional directory whose templates override the embedded ones")},
		".session":               []*yaml.Comment{yaml.HeadComment(" Browser session cookie")},
		".session.keys":          []*yaml.Comment{yaml.HeadComment(" Signing keys; a random key is generated when empty")},
		".session.cookie.secure": []*yaml.Comment{yaml.HeadComment(" Only send the cookie over HTTPS")},
		".session.cookie.maxAge": []*yaml.Comment{yaml.HeadComment(" Cookie lifetime in seconds")},
		".csrf":                  []*yaml.Comment{yaml.HeadComment(" Cross-site request forgery protection for forms")},
		".csrf.key":              []*yaml.Comment{yaml.HeadComment(" 32-byte authentication key; a random key is generated when empty")},
		".rateLimit":             []*yaml.Comment{yaml.HeadComment(" Per client IP request rate limiting")},
		".rateLimit.rate":        []*yaml.Comment{yaml.HeadComment(" Sustained requests per second")},
		".slowRequest":           []*yaml.Comment{yaml.HeadComment(" Requests slower than this are logged as warnings")},
	}
}
