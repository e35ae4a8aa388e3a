package state

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/jwebster45206/chronicle/pkg/gameevent"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Preferences are per-user display settings served to the client. The
// server stores them as given; theme rendering happens client-side.
type Preferences struct {
	UserID        string    `json:"user_id"`
	Theme         string    `json:"theme,omitempty"`
	AccentColor   string    `json:"accent_color,omitempty"`
	Language      string    `json:"language,omitempty"`
	BackgroundURL string    `json:"background_url,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultPreferences are returned for users who never saved any.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:   userID,
		Theme:    "parchment",
		Language: gameevent.DefaultLanguage.String(),
	}
}

func (p *Preferences) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(p.Theme) > 64 {
		return fmt.Errorf("theme name is too long")
	}
	if p.AccentColor != "" && !hexColorPattern.MatchString(p.AccentColor) {
		return fmt.Errorf("accent_color must be a #rrggbb hex color")
	}
	if p.Language != "" && !gameevent.IsSupported(p.Language) {
		return fmt.Errorf("unsupported language %q", p.Language)
	}
	if p.BackgroundURL != "" {
		u, err := url.Parse(p.BackgroundURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("background_url must be an http(s) URL")
		}
	}
	return nil
}
