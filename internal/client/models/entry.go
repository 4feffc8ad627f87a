package models

import (
	"net/url"
	"strconv"
	"time"
)

// Entry is a stored credential as listed by the backend. The password itself
// is never part of an Entry; it is only available through a reveal call.
type Entry struct {
	EntryID          string     `json:"entry_id"`
	UserID           string     `json:"user_id"`
	WebsiteName      string     `json:"website_name"`
	WebsiteURL       string     `json:"website_url"`
	Login            string     `json:"login_email_or_username"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastAccessed     *time.Time `json:"last_accessed,omitempty"`
	PasswordStrength string     `json:"password_strength,omitempty"`
}

// EntryCreate is the request body for creating an entry.
type EntryCreate struct {
	WebsiteName string `json:"website_name"`
	WebsiteURL  string `json:"website_url,omitempty"`
	Login       string `json:"login_email_or_username"`
	Password    string `json:"password"`
	Notes       string `json:"notes,omitempty"`
}

// EntryUpdate is the request body for a partial update. Nil fields are left
// untouched by the server.
type EntryUpdate struct {
	WebsiteName *string `json:"website_name,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
	Login       *string `json:"login_email_or_username,omitempty"`
	Password    *string `json:"password,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// EntryReveal is the server-decrypted plaintext view of an entry.
type EntryReveal struct {
	EntryID     string    `json:"entry_id"`
	WebsiteName string    `json:"website_name"`
	WebsiteURL  string    `json:"website_url"`
	Login       string    `json:"login_email_or_username"`
	Password    string    `json:"password"`
	RevealedAt  time.Time `json:"revealed_at"`
}

// EntryPage is a page of entries as returned by list and search endpoints.
type EntryPage struct {
	Entries    []Entry `json:"entries"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// GeneratorOptions selects the shape of a server-generated password.
// Zero-valued fields fall back to server defaults and are omitted from the
// query string.
type GeneratorOptions struct {
	Length           int
	IncludeSymbols   *bool
	IncludeNumbers   *bool
	IncludeUppercase *bool
	IncludeLowercase *bool
}

// QueryValues encodes the options as the generate-password endpoint's query
// parameters.
func (o GeneratorOptions) QueryValues() url.Values {
	v := url.Values{}
	if o.Length > 0 {
		v.Set("length", strconv.Itoa(o.Length))
	}
	setBool := func(key string, b *bool) {
		if b != nil {
			v.Set(key, strconv.FormatBool(*b))
		}
	}
	setBool("include_symbols", o.IncludeSymbols)
	setBool("include_numbers", o.IncludeNumbers)
	setBool("include_uppercase", o.IncludeUppercase)
	setBool("include_lowercase", o.IncludeLowercase)
	return v
}

// GeneratedPassword is the generate-password endpoint's response.
type GeneratedPassword struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Strength string `json:"strength"`
}
