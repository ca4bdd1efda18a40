package handler

import (
	"net/mail"
	"net/url"
	"strings"
)

// validateEmail checks that the address parses and has a domain part.
// Returns an error message string, or empty string if valid.
func validateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "Invalid email address"
	}
	if !strings.Contains(email, "@") || strings.HasSuffix(email, "@") {
		return "Invalid email address"
	}
	return ""
}

// validateRegistration validates the registration form fields. All
// three are required; passwords carry no shape or length rules.
func validateRegistration(name, email, password string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if password == "" {
		return "Password is required"
	}
	return ""
}

// validatePostForm validates the post create/edit form fields.
func validatePostForm(title, subtitle, imageURL, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(subtitle) == "" {
		return "Subtitle is required"
	}
	if imageURL == "" {
		return "Image URL is required"
	}
	if u, err := url.ParseRequestURI(imageURL); err != nil || u.Scheme == "" || u.Host == "" {
		return "Image URL must be a valid URL"
	}
	if strings.TrimSpace(body) == "" {
		return "Content is required"
	}
	return ""
}
