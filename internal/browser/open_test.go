package browser

import "testing"

func TestPageURL(t *testing.T) {
	tests := []struct {
		base, page, want string
	}{
		{"http://localhost:5173", ForgotPasswordPage, "http://localhost:5173/forgot-password"},
		{"http://localhost:5173/", "forgot-password", "http://localhost:5173/forgot-password"},
		{"https://hostel.example.edu/portal", "/", "https://hostel.example.edu/portal/"},
	}
	for _, tt := range tests {
		if got := PageURL(tt.base, tt.page); got != tt.want {
			t.Errorf("PageURL(%q, %q) = %q, want %q", tt.base, tt.page, got, tt.want)
		}
	}
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "not a url", "http://"} {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q) = nil, want error", u)
		}
	}
}
