// Package browser opens pages of the web portal from the terminal.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ForgotPasswordPage is the web portal's reset-request page.
const ForgotPasswordPage = "/forgot-password"

// PageURL joins a portal base URL and a page path.
func PageURL(base, page string) string {
	base = strings.TrimRight(base, "/")
	if page == "" || page == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(page, "/")
}

// Open opens the specified URL in the user's default browser. Only http and
// https URLs are handed to the OS.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Open: refusing %q", rawURL)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "linux":
		return exec.Command("xdg-open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return fmt.Errorf("browser.Open: unsupported OS: %s", runtime.GOOS)
	}
}
