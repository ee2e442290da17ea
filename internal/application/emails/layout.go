package emails

import (
	"fmt"
	"html"
	"time"
)

const (
	themePrimary   = "#E4572E"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
)

// EmailLayout wraps content in the HomeScout transactional email frame.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>HomeScout</title>
  <style>
    body { margin: 0; padding: 0; background-color: %[1]s; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: %[2]s; }
    .card { max-width: 560px; margin: 32px auto; background: #FFFFFF; border-radius: 12px; padding: 32px; }
    .card h1 { font-size: 22px; margin: 0 0 16px 0; }
    .card p { font-size: 16px; line-height: 1.6; margin: 0 0 20px 0; }
    .hs-button { display: inline-block; background: %[3]s; color: #FFFFFF !important; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600; }
    .footer { text-align: center; font-size: 12px; color: %[4]s; padding-bottom: 32px; }
  </style>
</head>
<body>
  <div class="card">
%[5]s
  </div>
  <div class="footer">&copy; %[6]d HomeScout. You are receiving this email because you have a HomeScout account.</div>
</body>
</html>`, themeBgBody, themeTextMain, themePrimary, themeTextMuted, contentHTML, time.Now().Year())
}

// EscapeHTML escapes user-provided text for safe inclusion in email bodies.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
