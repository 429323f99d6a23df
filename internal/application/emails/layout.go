package emails

import (
	"fmt"
	"strings"
	"time"
)

const (
	themePrimary   = "#8B5E3C"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#FAF7F2"
	themeWhite     = "#FFFFFF"
)

// EmailLayout wraps content in the shared HTML shell.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Invitación</title>
  <style>
    body { margin: 0; padding: 0; background-color: %s; font-family: Georgia, 'Times New Roman', serif; color: %s; }
    .content-body p { margin: 0 0 20px 0; font-size: 16px; line-height: 1.6; }
    .content-body h1 { font-size: 26px; margin: 0 0 20px 0; font-weight: 400; }
    .code { font-family: 'Courier New', monospace; font-size: 28px; letter-spacing: 6px; text-align: center; color: %s; }
    .button { display: inline-block; background-color: %s; color: #ffffff !important; padding: 12px 32px; text-decoration: none; border-radius: 24px; font-size: 15px; }
    .footer-text { color: %s; font-size: 12px; }
  </style>
</head>
<body>
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="background-color: %s;">
    <tr>
      <td align="center" style="padding: 40px 0;">
        <table role="presentation" width="560" cellspacing="0" cellpadding="0" style="background-color: %s; border-radius: 8px;">
          <tr><td class="content-body" style="padding: 40px 48px;">%s</td></tr>
          <tr><td align="center" style="padding: 0 48px 32px 48px;"><p class="footer-text">© %d · Si no esperabas este correo puedes ignorarlo.</p></td></tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
		themeBgBody, themeTextMain, themePrimary, themePrimary, themeTextMuted,
		themeBgBody, themeWhite, contentHTML, time.Now().Year())
}

// EscapeHTML escapes HTML specials for safe interpolation.
func EscapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;").Replace(s)
}
