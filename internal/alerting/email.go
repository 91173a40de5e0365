package alerting

import (
	"fmt"
	"html"
	"strings"
)

// emailSummaryLimit caps the summary shown in the digest body.
const emailSummaryLimit = 600

// RenderEmail builds the digest subject plus plain-text and HTML
// bodies for the given alerts.
func RenderEmail(alerts []Alert) (subject, plain, htmlBody string) {
	subject = fmt.Sprintf("Alerte veille : %d alerte(s)", len(alerts))

	plainLines := []string{
		"Bonjour,",
		"",
		"Voici les alertes de veille identifiées :",
		"",
	}
	htmlLines := []string{
		`<html><body style="background:#0b0f12;color:#fff;font-family:Arial,Helvetica,sans-serif;">`,
		`<div style="max-width:600px;margin:0 auto;padding:16px;">`,
		fmt.Sprintf(`<h2 style="color:#fff;font-size:20px;margin:0 0 12px 0;">Vous avez %d alerte(s) de veille</h2>`, len(alerts)),
	}

	for _, a := range alerts {
		plainLines = append(plainLines, fmt.Sprintf("- %s (%s) - %s", a.Title, a.Source, a.Published))
		if a.SummaryShort != "" {
			plainLines = append(plainLines, "  "+capSummary(a.SummaryShort))
		}
		if a.Link != "" {
			plainLines = append(plainLines, "  Read more: "+a.Link)
		}
		plainLines = append(plainLines, "")

		var card strings.Builder
		card.WriteString(`<div style="background:#111827;border-radius:12px;padding:16px;margin-bottom:14px;color:#fff;box-shadow:0 1px 3px rgba(0,0,0,0.3);">`)
		fmt.Fprintf(&card, `<div style="font-size:12px;color:#9ca3af;text-transform:uppercase;margin-bottom:8px;">%s</div>`, html.EscapeString(a.Source))
		fmt.Fprintf(&card, `<div style="font-size:18px;font-weight:700;margin-bottom:8px;color:#fff;">%s</div>`, html.EscapeString(a.Title))
		if a.SummaryShort != "" {
			fmt.Fprintf(&card, `<div style="color:#d1d5db;font-size:14px;margin-bottom:12px;">%s</div>`, html.EscapeString(capSummary(a.SummaryShort)))
		}
		if a.Link != "" {
			fmt.Fprintf(&card, `<div><a href="%s" style="display:inline-block;background:#374151;color:#fff;text-decoration:none;padding:10px 18px;border-radius:9999px;font-weight:600;">Read More</a></div>`, html.EscapeString(a.Link))
		}
		card.WriteString("</div>")
		htmlLines = append(htmlLines, card.String())
	}

	plainLines = append(plainLines, "Cordialement,\nL'équipe de veille")
	htmlLines = append(htmlLines,
		`<p style="color:#9ca3af;font-size:13px;">Cordialement,<br/>L'équipe de veille</p>`,
		"</div></body></html>",
	)

	return subject, strings.Join(plainLines, "\n"), strings.Join(htmlLines, "\n")
}

func capSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= emailSummaryLimit {
		return s
	}
	return string(runes[:emailSummaryLimit]) + "..."
}
