// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReceiptEmailData holds data for the registration-received email.
type ReceiptEmailData struct {
	SiteName    string
	Name        string
	CourseTitle string
	Reference   string
	Amount      float64
	AwaitingPay bool // true when a payment proof is pending admin review
}

// BuildReceiptEmail creates the confirmation sent right after a
// registration is submitted.
func BuildReceiptEmail(data ReceiptEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("We received your %s registration", data.SiteName),
		TextBody: buildReceiptText(data),
		HTMLBody: buildHTML("receipt", receiptHTMLTemplate, data),
	}
}

func buildReceiptText(data ReceiptEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.Name))
	buf.WriteString(fmt.Sprintf("Thanks for registering for %s.\n", data.CourseTitle))
	buf.WriteString(fmt.Sprintf("Your reference is %s.\n\n", data.Reference))
	if data.AwaitingPay {
		buf.WriteString(fmt.Sprintf("We received your payment details for %.2f and our team will verify them shortly. You'll get another email once that's done.\n", data.Amount))
	} else {
		buf.WriteString("Your spot is confirmed.\n")
	}
	buf.WriteString(fmt.Sprintf("\n— The %s team\n", data.SiteName))
	return buf.String()
}

// ResultEmailData holds data for the verification-outcome email.
type ResultEmailData struct {
	SiteName    string
	Name        string
	CourseTitle string
	Verified    bool
	Notes       string // admin verification notes, shown on rejection
}

// BuildResultEmail creates the email sent after an admin verifies or
// rejects a registration's payment proof.
func BuildResultEmail(data ResultEmailData) Email {
	subject := fmt.Sprintf("Your %s registration is confirmed", data.SiteName)
	if !data.Verified {
		subject = fmt.Sprintf("About your %s registration", data.SiteName)
	}
	return Email{
		To:       "", // Set by caller
		Subject:  subject,
		TextBody: buildResultText(data),
		HTMLBody: buildHTML("result", resultHTMLTemplate, data),
	}
}

func buildResultText(data ResultEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.Name))
	if data.Verified {
		buf.WriteString(fmt.Sprintf("Your payment for %s has been verified. You're in!\n", data.CourseTitle))
		buf.WriteString("Your learner account details will follow in a separate email if this is your first course with us.\n")
	} else {
		buf.WriteString(fmt.Sprintf("We couldn't verify the payment submitted for %s.\n", data.CourseTitle))
		if data.Notes != "" {
			buf.WriteString(fmt.Sprintf("Reviewer note: %s\n", data.Notes))
		}
		buf.WriteString("Please reply to this email if you believe this is a mistake.\n")
	}
	buf.WriteString(fmt.Sprintf("\n— The %s team\n", data.SiteName))
	return buf.String()
}

// WelcomeEmailData holds data for the learner-account welcome email.
type WelcomeEmailData struct {
	SiteName     string
	Name         string
	Email        string
	TempPassword string
	LoginURL     string
}

// BuildWelcomeEmail creates the email sent once when a learner account is
// provisioned, carrying the temporary password.
func BuildWelcomeEmail(data WelcomeEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s learner account", data.SiteName),
		TextBody: buildWelcomeText(data),
		HTMLBody: buildHTML("welcome", welcomeHTMLTemplate, data),
	}
}

func buildWelcomeText(data WelcomeEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.Name))
	buf.WriteString(fmt.Sprintf("A learner account has been created for you on %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Email: %s\n", data.Email))
	buf.WriteString(fmt.Sprintf("Temporary password: %s\n\n", data.TempPassword))
	buf.WriteString("Please sign in and change your password right away:\n")
	buf.WriteString(data.LoginURL + "\n")
	buf.WriteString(fmt.Sprintf("\n— The %s team\n", data.SiteName))
	return buf.String()
}

func buildHTML(name, tmpl string, data any) string {
	t := template.Must(template.New(name).Parse(tmpl))
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

const receiptHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.Name}},</p>
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Thanks for registering for <strong>{{.CourseTitle}}</strong>.</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 16px; text-align: center; margin-bottom: 16px;">
                <span style="font-size: 14px; color: #6b7280;">Reference</span><br>
                <span style="font-size: 20px; font-weight: 700; color: #1f2937; font-family: 'Courier New', monospace;">{{.Reference}}</span>
              </div>
              {{if .AwaitingPay}}
              <p style="margin: 0; font-size: 14px; color: #6b7280;">We received your payment details for {{printf "%.2f" .Amount}} and our team will verify them shortly.</p>
              {{else}}
              <p style="margin: 0; font-size: 14px; color: #6b7280;">Your spot is confirmed.</p>
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const resultHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.Name}},</p>
              {{if .Verified}}
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Your payment for <strong>{{.CourseTitle}}</strong> has been verified. You're in!</p>
              {{else}}
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">We couldn't verify the payment submitted for <strong>{{.CourseTitle}}</strong>.</p>
              {{if .Notes}}<p style="margin: 0 0 16px; font-size: 14px; color: #6b7280;">Reviewer note: {{.Notes}}</p>{{end}}
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.Name}},</p>
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">A learner account has been created for you.</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 16px; margin-bottom: 16px;">
                <p style="margin: 0 0 8px; font-size: 14px; color: #374151;">Email: <strong>{{.Email}}</strong></p>
                <p style="margin: 0; font-size: 14px; color: #374151;">Temporary password: <span style="font-family: 'Courier New', monospace;">{{.TempPassword}}</span></p>
              </div>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">Sign In</a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">Please change your password after your first sign-in.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
