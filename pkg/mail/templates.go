package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
)

const (
	SenderAddress = "no-reply@thaidotcompayment.co.th"
	SenderName    = "INET Online Payment Service"

	errorNotificationSubjectFormat = "[Case No.[%s][EXCEPT] ส่งรายงานการรับเงินประจำวันไม่สำเร็จ"
)

type ErrorNotificationParams struct {
	// AccountNames are listed in order, one <li> each, without HTML escaping.
	AccountNames []string
}

var (
	errorNotificationTemplate = template.New("errorNotification")

	//go:embed templates/errorNotification.html
	errorNotificationTemplateRaw string
)

func init() {
	if _, err := errorNotificationTemplate.Parse(errorNotificationTemplateRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// RenderErrorNotification renders the HTML body of the failed payment-report
// notification. Account names are inserted verbatim, so callers that forward
// untrusted input are responsible for escaping it first.
func RenderErrorNotification(p ErrorNotificationParams) (string, error) {
	items := make([]template.HTML, len(p.AccountNames))
	for i, name := range p.AccountNames {
		items[i] = template.HTML(name) // #nosec G203 -- account names are rendered as-is
	}
	return render(errorNotificationTemplate, struct {
		AccountNames []template.HTML
	}{AccountNames: items})
}

// ErrorNotificationSubject returns the subject line for caseNumber. The case
// number is interpolated unmodified.
func ErrorNotificationSubject(caseNumber string) string {
	return fmt.Sprintf(errorNotificationSubjectFormat, caseNumber)
}

// ParseAccountNames splits a newline-delimited account list and drops empty
// entries. Both LF and CRLF line breaks are accepted; no other whitespace is
// trimmed.
func ParseAccountNames(raw string) []string {
	lines := strings.Split(raw, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}
