// Package locale holds the static bilingual string table used to compose
// contracts, and the rules for choosing a document language.
package locale

import (
	"fmt"
	"strings"
	"time"

	"github.com/srvalle/contract-pro/model"
	"golang.org/x/text/language"
)

// Lang is a document language tag.
type Lang string

// Supported languages
const (
	EN Lang = "en"
	PT Lang = "pt"
)

// Default is used when no language was requested.
const Default = EN

// Langs lists the supported languages.
var Langs = []Lang{EN, PT}

// Parse validates a language tag. An empty tag yields Default.
func Parse(tag string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(tag))) {
	case "":
		return Default, nil
	case EN:
		return EN, nil
	case PT:
		return PT, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrInvalidLanguage, tag)
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Portuguese})

// Negotiate picks a supported language from an Accept-Language header.
// It falls back to Default when the header is empty or unparsable.
func Negotiate(acceptLanguage string) Lang {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	if base.String() == string(PT) {
		return PT
	}
	return Default
}

// DateLayout renders calendar dates. Documents use the Brazilian day/month
// convention in every language.
const DateLayout = "02/01/2006"

// FormatDate formats a date for a contract document.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CourtCityPlaceholder is substituted in the jurisdiction clause.
const CourtCityPlaceholder = "{court_city}"

// StatusLabels names each contract status.
type StatusLabels struct {
	Pending    string `json:"pending"`
	InProgress string `json:"in_progress"`
	Completed  string `json:"completed"`
}

// Clause is the fixed title and body of a numbered clause.
type Clause struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Texts is every literal string of one language.
type Texts struct {
	Title string `json:"title"`
	Intro string `json:"intro"`

	Contractor string `json:"contractor"`
	Provider   string `json:"provider"`
	TaxID      string `json:"cpf_cnpj"`
	Resident   string `json:"resident"`
	Email      string `json:"email"`

	Status StatusLabels `json:"status"`

	Clauses [8]Clause `json:"clauses"`

	TermStart          string `json:"term_start"`
	TermEnd            string `json:"term_end"`
	TotalPrice         string `json:"total_price"`
	PaymentMethod      string `json:"payment_method"`
	RevisionCount      string `json:"revision_count"`
	DateLabel          string `json:"date_label"`
	SignatureTaxIDName string `json:"signature_tax_id"`

	Services map[string]string `json:"services"`
	Others   string            `json:"others"`

	Close            string `json:"close"`
	GeneratePDF      string `json:"generate_pdf"`
	ContractPreview  string `json:"contract_preview"`
	DownloadPDF      string `json:"download_pdf"`
	GeneratingPDF    string `json:"generating_pdf"`
	SendEmail        string `json:"send_email"`
	Sending          string `json:"sending"`
	EmailSentSuccess string `json:"email_sent_success"`
	EmailSentError   string `json:"email_sent_error"`
}

// StatusLabel returns the label of a contract status, or the raw value for
// unknown ones.
func (t *Texts) StatusLabel(s model.Status) string {
	switch s {
	case model.StatusPending:
		return t.Status.Pending
	case model.StatusInProgress:
		return t.Status.InProgress
	case model.StatusCompleted:
		return t.Status.Completed
	}
	return string(s)
}

// Clause returns clause n, counted from 1.
func (t *Texts) Clause(n int) Clause {
	return t.Clauses[n-1]
}

// Jurisdiction returns the body of clause 8 with the court city filled in.
func (t *Texts) Jurisdiction(courtCity string) string {
	return strings.Replace(t.Clause(8).Description, CourtCityPlaceholder, courtCity, 1)
}

// For returns the table of a supported language.
func For(lang Lang) (*Texts, error) {
	t, ok := table[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidLanguage, lang)
	}
	return t, nil
}
