package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/model"
)

// Placeholder stands in for optional values that were left empty.
const Placeholder = "-"

// SignatureLine is drawn above each signatory name.
const SignatureLine = "____________________________________"

type requiredField struct {
	name  string
	value func(*model.Contract) string
}

// Fields without which the clauses would be legally incomplete.
var requiredFields = []requiredField{
	{"client_name", func(c *model.Contract) string { return c.ClientName }},
	{"client_cpf", func(c *model.Contract) string { return c.ClientTaxID }},
	{"provider_name", func(c *model.Contract) string { return c.ProviderName }},
	{"provider_cpf", func(c *model.Contract) string { return c.ProviderTaxID }},
	{"service_scope", func(c *model.Contract) string { return c.ServiceScope }},
	{"start_date", func(c *model.Contract) string { return c.StartDate }},
	{"delivery_date", func(c *model.Contract) string { return c.DeliveryDate }},
	{"total_value", func(c *model.Contract) string { return c.TotalValue }},
	{"payment_method", func(c *model.Contract) string { return c.PaymentMethod }},
	{"court_city", func(c *model.Contract) string { return c.CourtCity }},
}

// Missing returns the clause-required fields that c leaves blank.
func Missing(c *model.Contract) []string {
	var missing []string
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(c)) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Compose maps a contract and a language onto a Document. It does not
// touch c. Values such as total_value are copied verbatim.
func Compose(c *model.Contract, lang locale.Lang) (*Document, error) {
	t, err := locale.For(lang)
	if err != nil {
		return nil, err
	}
	if missing := Missing(c); len(missing) > 0 {
		return nil, &model.IncompleteRecordError{Missing: missing}
	}

	start, err := composeDate("start_date", c.StartDate)
	if err != nil {
		return nil, err
	}
	delivery, err := composeDate("delivery_date", c.DeliveryDate)
	if err != nil {
		return nil, err
	}
	signed := Placeholder
	if c.ContractDate != "" {
		if signed, err = composeDate("contract_date", c.ContractDate); err != nil {
			return nil, err
		}
	} else if !c.CreatedAt.IsZero() {
		signed = locale.FormatDate(c.CreatedAt)
	}

	doc := &Document{
		Lang:           lang,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Header: Header{
			Title:   t.Title,
			LogoURL: strings.TrimSpace(c.LogoURL),
			Intro:   t.Intro,
		},
		Parties: []Party{
			composeParty(t, RoleClient, t.Contractor, c.Client()),
			composeParty(t, RoleProvider, t.Provider, c.Provider()),
		},
		DateLine:   Block{Kind: BlockField, Label: t.DateLabel, Value: signed},
		Signatures: []Signature{
			composeSignature(t, RoleProvider, c.Provider()),
			composeSignature(t, RoleClient, c.Client()),
		},
		IssuedAt: issuedAt(c),
	}

	revisions := strings.TrimSpace(c.RevisionCount)
	if revisions == "" {
		revisions = Placeholder
	}

	doc.Clauses = []Clause{
		{Number: 1, Title: t.Clause(1).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Clause(1).Description},
			{Kind: BlockTags, Items: serviceLabels(t, c.Services)},
		}},
		{Number: 2, Title: t.Clause(2).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Clause(2).Description},
			{Kind: BlockQuote, Text: c.ServiceScope},
		}},
		{Number: 3, Title: t.Clause(3).Title, Blocks: []Block{
			{Kind: BlockField, Label: t.TermStart, Value: start},
			{Kind: BlockField, Label: t.TermEnd, Value: delivery},
		}},
		{Number: 4, Title: t.Clause(4).Title, Blocks: []Block{
			{Kind: BlockField, Label: t.TotalPrice, Value: c.TotalValue},
			{Kind: BlockField, Label: t.PaymentMethod, Value: c.PaymentMethod},
		}},
		{Number: 5, Title: t.Clause(5).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Clause(5).Description},
		}},
		{Number: 6, Title: t.Clause(6).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Clause(6).Description},
			{Kind: BlockField, Label: t.RevisionCount, Value: revisions, Strong: true},
		}},
		{Number: 7, Title: t.Clause(7).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Clause(7).Description},
		}},
		{Number: 8, Title: t.Clause(8).Title, Blocks: []Block{
			{Kind: BlockParagraph, Text: t.Jurisdiction(c.CourtCity)},
		}},
	}

	return doc, nil
}

func composeDate(field, value string) (string, error) {
	d, err := model.ParseDate(value)
	if err != nil {
		return "", &model.IncompleteRecordError{Missing: []string{field}}
	}
	return locale.FormatDate(d), nil
}

func composeParty(t *locale.Texts, role Role, label string, p model.Party) Party {
	address := strings.TrimSpace(p.Address)
	if address == "" {
		address = Placeholder
	}
	party := Party{
		Role:  role,
		Label: label,
		Text:  fmt.Sprintf("%s, %s %s, %s %s.", p.Name, t.TaxID, p.TaxID, t.Resident, address),
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		party.Email = t.Email + " " + email
	}
	return party
}

func composeSignature(t *locale.Texts, role Role, p model.Party) Signature {
	return Signature{
		Role:    role,
		Name:    p.Name,
		TaxLine: t.SignatureTaxIDName + " " + p.TaxID,
	}
}

func serviceLabels(t *locale.Texts, s model.Services) []string {
	var items []string
	for _, key := range s.Enabled() {
		items = append(items, t.Services[key])
	}
	if others := strings.TrimSpace(s.Others); others != "" {
		items = append(items, others)
	}
	return items
}

// issuedAt picks a stable timestamp for the record: creation time, else the
// contract date, else the Unix epoch.
func issuedAt(c *model.Contract) time.Time {
	if !c.CreatedAt.IsZero() {
		return c.CreatedAt.UTC().Truncate(time.Second)
	}
	if d, err := model.ParseDate(c.ContractDate); err == nil {
		return d
	}
	return time.Unix(0, 0).UTC()
}
