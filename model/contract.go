package model

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// Status is the lifecycle state of a contract. Transitions only happen
// through an explicit edit.
type Status string

// Contract status values
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Services holds the service flags of a contract. It is embedded in
// Contract so the JSON stays flat.
type Services struct {
	GraphicDesign  bool   `json:"graphic_design"`
	WebDesign      bool   `json:"web_design"`
	Branding       bool   `json:"branding"`
	SocialMedia    bool   `json:"social_media"`
	Photography    bool   `json:"photography"`
	Illustration   bool   `json:"illustration"`
	WebDevelopment bool   `json:"web_development"`
	Copywriting    bool   `json:"copywriting"`
	Marketing      bool   `json:"marketing"`
	Others         string `json:"others"`
}

// Service keys, in document order.
const (
	ServiceGraphicDesign  = "graphic_design"
	ServiceWebDesign      = "web_design"
	ServiceBranding       = "branding"
	ServiceSocialMedia    = "social_media"
	ServicePhotography    = "photography"
	ServiceIllustration   = "illustration"
	ServiceWebDevelopment = "web_development"
	ServiceCopywriting    = "copywriting"
	ServiceMarketing      = "marketing"
)

// ServiceKeys lists every boolean service flag in the order they appear
// in the contract.
var ServiceKeys = []string{
	ServiceGraphicDesign,
	ServiceWebDesign,
	ServiceBranding,
	ServiceSocialMedia,
	ServicePhotography,
	ServiceIllustration,
	ServiceWebDevelopment,
	ServiceCopywriting,
	ServiceMarketing,
}

// Enabled returns the keys of the flags that are set, in ServiceKeys order.
func (s Services) Enabled() []string {
	flags := map[string]bool{
		ServiceGraphicDesign:  s.GraphicDesign,
		ServiceWebDesign:      s.WebDesign,
		ServiceBranding:       s.Branding,
		ServiceSocialMedia:    s.SocialMedia,
		ServicePhotography:    s.Photography,
		ServiceIllustration:   s.Illustration,
		ServiceWebDevelopment: s.WebDevelopment,
		ServiceCopywriting:    s.Copywriting,
		ServiceMarketing:      s.Marketing,
	}
	var keys []string
	for _, k := range ServiceKeys {
		if flags[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Party is the identity block of one side of the agreement.
type Party struct {
	Name    string
	TaxID   string
	Address string
	Email   string
}

// Contract is one service agreement. JSON names match the columns of the
// contracts table.
type Contract struct {
	ID             string `json:"id"`
	OwnerID        string `json:"user_id"`
	ProjectName    string `json:"project_name"`
	ContractNumber string `json:"contract_number"`

	ClientName    string `json:"client_name"`
	ClientTaxID   string `json:"client_cpf"`
	ClientAddress string `json:"client_address"`
	ClientEmail   string `json:"client_email"`

	ProviderName    string `json:"provider_name"`
	ProviderTaxID   string `json:"provider_cpf"`
	ProviderAddress string `json:"provider_address"`
	ProviderEmail   string `json:"provider_email"`

	Services

	ServiceScope  string `json:"service_scope"`
	StartDate     string `json:"start_date"`
	DeliveryDate  string `json:"delivery_date"`
	TotalValue    string `json:"total_value"`
	PaymentMethod string `json:"payment_method"`
	RevisionCount string `json:"revision_count"`
	CourtCity     string `json:"court_city"`
	ContractDate  string `json:"contract_date"`
	Status        Status `json:"status"`
	LogoURL       string `json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client returns the client identity block.
func (c *Contract) Client() Party {
	return Party{Name: c.ClientName, TaxID: c.ClientTaxID, Address: c.ClientAddress, Email: c.ClientEmail}
}

// Provider returns the provider identity block.
func (c *Contract) Provider() Party {
	return Party{Name: c.ProviderName, TaxID: c.ProviderTaxID, Address: c.ProviderAddress, Email: c.ProviderEmail}
}

// ApplyEdit overwrites the editable fields of c with those of edit. The
// identifier, contract number, owner and creation timestamp are kept.
func (c *Contract) ApplyEdit(edit *Contract) {
	keep := *c
	*c = *edit
	c.ID = keep.ID
	c.OwnerID = keep.OwnerID
	c.ContractNumber = keep.ContractNumber
	c.CreatedAt = keep.CreatedAt
	c.UpdatedAt = keep.UpdatedAt
}

var contractNumberPattern = regexp.MustCompile(`^CON-\d{4}-\d{4}$`)

// NewContractNumber builds a human readable contract code for the given
// creation time. The suffix is random and not guaranteed to be unique; the
// store rejects duplicates.
func NewContractNumber(now time.Time) string {
	return fmt.Sprintf("CON-%d-%d", now.Year(), 1000+rand.IntN(9000))
}

// ValidContractNumber reports whether s has the CON-<year>-<nnnn> shape.
func ValidContractNumber(s string) bool {
	return contractNumberPattern.MatchString(s)
}

// ParseDate parses a stored calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
