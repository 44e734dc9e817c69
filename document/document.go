// Package document builds the structured representation of a contract
// that every output format is rendered from.
package document

import (
	"fmt"
	"time"

	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/model"
)

// Role identifies a party of the agreement.
type Role string

// Party roles
const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// BlockKind tells a renderer how to lay out a block.
type BlockKind string

// Block kinds
const (
	// BlockParagraph is plain body text.
	BlockParagraph BlockKind = "paragraph"
	// BlockTags is a wrapped list of short labels.
	BlockTags BlockKind = "tags"
	// BlockQuote is highlighted free text with a left rule.
	BlockQuote BlockKind = "quote"
	// BlockField is a label followed by a value.
	BlockField BlockKind = "field"
)

// Block is one piece of clause content.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Items  []string  `json:"items,omitempty"`
	Label  string    `json:"label,omitempty"`
	Value  string    `json:"value,omitempty"`
	Strong bool      `json:"strong,omitempty"`
}

// Header is the top of the document.
type Header struct {
	Title   string `json:"title"`
	LogoURL string `json:"logo_url,omitempty"`
	Intro   string `json:"intro"`
}

// Party is one identity box.
type Party struct {
	Role  Role   `json:"role"`
	Label string `json:"label"`
	Text  string `json:"text"`
	Email string `json:"email,omitempty"`
}

// Clause is a numbered legal section.
type Clause struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Signature is one signature slot.
type Signature struct {
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	TaxLine string `json:"tax_line"`
}

// Document is a fully composed contract.
type Document struct {
	Lang           locale.Lang `json:"lang"`
	ContractID     string      `json:"contract_id"`
	ContractNumber string      `json:"contract_number"`
	Header         Header      `json:"header"`
	Parties        []Party     `json:"parties"`
	Clauses        []Clause    `json:"clauses"`
	DateLine       Block       `json:"date_line"`
	Signatures     []Signature `json:"signatures"`

	// IssuedAt stamps binary artifacts so the same record always renders
	// to the same bytes.
	IssuedAt time.Time `json:"issued_at"`
}

// ClauseCount is the number of clauses in every contract.
const ClauseCount = 8

// Validate checks the layout invariants renderers rely on: eight clauses in
// order, client box before provider box, provider signature before client.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", model.ErrRenderFailure)
	}
	if len(d.Clauses) != ClauseCount {
		return fmt.Errorf("%w: expected %d clauses, got %d", model.ErrRenderFailure, ClauseCount, len(d.Clauses))
	}
	for i, c := range d.Clauses {
		if c.Number != i+1 {
			return fmt.Errorf("%w: clause %d out of order at position %d", model.ErrRenderFailure, c.Number, i+1)
		}
	}
	if len(d.Parties) != 2 || d.Parties[0].Role != RoleClient || d.Parties[1].Role != RoleProvider {
		return fmt.Errorf("%w: parties must be client then provider", model.ErrRenderFailure)
	}
	if len(d.Signatures) != 2 || d.Signatures[0].Role != RoleProvider || d.Signatures[1].Role != RoleClient {
		return fmt.Errorf("%w: signatures must be provider then client", model.ErrRenderFailure)
	}
	return nil
}
