package model

import (
	"time"

	"github.com/g3lasio/owlfenc/pkg/fieldpath"
)

// ContractDraft is the in-progress set of values for one contract. Once
// finalized its ID is the contract id used by the signature ledger.
type ContractDraft struct {
	ID           string         `json:"id"`
	ContractorID string         `json:"contractor_id"`
	TemplateID   string         `json:"template_id"`
	Values       fieldpath.Tree `json:"values"`
	Step         int            `json:"step"`
	Finalized    bool           `json:"finalized"`
	FinalizedAt  *time.Time     `json:"finalized_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ContractorProfile is the company data a contractor keeps on file.
type ContractorProfile struct {
	ContractorID string `json:"contractor_id" yaml:"contractor_id"`
	CompanyName  string `json:"company_name" yaml:"company_name"`
	OwnerName    string `json:"owner_name" yaml:"owner_name"`
	License      string `json:"license" yaml:"license"`
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	Address      string `json:"address" yaml:"address"`
	Insurance    string `json:"insurance_carrier" yaml:"insurance_carrier"`
}
