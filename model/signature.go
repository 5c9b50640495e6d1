package model

import "time"

// SignerRole is the party a signature belongs to.
type SignerRole string

const (
	RoleContractor SignerRole = "contractor"
	RoleClient     SignerRole = "client"
)

func (r SignerRole) Valid() bool {
	return r == RoleContractor || r == RoleClient
}

// SignatureType is how the signature was captured.
type SignatureType string

const (
	SignatureDrawn SignatureType = "drawn"
	SignatureTyped SignatureType = "typed"
)

func (t SignatureType) Valid() bool {
	return t == SignatureDrawn || t == SignatureTyped
}

// SignatureRecord is the stored proof that one party signed a contract.
// Its JSON form is the wire shape shared with the signing clients.
type SignatureRecord struct {
	ContractID    string            `json:"contractId"`
	SignerRole    SignerRole        `json:"signerRole"`
	SignerName    string            `json:"signerName"`
	SignatureType SignatureType     `json:"signatureType"`
	SignatureData string            `json:"signatureData"`
	SignedAt      time.Time         `json:"signedAt"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SignatureStatus is the aggregate signing state. It is always derived from
// the stored records.
type SignatureStatus string

const (
	StatusPending          SignatureStatus = "pending"
	StatusContractorSigned SignatureStatus = "contractor-signed"
	StatusClientSigned     SignatureStatus = "client-signed"
	StatusFullySigned      SignatureStatus = "fully-signed"
)
