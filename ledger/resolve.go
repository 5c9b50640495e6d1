package ledger

import "github.com/g3lasio/owlfenc/model"

// Resolve derives the aggregate status from the two optional role records.
// It is total: every combination maps to exactly one status.
func Resolve(contractor, client *model.SignatureRecord) model.SignatureStatus {
	switch {
	case contractor != nil && client != nil:
		return model.StatusFullySigned
	case contractor != nil:
		return model.StatusContractorSigned
	case client != nil:
		return model.StatusClientSigned
	default:
		return model.StatusPending
	}
}
