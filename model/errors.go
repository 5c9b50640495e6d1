package model

import (
	"errors"

	"github.com/g3lasio/owlfenc/pkg/fieldpath"
)

var (
	// ErrTemplateNotFound means no catalog entry can serve a request, not even
	// a jurisdiction default. It is a configuration fault.
	ErrTemplateNotFound  = errors.New("template not found")
	ErrInvalidComplexity = errors.New("invalid complexity tier")

	ErrDraftNotFound  = errors.New("draft not found")
	ErrDraftFinalized = errors.New("draft already finalized")
	ErrDraftInvalid   = errors.New("draft has blocking validation errors")

	// ErrContractNotFound means the id does not reference a finalized draft.
	ErrContractNotFound  = errors.New("contract not found")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureConflict = errors.New("role already signed by a different signer")
)

// Wire names for error kinds.
const (
	KindTemplateNotFound  = "TemplateNotFoundError"
	KindInvalidComplexity = "InvalidComplexityError"
	KindDraftNotFound     = "DraftNotFoundError"
	KindDraftFinalized    = "DraftFinalizedError"
	KindDraftInvalid      = "ValidationError"
	KindContractNotFound  = "ContractNotFoundError"
	KindInvalidSignature  = "InvalidSignatureError"
	KindSignatureConflict = "SignatureConflictError"
	KindInvalidField      = "InvalidFieldError"
	KindUnauthorized      = "UnauthorizedError"
	KindRateLimited       = "RateLimitError"
	KindBadRequest        = "BadRequestError"
	KindInternal          = "InternalError"
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrTemplateNotFound, KindTemplateNotFound},
	{ErrInvalidComplexity, KindInvalidComplexity},
	{ErrDraftNotFound, KindDraftNotFound},
	{ErrDraftFinalized, KindDraftFinalized},
	{ErrDraftInvalid, KindDraftInvalid},
	{ErrContractNotFound, KindContractNotFound},
	{ErrInvalidSignature, KindInvalidSignature},
	{ErrSignatureConflict, KindSignatureConflict},
	{fieldpath.ErrInvalidPath, KindInvalidField},
}

// ErrorKind maps err to its wire kind. Unknown errors are internal.
func ErrorKind(err error) string {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}
