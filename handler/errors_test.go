package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidComplexity, http.StatusBadRequest},
		{model.ErrInvalidSignature, http.StatusBadRequest},
		{fmt.Errorf("%w: .x", fieldpath.ErrInvalidPath), http.StatusBadRequest},
		{model.ErrDraftNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", model.ErrContractNotFound), http.StatusNotFound},
		{model.ErrSignatureConflict, http.StatusConflict},
		{model.ErrDraftFinalized, http.StatusConflict},
		{model.ErrDraftInvalid, http.StatusUnprocessableEntity},
		{model.ErrTemplateNotFound, http.StatusInternalServerError},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
