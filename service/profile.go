package service

import (
	"context"

	"github.com/g3lasio/owlfenc/model"
)

// ProfileProvider supplies the company data a contractor keeps on file.
type ProfileProvider interface {
	Profile(ctx context.Context, contractorID string) (model.ContractorProfile, error)
}

// StaticProfiles serves profiles loaded from configuration. Unknown
// contractors get an empty profile, which simply yields no suggestions.
type StaticProfiles struct {
	byID map[string]model.ContractorProfile
}

func NewStaticProfiles(profiles []model.ContractorProfile) *StaticProfiles {
	byID := make(map[string]model.ContractorProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ContractorID] = p
	}
	return &StaticProfiles{byID: byID}
}

func (s *StaticProfiles) Profile(_ context.Context, contractorID string) (model.ContractorProfile, error) {
	if p, ok := s.byID[contractorID]; ok {
		return p, nil
	}
	return model.ContractorProfile{ContractorID: contractorID}, nil
}
