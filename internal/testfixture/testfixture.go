// Package testfixture holds a complete, valid set of contract values shared
// by tests across packages.
package testfixture

import (
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
)

var values = map[string]string{
	"contractor.companyName": "Owl Fence Co",
	"contractor.license":     "CSLB 1034567",
	"contractor.phone":       "(555) 010-0200",
	"contractor.email":       "office@owlfence.example",
	"contractor.address":     "100 Main St, Fresno, CA",

	"client.name":    "Ana Ruiz",
	"client.address": "12 Elm St, Fresno, CA",
	"client.phone":   "555-0100",
	"client.email":   "ana@example.com",

	"project.type":                 "fencing",
	"project.description":          "Install 120 ft cedar privacy fence",
	"project.siteAddress":          "12 Elm St, Fresno, CA",
	"project.materials":            "Western red cedar, galvanized posts",
	"project.permitResponsibility": "contractor",

	"timeline.startDate":      "2026-04-01",
	"timeline.completionDate": "2026-04-15",

	"payment.total":          "1700.00",
	"payment.deposit":        "850.00",
	"payment.terms":          "Balance due on completion",
	"payment.method":         "check",
	"payment.lateFeePercent": "1.5",

	"insurance.carrier":      "Acme Mutual",
	"insurance.policyNumber": "GL-2231",
	"warranty.period":        "1 year",

	"legal.lienNoticeAcknowledged": "yes",
	"legal.disputeResolution":      "mediation",
	"legal.changeOrderPolicy":      "Written change orders only",

	"completion.contractorSignerName": "Gil Lasio",
	"completion.effectiveDate":        "2026-03-25",
}

// Flat returns the complete value set keyed by dotted path, minus omit.
func Flat(omit ...string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, k := range omit {
		delete(out, k)
	}
	return out
}

// Tree is Flat as a value tree.
func Tree(omit ...string) fieldpath.Tree {
	t, err := fieldpath.FromFlat(Flat(omit...))
	if err != nil {
		panic(err)
	}
	return t
}
