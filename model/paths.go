package model

import "github.com/g3lasio/owlfenc/pkg/fieldpath"

// Canonical field paths shared by the planner, suggestion and validation rules.
var (
	PathContractorCompany = fieldpath.MustParse("contractor.companyName")
	PathContractorLicense = fieldpath.MustParse("contractor.license")
	PathContractorPhone   = fieldpath.MustParse("contractor.phone")
	PathContractorEmail   = fieldpath.MustParse("contractor.email")
	PathContractorAddress = fieldpath.MustParse("contractor.address")

	PathClientName    = fieldpath.MustParse("client.name")
	PathClientAddress = fieldpath.MustParse("client.address")
	PathClientPhone   = fieldpath.MustParse("client.phone")
	PathClientEmail   = fieldpath.MustParse("client.email")

	PathProjectType        = fieldpath.MustParse("project.type")
	PathProjectDescription = fieldpath.MustParse("project.description")
	PathProjectSite        = fieldpath.MustParse("project.siteAddress")
	PathProjectMaterials   = fieldpath.MustParse("project.materials")
	PathPermitsResponsible = fieldpath.MustParse("project.permitResponsibility")

	PathStartDate      = fieldpath.MustParse("timeline.startDate")
	PathCompletionDate = fieldpath.MustParse("timeline.completionDate")

	PathPaymentTotal   = fieldpath.MustParse("payment.total")
	PathPaymentDeposit = fieldpath.MustParse("payment.deposit")
	PathPaymentTerms   = fieldpath.MustParse("payment.terms")
	PathPaymentMethod  = fieldpath.MustParse("payment.method")
	PathLateFee        = fieldpath.MustParse("payment.lateFeePercent")

	PathInsuranceCarrier = fieldpath.MustParse("insurance.carrier")
	PathInsurancePolicy  = fieldpath.MustParse("insurance.policyNumber")
	PathWarrantyPeriod   = fieldpath.MustParse("warranty.period")
	PathLienNotice       = fieldpath.MustParse("legal.lienNoticeAcknowledged")
	PathDisputes         = fieldpath.MustParse("legal.disputeResolution")
	PathChangeOrders     = fieldpath.MustParse("legal.changeOrderPolicy")

	PathSignerName    = fieldpath.MustParse("completion.contractorSignerName")
	PathEffectiveDate = fieldpath.MustParse("completion.effectiveDate")
)
