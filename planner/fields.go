package planner

import (
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/fieldpath"
)

const (
	PhonePattern = `^\+?[0-9 ()\-.]{7,20}$`
	EmailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
)

type fieldDef struct {
	path       fieldpath.Path
	prompt     string
	typ        model.FieldType
	required   bool
	importance model.Importance
	pattern    string
	options    []string
	step       model.Step
}

var (
	fContractorCompany = fieldDef{model.PathContractorCompany, "Company name", model.FieldText, true, model.ImportanceImportant, "", nil, model.StepBasic}
	fContractorPhone   = fieldDef{model.PathContractorPhone, "Company phone", model.FieldText, true, model.ImportanceImportant, PhonePattern, nil, model.StepBasic}
	fContractorEmail   = fieldDef{model.PathContractorEmail, "Company email", model.FieldText, false, model.ImportanceInformational, EmailPattern, nil, model.StepBasic}
	fContractorAddress = fieldDef{model.PathContractorAddress, "Company address", model.FieldAddress, true, model.ImportanceImportant, "", nil, model.StepBasic}
	fContractorLicense = fieldDef{model.PathContractorLicense, "Contractor license number", model.FieldText, true, model.ImportanceCritical, "", nil, model.StepBasic}

	fClientName    = fieldDef{model.PathClientName, "Client full name", model.FieldText, true, model.ImportanceCritical, "", nil, model.StepBasic}
	fClientAddress = fieldDef{model.PathClientAddress, "Client mailing address", model.FieldAddress, true, model.ImportanceImportant, "", nil, model.StepBasic}
	fClientPhone   = fieldDef{model.PathClientPhone, "Client phone number", model.FieldText, true, model.ImportanceCritical, PhonePattern, nil, model.StepBasic}
	fClientEmail   = fieldDef{model.PathClientEmail, "Client email", model.FieldText, false, model.ImportanceImportant, EmailPattern, nil, model.StepBasic}

	fProjectType        = fieldDef{model.PathProjectType, "Type of project", model.FieldText, true, model.ImportanceImportant, "", nil, model.StepProject}
	fProjectDescription = fieldDef{model.PathProjectDescription, "Description of the work", model.FieldMultiline, true, model.ImportanceCritical, "", nil, model.StepProject}
	fProjectSite        = fieldDef{model.PathProjectSite, "Project site address", model.FieldAddress, true, model.ImportanceImportant, "", nil, model.StepProject}
	fStartDate          = fieldDef{model.PathStartDate, "Start date", model.FieldDate, true, model.ImportanceImportant, "", nil, model.StepProject}
	fCompletionDate     = fieldDef{model.PathCompletionDate, "Estimated completion date", model.FieldDate, true, model.ImportanceImportant, "", nil, model.StepProject}
	fMaterials          = fieldDef{model.PathProjectMaterials, "Materials and specifications", model.FieldMultiline, false, model.ImportanceInformational, "", nil, model.StepProject}
	fPermits            = fieldDef{model.PathPermitsResponsible, "Who obtains permits", model.FieldChoice, true, model.ImportanceImportant, "", []string{"contractor", "client", "not required"}, model.StepProject}

	fPaymentTotal   = fieldDef{model.PathPaymentTotal, "Total contract price", model.FieldNumber, true, model.ImportanceCritical, "", nil, model.StepFinancial}
	fPaymentDeposit = fieldDef{model.PathPaymentDeposit, "Deposit amount", model.FieldNumber, true, model.ImportanceCritical, "", nil, model.StepFinancial}
	fPaymentTerms   = fieldDef{model.PathPaymentTerms, "Payment terms", model.FieldMultiline, true, model.ImportanceImportant, "", nil, model.StepFinancial}
	fPaymentMethod  = fieldDef{model.PathPaymentMethod, "Accepted payment method", model.FieldChoice, false, model.ImportanceInformational, "", []string{"check", "bank transfer", "card", "cash"}, model.StepFinancial}
	fLateFee        = fieldDef{model.PathLateFee, "Late fee (% per month)", model.FieldNumber, false, model.ImportanceInformational, "", nil, model.StepFinancial}

	fInsuranceCarrier = fieldDef{model.PathInsuranceCarrier, "Liability insurance carrier", model.FieldText, true, model.ImportanceCritical, "", nil, model.StepLegal}
	fInsurancePolicy  = fieldDef{model.PathInsurancePolicy, "Insurance policy number", model.FieldText, false, model.ImportanceImportant, "", nil, model.StepLegal}
	fWarranty         = fieldDef{model.PathWarrantyPeriod, "Workmanship warranty period", model.FieldChoice, true, model.ImportanceImportant, "", []string{"none", "1 year", "2 years", "5 years", "10 years"}, model.StepLegal}
	fLienNotice       = fieldDef{model.PathLienNotice, "Client received the mechanics lien notice", model.FieldChoice, false, model.ImportanceCritical, "", []string{"yes"}, model.StepLegal}
	fDisputes         = fieldDef{model.PathDisputes, "Dispute resolution method", model.FieldChoice, true, model.ImportanceImportant, "", []string{"mediation", "arbitration", "litigation"}, model.StepLegal}
	fChangeOrders     = fieldDef{model.PathChangeOrders, "Change order policy", model.FieldMultiline, false, model.ImportanceInformational, "", nil, model.StepLegal}

	fSignerName    = fieldDef{model.PathSignerName, "Name of the person signing for the contractor", model.FieldText, true, model.ImportanceImportant, "", nil, model.StepCompletion}
	fEffectiveDate = fieldDef{model.PathEffectiveDate, "Effective date", model.FieldDate, false, model.ImportanceInformational, "", nil, model.StepCompletion}
)

// clauseFields expands each clause into its canonical fields. A field listed
// under several clauses is planned once.
var clauseFields = map[model.Clause][]fieldDef{
	model.ClauseParties:           {fContractorCompany, fContractorPhone, fContractorEmail, fContractorAddress, fClientName, fClientAddress},
	model.ClauseClientContact:     {fClientPhone, fClientEmail},
	model.ClauseContractorLicense: {fContractorLicense},
	model.ClauseScope:             {fProjectType, fProjectDescription},
	model.ClauseSite:              {fProjectSite},
	model.ClauseTimeline:          {fStartDate, fCompletionDate},
	model.ClauseMaterials:         {fMaterials},
	model.ClausePermits:           {fPermits},
	model.ClausePayment:           {fPaymentTotal, fPaymentDeposit, fPaymentTerms, fPaymentMethod},
	model.ClauseLateFees:          {fLateFee},
	model.ClauseInsurance:         {fInsuranceCarrier, fInsurancePolicy},
	model.ClauseWarranty:          {fWarranty},
	model.ClauseLienNotice:        {fLienNotice},
	model.ClauseDisputes:          {fDisputes},
	model.ClauseChangeOrders:      {fChangeOrders},
	model.ClauseAcceptance:        {fSignerName, fEffectiveDate},
}
