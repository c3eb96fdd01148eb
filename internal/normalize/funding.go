package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) employees(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("employees_involved", 0, "employeesInvolvedInLobbying")
	r.set("fiscal_year_finished", document.Value(data, "relatedFiscalYearFinished"))
	r.set("fiscal_year_start", document.Value(data, "relatedFiscalYearStart"))
	r.set("fiscal_year_end", document.Value(data, "relatedFiscalYearEnd"))
	if count := document.Obj(data, "employeesCount"); count != nil {
		r.set("employees_from", document.Value(count, "from"))
		r.set("employees_to", document.Value(count, "to"))
	}
	r.set("employees_fte", document.Value(data, "employeeFTE"))
}

func (m *mapper) financialExpenses(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("financial_expenses", 0, "financialExpenses")
	r.set("refused", document.Value(data, "refuseFinancialExpensesInformation"))
	r.set("refusal_reason", document.Value(data, "refuseFinancialExpensesInformationReason"))
	m.fiscalYear(r, data)
	r.set("fiscal_year_completed", document.Value(data, "fiscalYearCompleted"))
	r.set("fiscal_start_month", document.Value(data, "fiscalYearStart"))
	r.set("fiscal_end_month", document.Value(data, "fiscalYearEnd"))
	if rng := document.Obj(data, "financialExpensesEuro"); rng != nil {
		r.set("expenses_from_eur", document.Value(rng, "from"))
		r.set("expenses_to_eur", document.Value(rng, "to"))
	}
}

// fiscalYear maps the related-fiscal-year triple most financial sections
// repeat.
func (m *mapper) fiscalYear(r *row, data document.Raw) {
	r.set("fiscal_year_finished", document.Value(data, "relatedFiscalYearFinished"))
	r.set("fiscal_year_start", document.Value(data, "relatedFiscalYearStart"))
	r.set("fiscal_year_end", document.Value(data, "relatedFiscalYearEnd"))
}

func (m *mapper) mainFundingSources(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("main_funding_sources", 0, "mainFundingSources")
	m.fiscalYear(r, data)
	for i, item := range document.Objs(data, "mainFundingSources") {
		c := r.child("funding_source", i, fmt.Sprintf("mainFundingSources.mainFundingSources[%d]", i))
		c.ref("label_id", m.codeLabel("main_funding_source", item))
	}
}

func (m *mapper) publicAllowances(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("public_allowances", 0, "publicAllowances")
	r.set("refused", document.Value(data, "refusePublicAllowancesInformation"))
	r.set("refusal_reason", document.Value(data, "refusePublicAllowancesInformationReason"))
	r.set("allowances_present", document.Value(data, "publicAllowancesPresent"))
	m.fiscalYear(r, data)
	r.set("fiscal_year_completed", document.Value(data, "fiscalYearCompleted"))
	r.set("fiscal_start_month", document.Value(data, "fiscalYearStart"))
	r.set("fiscal_end_month", document.Value(data, "fiscalYearEnd"))

	for i, item := range document.Objs(data, "publicAllowances") {
		p := fmt.Sprintf("publicAllowances.publicAllowances[%d]", i)
		c := r.child("public_allowance", i, p)
		c.set("name", document.Value(item, "name"))
		c.set("location", document.Value(item, "location"))
		c.set("description", document.Value(item, "description"))
		if rng := document.Obj(item, "publicAllowanceEuro"); rng != nil {
			c.set("amount_from_eur", document.Value(rng, "from"))
			c.set("amount_to_eur", document.Value(rng, "to"))
		}
		c.ref("type_label_id", m.codeLabel("public_allowance_type", document.Obj(item, "type")))
		c.ref("country_id", m.countryLabel(document.Obj(item, "country")))
	}
}

func (m *mapper) donators(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("donators", 0, "donators")
	r.set("refused", document.Value(data, "refuseDonatorsInformation"))
	r.set("refusal_reason", document.Value(data, "refuseDonatorsInformationReason"))
	r.set("info_present", document.Value(data, "donatorsInformationPresent"))
	m.fiscalYear(r, data)
	r.set("fiscal_year_completed", document.Value(data, "fiscalYearCompleted"))
	r.set("fiscal_start_month", document.Value(data, "fiscalYearStart"))
	r.set("fiscal_end_month", document.Value(data, "fiscalYearEnd"))
	if rng := document.Obj(data, "totalDonationsEuro"); rng != nil {
		r.set("total_from_eur", document.Value(rng, "from"))
		r.set("total_to_eur", document.Value(rng, "to"))
	}

	for i, donor := range document.Objs(data, "donators") {
		c := r.child("donation", i, fmt.Sprintf("donators.donators[%d]", i))
		c.set("name", document.Value(donor, "name"))
		c.set("description", document.Value(donor, "description"))
		if rng := document.Obj(donor, "donationEuro"); rng != nil {
			c.set("amount_from_eur", document.Value(rng, "from"))
			c.set("amount_to_eur", document.Value(rng, "to"))
		}
	}
}

func (m *mapper) membershipFees(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("membership_fees", 0, "membershipFees")
	m.fiscalYear(r, data)
	if rng := document.Obj(data, "totalMembershipFees"); rng != nil {
		r.set("total_from_eur", document.Value(rng, "from"))
		r.set("total_to_eur", document.Value(rng, "to"))
	}
	r.set("individual_contributors_present", document.Value(data, "individualContributorsPresent"))

	for i, contributor := range document.Objs(data, "individualContributors") {
		c := r.child("fee_contributor", i, fmt.Sprintf("membershipFees.individualContributors[%d]", i))
		c.set("name", document.Value(contributor, "name"))
	}
}

func (m *mapper) annualReports(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("annual_reports", 0, "annualReports")
	r.set("disclosure_required", document.Value(data, "disclosureRequirementsExist"))
	r.set("refused", document.Value(data, "refuseAnnualFinanceStatement"))
	r.set("refusal_reason", document.Value(data, "refuseAnnualFinanceStatementReason"))
	r.set("report_exists", document.Value(data, "annualReportExists"))
	r.set("last_fy_report_exists", document.Value(data, "annualReportLastFiscalYearExists"))
	r.set("previous_fy_report_exists", document.Value(data, "annualReportPreviousLastFiscalYearExists"))
	r.set("finished_fy_exists", document.Value(data, "finishedFiscalYearExists"))
	r.set("last_fy_start", document.Value(data, "lastFiscalYearStart"))
	r.set("last_fy_end", document.Value(data, "lastFiscalYearEnd"))
	r.set("previous_fy_start", document.Value(data, "previousLastFiscalYearStart"))
	r.set("previous_fy_end", document.Value(data, "previousLastFiscalYearEnd"))
	r.set("pdf_url", document.Value(data, "annualReportPdfUrl"))
	r.set("missing_reason", document.Value(data, "missingAnnualReportReason"))
	r.set("published_elsewhere", document.Value(data, "reportWasPublishedElsewhere"))
	r.set("publication_location", document.Value(data, "locationOfReportPublication"))
}
