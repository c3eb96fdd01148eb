package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) contracts(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "contracts"
	r := root.child("contracts", 0, path)
	r.set("contracts_present", document.Value(data, "contractsPresent"))
	r.set("contracts_count", document.Value(data, "contractsCount"))

	for i, contract := range document.Objs(data, "contracts") {
		m.contract(r, i, fmt.Sprintf("%s.contracts[%d]", path, i), contract)
	}
}

func (m *mapper) contract(parent *row, ordinal int, path string, contract document.Raw) {
	r := parent.child("contract", ordinal, path)
	r.set("description", document.Value(contract, "description"))

	for i, field := range document.Objs(contract, "fieldsOfInterest") {
		c := r.child("contract_field_of_interest", i, fmt.Sprintf("%s.fieldsOfInterest[%d]", path, i))
		c.set("field_text", document.Value(field, "fieldOfInterestText"))
		c.ref("label_id", m.codeLabel("field_of_interest", field))
	}

	for i, reference := range document.Objs(contract, "regulatoryProjects") {
		c := r.child("contract_project_ref", i, fmt.Sprintf("%s.regulatoryProjects[%d]", path, i))
		c.set("number", document.Value(reference, "regulatoryProjectNumber"))
		c.set("title", document.Value(reference, "regulatoryProjectTitle"))
	}

	clients := document.Obj(contract, "clients")
	for i, org := range document.Objs(clients, "clientOrganizations") {
		p := fmt.Sprintf("%s.clients.clientOrganizations[%d]", path, i)
		c := r.child("contract_client_org", i, p)
		c.set("reference_name", document.Value(org, "referenceName"))
		c.set("reference_url", document.Value(org, "referenceDetailsPageUrl"))
		c.set("name", document.Value(org, "name"))
		c.set("legal_form_text", document.Value(document.Obj(org, "legalForm"), "legalFormText"))
		c.ref("legal_form_type_label_id", m.codeLabel("legal_form_type", document.Obj(org, "legalFormType")))
		c.ref("legal_form_label_id", m.codeLabel("legal_form", document.Obj(org, "legalForm")))
		c.ref("address_id", m.address(p+".address", document.Obj(org, "address")))
		c.ref("contact_id", m.contact(p+".contactDetails", document.Obj(org, "contactDetails")))
		m.financialResources(c, document.Obj(org, "financialResourcesReceived"))

		for j, rep := range document.Objs(org, "legalRepresentatives") {
			rc := c.child("contract_client_org_representative", j, fmt.Sprintf("%s.legalRepresentatives[%d]", p, j))
			rc.set("academic_degree_before", document.Value(rep, "academicDegreeBefore"))
			rc.set("academic_degree_after", document.Value(rep, "academicDegreeAfter"))
			rc.set("first_name", document.Value(rep, "firstName"))
			rc.set("last_name", document.Value(rep, "lastName"))
			rc.set("artist_name", document.Value(rep, "artistName"))
			rc.set("function", document.Value(rep, "function"))
		}
	}

	for i, person := range document.Objs(clients, "clientPersons") {
		p := fmt.Sprintf("%s.clients.clientPersons[%d]", path, i)
		c := r.child("contract_client_person", i, p)
		c.set("reference_name", document.Value(person, "referenceName"))
		c.set("reference_url", document.Value(person, "referenceDetailsPageUrl"))
		c.set("academic_degree_before", document.Value(person, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(person, "academicDegreeAfter"))
		c.set("last_name", document.Value(person, "lastName"))
		c.set("first_name", document.Value(person, "firstName"))
		c.set("artist_name", document.Value(person, "artistName"))
		c.set("company_name", document.Value(person, "companyName"))
		m.financialResources(c, document.Obj(person, "financialResourcesReceived"))
	}

	contractors := document.Obj(contract, "contractors")
	r.set("lobbying_by_lobbyist", document.Value(contractors, "lobbyingIsCarriedOutByLobbyist"))

	for i, person := range document.Objs(contractors, "entrustedPersons") {
		p := fmt.Sprintf("%s.contractors.entrustedPersons[%d]", path, i)
		c := r.child("contract_entrusted_person", i, p)
		c.set("academic_degree_before", document.Value(person, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(person, "academicDegreeAfter"))
		c.set("first_name", document.Value(person, "firstName"))
		c.set("last_name", document.Value(person, "lastName"))
		c.set("artist_name", document.Value(person, "artistName"))
		c.set("function", document.Value(person, "function"))
		c.set("recent_function_present", document.Value(person, "recentGovernmentFunctionPresent"))
		c.ref("recent_function_id", m.govFunctionIf(p, person))
	}

	for i, org := range document.Objs(contractors, "contractorOrganizations") {
		m.contractorOrg(r, i, fmt.Sprintf("%s.contractors.contractorOrganizations[%d]", path, i), org)
	}

	for i, person := range document.Objs(contractors, "contractorPersons") {
		p := fmt.Sprintf("%s.contractors.contractorPersons[%d]", path, i)
		c := r.child("contractor_person", i, p)
		c.set("reference_name", document.Value(person, "referenceName"))
		c.set("reference_url", document.Value(person, "referenceDetailsPageUrl"))
		c.set("academic_degree_before", document.Value(person, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(person, "academicDegreeAfter"))
		c.set("last_name", document.Value(person, "lastName"))
		c.set("first_name", document.Value(person, "firstName"))
		c.set("artist_name", document.Value(person, "artistName"))
		c.set("company_name", document.Value(person, "companyName"))
		c.set("recent_function_present", document.Value(person, "recentGovernmentFunctionPresent"))
		c.ref("recent_function_id", m.govFunctionIf(p, person))
	}
}

func (m *mapper) contractorOrg(parent *row, ordinal int, path string, org document.Raw) {
	c := parent.child("contractor_org", ordinal, path)
	c.set("reference_name", document.Value(org, "referenceName"))
	c.set("reference_url", document.Value(org, "referenceDetailsPageUrl"))
	c.set("name", document.Value(org, "name"))
	c.set("legal_form_text", document.Value(document.Obj(org, "legalForm"), "legalFormText"))
	c.ref("legal_form_type_label_id", m.codeLabel("legal_form_type", document.Obj(org, "legalFormType")))
	c.ref("legal_form_label_id", m.codeLabel("legal_form", document.Obj(org, "legalForm")))
	c.ref("address_id", m.address(path+".address", document.Obj(org, "address")))
	c.ref("contact_id", m.contact(path+".contactDetails", document.Obj(org, "contactDetails")))
	if capital := document.Obj(org, "capitalCityRepresentation"); capital != nil {
		c.ref("capital_address_id", m.address(path+".capitalCityRepresentation.address", document.Obj(capital, "address")))
		c.ref("capital_contact_id", m.contact(path+".capitalCityRepresentation.contactDetails", document.Obj(capital, "contactDetails")))
	}

	for j, rep := range document.Objs(org, "legalRepresentatives") {
		p := fmt.Sprintf("%s.legalRepresentatives[%d]", path, j)
		rc := c.child("contractor_org_representative", j, p)
		rc.set("academic_degree_before", document.Value(rep, "academicDegreeBefore"))
		rc.set("academic_degree_after", document.Value(rep, "academicDegreeAfter"))
		rc.set("first_name", document.Value(rep, "firstName"))
		rc.set("last_name", document.Value(rep, "lastName"))
		rc.set("artist_name", document.Value(rep, "artistName"))
		rc.set("function", document.Value(rep, "function"))
		rc.set("recent_function_present", document.Value(rep, "recentGovernmentFunctionPresent"))
		rc.ref("recent_function_id", m.govFunctionIf(p, rep))
	}

	for j, assigned := range document.Objs(org, "assignedPersons") {
		p := fmt.Sprintf("%s.assignedPersons[%d]", path, j)
		ac := c.child("contractor_assigned_person", j, p)
		ac.set("academic_degree_before", document.Value(assigned, "academicDegreeBefore"))
		ac.set("academic_degree_after", document.Value(assigned, "academicDegreeAfter"))
		ac.set("first_name", document.Value(assigned, "firstName"))
		ac.set("last_name", document.Value(assigned, "lastName"))
		ac.set("artist_name", document.Value(assigned, "artistName"))
		ac.set("recent_function_present", document.Value(assigned, "recentGovernmentFunctionPresent"))
		ac.ref("recent_function_id", m.govFunctionIf(p, assigned))
	}
}

func (m *mapper) financialResources(r *row, payload document.Raw) {
	if payload == nil {
		return
	}
	r.set("fiscal_year_finished", document.Value(payload, "lastFiscalYearFinished"))
	r.set("fiscal_year_start", document.Value(payload, "lastFiscalYearStart"))
	r.set("fiscal_year_end", document.Value(payload, "lastFiscalYearEnd"))
	r.set("received_from_eur", document.Value(payload, "from"))
	r.set("received_to_eur", document.Value(payload, "to"))
}
