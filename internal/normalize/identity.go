package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

// identity maps the lobbyist identity. The identity field discriminates
// natural persons from organizations; a document without it cannot be stored.
func (m *mapper) identity(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "lobbyistIdentity"

	kind, _ := document.Value(data, "identity").(string)
	if kind == "" {
		m.fail(path+".identity", "missing discriminator")
		return
	}

	r := root.child("identity", 0, path)
	r.set("kind", kind)
	r.set("academic_degree_before", document.Value(data, "academicDegreeBefore"))
	r.set("academic_degree_after", document.Value(data, "academicDegreeAfter"))
	r.set("last_name", document.Value(data, "lastName"))
	r.set("first_name", document.Value(data, "firstName"))
	r.set("common_first_name", document.Value(data, "commonFirstName"))
	r.set("artist_name", document.Value(data, "artistName"))
	r.set("company_name", document.Value(data, "companyName"))
	r.set("name", document.Value(data, "name"))
	r.set("legal_form_text", document.Value(document.Obj(data, "legalForm"), "legalFormText"))
	r.set("recent_function_present", document.Value(data, "recentGovernmentFunctionPresent"))
	r.set("entrusted_persons_present", document.Value(data, "entrustedPersonsPresent"))
	r.set("members_present", document.Value(data, "membersPresent"))
	r.set("memberships_present", document.Value(data, "membershipsPresent"))

	r.ref("person_type_label_id", m.codeLabel("natural_person_type", document.Obj(data, "naturalPersonType")))
	r.ref("legal_form_type_label_id", m.codeLabel("legal_form_type", document.Obj(data, "legalFormType")))
	r.ref("legal_form_label_id", m.codeLabel("legal_form", document.Obj(data, "legalForm")))
	r.ref("address_id", m.address(path+".address", document.Obj(data, "address")))
	r.ref("contact_id", m.contact(path+".contactDetails", document.Obj(data, "contactDetails")))
	r.ref("recent_function_id", m.govFunctionIf(path, data))

	if capital := document.Obj(data, "capitalCityRepresentation"); capital != nil {
		r.ref("capital_address_id", m.address(path+".capitalCityRepresentation.address", document.Obj(capital, "address")))
		r.ref("capital_contact_id", m.contact(path+".capitalCityRepresentation.contactDetails", document.Obj(capital, "contactDetails")))
	}

	if members := document.Obj(data, "membersCount"); members != nil {
		r.set("members_natural_persons", document.Value(members, "naturalPersons"))
		r.set("members_organizations", document.Value(members, "organizations"))
		r.set("members_total", document.Value(members, "total"))
		r.set("members_date", document.Value(members, "date"))
	}

	for i, person := range document.Objs(data, "entrustedPersons") {
		p := fmt.Sprintf("%s.entrustedPersons[%d]", path, i)
		c := r.child("entrusted_person", i, p)
		c.set("academic_degree_before", document.Value(person, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(person, "academicDegreeAfter"))
		c.set("last_name", document.Value(person, "lastName"))
		c.set("first_name", document.Value(person, "firstName"))
		c.set("artist_name", document.Value(person, "artistName"))
		c.set("recent_function_present", document.Value(person, "recentGovernmentFunctionPresent"))
		c.ref("recent_function_id", m.govFunctionIf(p, person))
	}

	for i, rep := range document.Objs(data, "legalRepresentatives") {
		p := fmt.Sprintf("%s.legalRepresentatives[%d]", path, i)
		c := r.child("legal_representative", i, p)
		c.set("academic_degree_before", document.Value(rep, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(rep, "academicDegreeAfter"))
		c.set("last_name", document.Value(rep, "lastName"))
		c.set("first_name", document.Value(rep, "firstName"))
		c.set("common_first_name", document.Value(rep, "commonFirstName"))
		c.set("artist_name", document.Value(rep, "artistName"))
		c.set("function", document.Value(rep, "function"))
		c.ref("recent_function_id", m.govFunctionIf(p, rep))
		c.ref("contact_id", m.contact(p+".contact", document.Obj(rep, "contact")))
	}

	for i, employee := range document.Objs(data, "namedEmployees") {
		c := r.child("named_employee", i, fmt.Sprintf("%s.namedEmployees[%d]", path, i))
		c.set("academic_degree_before", document.Value(employee, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(employee, "academicDegreeAfter"))
		c.set("last_name", document.Value(employee, "lastName"))
		c.set("common_first_name", document.Value(employee, "commonFirstName"))
	}

	// Memberships arrive either as plain strings or wrapped objects.
	for i, el := range document.List(data, "memberships") {
		c := r.child("membership", i, fmt.Sprintf("%s.memberships[%d]", path, i))
		switch t := el.(type) {
		case string:
			c.set("name", t)
		case document.Raw:
			c.set("name", document.Value(t, "membership"))
		}
	}
}
