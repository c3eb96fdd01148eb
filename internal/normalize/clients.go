package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) clientIdentity(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "clientIdentity"
	r := root.child("client_identity", 0, path)
	r.set("clients_present", document.Value(data, "clientsPresent"))
	r.set("clients_count", document.Value(data, "clientsCount"))

	for i, org := range document.Objs(data, "clientOrganizations") {
		p := fmt.Sprintf("%s.clientOrganizations[%d]", path, i)
		c := r.child("client_organization", i, p)
		c.set("reference_name", document.Value(org, "referenceName"))
		c.set("reference_url", document.Value(org, "referenceDetailsPageUrl"))
		c.set("name", document.Value(org, "name"))
		c.set("legal_form_text", document.Value(document.Obj(org, "legalForm"), "legalFormText"))
		c.ref("legal_form_type_label_id", m.codeLabel("legal_form_type", document.Obj(org, "legalFormType")))
		c.ref("legal_form_label_id", m.codeLabel("legal_form", document.Obj(org, "legalForm")))
		c.ref("address_id", m.address(p+".address", document.Obj(org, "address")))
		c.ref("contact_id", m.contact(p+".contactDetails", document.Obj(org, "contactDetails")))

		for j, rep := range document.Objs(org, "legalRepresentatives") {
			rp := fmt.Sprintf("%s.legalRepresentatives[%d]", p, j)
			rc := c.child("client_org_representative", j, rp)
			rc.set("academic_degree_before", document.Value(rep, "academicDegreeBefore"))
			rc.set("academic_degree_after", document.Value(rep, "academicDegreeAfter"))
			rc.set("common_first_name", document.Value(rep, "commonFirstName"))
			rc.set("last_name", document.Value(rep, "lastName"))
			rc.set("function", document.Value(rep, "function"))
			rc.ref("contact_id", m.contact(rp+".contactDetails", document.Obj(rep, "contactDetails")))
		}
	}

	for i, person := range document.Objs(data, "clientPersons") {
		c := r.child("client_person", i, fmt.Sprintf("%s.clientPersons[%d]", path, i))
		c.set("reference_name", document.Value(person, "referenceName"))
		c.set("reference_url", document.Value(person, "referenceDetailsPageUrl"))
		c.set("academic_degree_before", document.Value(person, "academicDegreeBefore"))
		c.set("academic_degree_after", document.Value(person, "academicDegreeAfter"))
		c.set("last_name", document.Value(person, "lastName"))
		c.set("common_first_name", document.Value(person, "commonFirstName"))
	}
}
