package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) regulatoryProjects(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "regulatoryProjects"
	r := root.child("regulatory_projects", 0, path)
	r.set("projects_present", document.Value(data, "regulatoryProjectsPresent"))
	r.set("projects_count", document.Value(data, "regulatoryProjectsCount"))

	for i, project := range document.Objs(data, "regulatoryProjects") {
		m.regulatoryProject(r, i, fmt.Sprintf("%s.regulatoryProjects[%d]", path, i), project)
	}
}

func (m *mapper) regulatoryProject(parent *row, ordinal int, path string, project document.Raw) {
	r := parent.child("regulatory_project", ordinal, path)
	r.set("number", document.Value(project, "regulatoryProjectNumber"))
	r.set("title", document.Value(project, "title"))
	r.set("description", document.Value(project, "description"))
	r.set("printed_matters_present", document.Value(project, "printedMattersPresent"))
	r.set("draft_bill_present", document.Value(project, "draftBillPresent"))

	for i, matter := range document.Objs(project, "printedMatters") {
		p := fmt.Sprintf("%s.printedMatters[%d]", path, i)
		c := r.child("printed_matter", i, p)
		c.set("title", document.Value(matter, "title"))
		c.set("printing_number", document.Value(matter, "printingNumber"))
		c.set("issuer", document.Value(matter, "issuer"))
		c.set("document_url", document.Value(matter, "documentUrl"))
		c.set("project_url", document.Value(matter, "projectUrl"))
		m.leadingMinistries(c, "printed_matter_ministry", p, matter)
	}

	present, _ := document.Value(project, "draftBillPresent").(bool)
	if bill := document.Obj(project, "draftBill"); present && bill != nil {
		p := path + ".draftBill"
		c := r.child("draft_bill", 0, p)
		c.set("title", document.Value(bill, "title"))
		c.set("publication_date", document.Value(bill, "publicationDate"))
		c.set("custom_title", document.Value(bill, "customTitle"))
		c.set("custom_date", document.Value(bill, "customDate"))
		m.leadingMinistries(c, "draft_bill_ministry", p, bill)
	}

	for i, field := range document.Objs(project, "fieldsOfInterest") {
		c := r.child("project_field_of_interest", i, fmt.Sprintf("%s.fieldsOfInterest[%d]", path, i))
		c.ref("label_id", m.codeLabel("field_of_interest", field))
	}

	for i, law := range document.Objs(project, "affectedLaws") {
		c := r.child("affected_law", i, fmt.Sprintf("%s.affectedLaws[%d]", path, i))
		c.set("title", document.Value(law, "title"))
		c.set("short_title", document.Value(law, "shortTitle"))
		c.set("url", document.Value(law, "url"))
	}
}

func (m *mapper) leadingMinistries(parent *row, entity, path string, data document.Raw) {
	ordinal := 0
	for i, ministry := range document.Objs(data, "leadingMinistries") {
		dep := m.department(fmt.Sprintf("%s.leadingMinistries[%d]", path, i), ministry)
		if dep == nil {
			continue
		}
		c := parent.child(entity, ordinal, fmt.Sprintf("%s.leadingMinistries[%d]", path, i))
		c.ref("department_id", dep)
		ordinal++
	}
}
