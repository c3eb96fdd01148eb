package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) statements(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "statements"
	r := root.child("statements", 0, path)
	r.set("statements_present", document.Value(data, "statementsPresent"))
	r.set("statements_count", document.Value(data, "statementsCount"))

	for i, statement := range document.Objs(data, "statements") {
		p := fmt.Sprintf("%s.statements[%d]", path, i)
		c := r.child("statement", i, p)
		c.set("number", document.Value(statement, "statementNumber"))
		c.set("project_number", document.Value(statement, "regulatoryProjectNumber"))
		c.set("project_title", document.Value(statement, "regulatoryProjectTitle"))
		c.set("pdf_url", document.Value(statement, "pdfUrl"))
		c.set("pdf_page_count", document.Value(statement, "pdfPageCount"))
		if text := document.Obj(statement, "text"); text != nil {
			c.set("copyright_note", document.Value(text, "copyrightAcknowledgement"))
			c.set("text_body", document.Value(text, "text"))
		}

		groups := document.Objs(statement, "recipientGroups")
		if len(groups) > 0 {
			c.set("sending_date", document.Value(groups[0], "sendingDate"))
		}
		for j, group := range groups {
			gp := fmt.Sprintf("%s.recipientGroups[%d]", p, j)
			g := c.child("recipient_group", j, gp)
			recipients := document.Obj(group, "recipients")
			for k, label := range document.Objs(recipients, "parliament") {
				pc := g.child("parliament_recipient", k, fmt.Sprintf("%s.recipients.parliament[%d]", gp, k))
				pc.ref("label_id", m.codeLabel("recipient_parliament", label))
			}
			ordinal := 0
			for k, fed := range document.Objs(recipients, "federalGovernment") {
				dep := m.department(fmt.Sprintf("%s.recipients.federalGovernment[%d].department", gp, k), document.Obj(fed, "department"))
				if dep == nil {
					continue
				}
				gc := g.child("government_recipient", ordinal, fmt.Sprintf("%s.recipients.federalGovernment[%d]", gp, k))
				gc.ref("department_id", dep)
				ordinal++
			}
		}
	}
}
