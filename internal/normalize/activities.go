package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) activities(root *row, data document.Raw) {
	if data == nil {
		return
	}
	path := "activitiesAndInterests"
	r := root.child("activities", 0, path)

	activity := document.Obj(data, "activity")
	r.set("activity_text", document.Value(activity, "activityText"))
	r.set("activity_legal_basis", document.Value(activity, "activityLegalBasis"))
	r.set("operation_type", document.Value(data, "activityOperationType"))
	r.set("description", document.Value(data, "activityDescription"))
	r.ref("activity_label_id", m.codeLabel("activity", activity))

	for i, item := range document.Objs(data, "typesOfExercisingLobbyWork") {
		c := r.child("activity_exercise", i, fmt.Sprintf("%s.typesOfExercisingLobbyWork[%d]", path, i))
		c.ref("label_id", m.codeLabel("exercising_type", item))
	}
	for i, field := range document.Objs(data, "fieldsOfInterest") {
		c := r.child("field_of_interest", i, fmt.Sprintf("%s.fieldsOfInterest[%d]", path, i))
		c.set("field_text", document.Value(field, "fieldOfInterestText"))
		c.ref("label_id", m.codeLabel("field_of_interest", field))
	}
	for i, project := range document.Objs(data, "legislativeProjects") {
		c := r.child("legislative_project", i, fmt.Sprintf("%s.legislativeProjects[%d]", path, i))
		c.set("name", document.Value(project, "name"))
		c.set("printing_number", document.Value(project, "printingNumber"))
		c.set("document_title", document.Value(project, "documentTitle"))
		c.set("document_url", document.Value(project, "documentUrl"))
	}
}
