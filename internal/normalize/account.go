package normalize

import (
	"fmt"

	"lobbyreg/internal/document"
)

func (m *mapper) accountDetails(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("account_details", 0, "accountDetails")
	r.set("active_lobbyist", document.Value(data, "activeLobbyist"))
	r.set("inactive_start", document.Value(data, "inactiveLobbyistStartDate"))
	r.set("first_published", document.Value(data, "firstPublicationDate"))
	r.set("last_updated", document.Value(data, "lastUpdateDate"))
	r.set("codex_violations_present", document.Value(data, "accountHasCodexViolations"))

	for i, rng := range document.Objs(data, "activeDateRanges") {
		c := r.child("account_active_range", i, fmt.Sprintf("accountDetails.activeDateRanges[%d]", i))
		c.set("from_date", document.Value(rng, "fromDate"))
		c.set("until_date", document.Value(rng, "untilDate"))
	}
	for i, rng := range document.Objs(data, "inactiveDateRanges") {
		c := r.child("account_inactive_range", i, fmt.Sprintf("accountDetails.inactiveDateRanges[%d]", i))
		c.set("from_date", document.Value(rng, "fromDate"))
		c.set("until_date", document.Value(rng, "untilDate"))
	}
	ordinal := 0
	for i, violation := range document.Objs(data, "codexViolations") {
		name, _ := document.Value(violation, "codexViolationName").(string)
		if name == "" {
			continue
		}
		c := r.child("codex_violation", ordinal, fmt.Sprintf("accountDetails.codexViolations[%d]", i))
		c.set("name", name)
		ordinal++
	}
}

func (m *mapper) codeOfConduct(root *row, data document.Raw) {
	if data == nil {
		return
	}
	r := root.child("code_of_conduct", 0, "codeOfConduct")
	r.set("own_code", document.Value(data, "ownCodeOfConduct"))
	r.set("pdf_url", document.Value(data, "codeOfConductPdfUrl"))
}
