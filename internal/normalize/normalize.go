// Package normalize turns register documents into record trees over the
// catalog. It is pure: no I/O, no database. One document in, one tree rooted
// at a register_entry record out, or a MalformedDocumentError naming every
// violation found.
package normalize

import (
	"fmt"
	"time"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/document"
)

// Provenance is listing-level metadata stored on the register entry when the
// document itself does not carry it.
type Provenance struct {
	Source     string
	SourceURL  string
	SourceDate string
	JSONDocURL string
}

// Normalize maps one register document into a record tree. fetchedAt is
// recorded on the root for provenance.
func Normalize(doc document.Raw, prov Provenance, fetchedAt time.Time) (*catalog.Record, error) {
	m := &mapper{}

	number, _ := document.Value(doc, "registerNumber").(string)
	if number == "" {
		m.fail("registerNumber", "missing or not a string")
	}

	root := m.row(catalog.RegisterEntry, "")
	root.set("register_number", document.Value(doc, "registerNumber"))
	root.set("schema_uri", document.Value(doc, "$schema"))
	root.set("source", coalesce(document.Value(doc, "source"), prov.Source))
	root.set("source_url", coalesce(document.Value(doc, "sourceUrl"), prov.SourceURL))
	root.set("source_date", coalesce(document.Value(doc, "sourceDate"), prov.SourceDate))
	root.set("json_doc_url", coalesce(document.Value(doc, "jsonDocumentationUrl"), prov.JSONDocURL))
	root.rec.Fields["fetched_at"] = fetchedAt.UTC()

	m.entryVersions(root, doc)
	m.accountDetails(root, document.Obj(doc, "accountDetails"))
	m.identity(root, document.Obj(doc, "lobbyistIdentity"))
	m.activities(root, document.Obj(doc, "activitiesAndInterests"))
	m.clientIdentity(root, document.Obj(doc, "clientIdentity"))
	m.employees(root, document.Obj(doc, "employeesInvolvedInLobbying"))
	m.financialExpenses(root, document.Obj(doc, "financialExpenses"))
	m.mainFundingSources(root, document.Obj(doc, "mainFundingSources"))
	m.publicAllowances(root, document.Obj(doc, "publicAllowances"))
	m.donators(root, document.Obj(doc, "donators"))
	m.membershipFees(root, document.Obj(doc, "membershipFees"))
	m.annualReports(root, document.Obj(doc, "annualReports"))
	m.regulatoryProjects(root, document.Obj(doc, "regulatoryProjects"))
	m.statements(root, document.Obj(doc, "statements"))
	m.contracts(root, document.Obj(doc, "contracts"))
	m.codeOfConduct(root, document.Obj(doc, "codeOfConduct"))

	if len(m.violations) > 0 {
		return nil, &MalformedDocumentError{RegisterNumber: number, Violations: m.violations}
	}
	return root.rec, nil
}

func coalesce(v any, fallback string) any {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return v
}

// mapper accumulates catalog violations while a document is walked.
type mapper struct {
	violations []string
}

func (m *mapper) fail(path, format string, args ...any) {
	m.violations = append(m.violations, path+": "+fmt.Sprintf(format, args...))
}

// row wraps one record under construction with its entity definition and the
// document path used in violation messages.
type row struct {
	m    *mapper
	ent  *catalog.Entity
	rec  *catalog.Record
	path string
}

func (m *mapper) row(entity, path string) *row {
	return &row{m: m, ent: catalog.MustLookup(entity), rec: catalog.NewRecord(entity), path: path}
}

// set converts raw against the column's kind and stores it. nil raw leaves
// the column NULL without an entry. Conversion failures are recorded as
// violations and the column stays NULL.
func (r *row) set(column string, raw any) {
	if raw == nil {
		return
	}
	kind, ok := r.ent.ColumnKind(column)
	if !ok {
		panic(fmt.Sprintf("normalize: entity %s has no column %s", r.ent.Name, column))
	}
	v, err := catalog.Convert(kind, raw)
	if err != nil {
		r.m.fail(r.fieldPath(column), "%v", err)
		return
	}
	r.rec.Fields[column] = v
}

func (r *row) ref(column string, ref *catalog.Ref) {
	r.rec.SetRef(column, ref)
}

// child appends an owned record, assigning the ordinal when the child entity
// is ordered. Ordinals count from zero in document order.
func (r *row) child(entity string, ordinal int, path string) *row {
	c := r.m.row(entity, path)
	if c.ent.Ordered {
		c.rec.Fields["ordinal"] = ordinal
	}
	r.rec.AddChild(c.rec)
	return c
}

func (r *row) fieldPath(column string) string {
	if r.path == "" {
		return column
	}
	return r.path + "." + column
}

// entryVersions builds the additive entry_details rows from the current
// registerEntryDetails fragment and the version history the account carries.
// The same (legislation, version) appearing in both merges, the detail
// fragment winning; a duplicate inside the history is a violation.
func (m *mapper) entryVersions(root *row, doc document.Raw) {
	type key struct {
		legislation string
		version     int64
	}
	index := map[key]*row{}

	mk := func(r *row, path string) (key, bool) {
		leg, _ := r.rec.Fields["legislation"].(string)
		ver, okv := r.rec.Fields["version"].(int64)
		if leg == "" || !okv {
			m.fail(path, "version row without legislation and version")
			return key{}, false
		}
		return key{leg, ver}, true
	}

	for i, v := range document.Objs(document.Obj(doc, "accountDetails"), "registerEntryVersions") {
		path := fmt.Sprintf("accountDetails.registerEntryVersions[%d]", i)
		r := root.child("entry_details", 0, path)
		r.set("legislation", document.Value(v, "legislation"))
		r.set("version", document.Value(v, "version"))
		r.set("register_entry_id_num", document.Value(v, "registerEntryId"))
		r.set("json_detail_url", document.Value(v, "jsonDetailUrl"))
		r.set("valid_from", document.Value(v, "validFromDate"))
		r.set("valid_until", document.Value(v, "validUntilDate"))
		r.set("active_until", document.Value(v, "activeUntilDate"))
		r.set("active_lobbyist", document.Value(v, "versionActiveLobbyist"))

		k, ok := mk(r, path)
		if !ok {
			continue
		}
		if _, dup := index[k]; dup {
			m.fail(path, "duplicate version %s/%d", k.legislation, k.version)
			continue
		}
		index[k] = r
	}

	details := document.Obj(doc, "registerEntryDetails")
	if details == nil {
		return
	}
	path := "registerEntryDetails"
	r := root.child("entry_details", 0, path)
	r.set("legislation", document.Value(details, "legislation"))
	r.set("version", document.Value(details, "version"))
	r.set("register_entry_id_num", document.Value(details, "registerEntryId"))
	r.set("details_page_url", document.Value(details, "detailsPageUrl"))
	r.set("pdf_url", document.Value(details, "pdfUrl"))
	r.set("valid_from", document.Value(details, "validFromDate"))
	r.set("valid_until", document.Value(details, "validUntilDate"))
	r.set("refused_anything", document.Value(details, "refusedAnything"))
	if upd := document.Obj(details, "annualUpdate"); upd != nil {
		r.set("annual_update_missing", document.Value(upd, "updateMissing"))
		r.set("last_annual_update", document.Value(upd, "lastAnnualUpdate"))
	}
	if upd := document.Obj(details, "fiscalYearUpdate"); upd != nil {
		r.set("fiscal_update_missing", document.Value(upd, "updateMissing"))
		r.set("last_fiscal_year_update", document.Value(upd, "lastFiscalYearUpdate"))
	}

	k, ok := mk(r, path)
	if !ok {
		return
	}
	if prev, seen := index[k]; seen {
		// Merge into the history row, the current fragment winning.
		for col, val := range r.rec.Fields {
			prev.rec.Fields[col] = val
		}
		root.rec.Children = root.rec.Children[:len(root.rec.Children)-1]
	}
}
