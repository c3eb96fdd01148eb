// Package catalog is the single definition of the normalized relational
// schema: every entity, its columns and semantic kinds, its parent and
// upsert strategy, and its natural key. The normalizer produces records
// tagged with these entities and the persistence engine derives its SQL from
// them, so the mapping and the storage layout cannot drift apart.
package catalog

import "fmt"

// Mode selects the persistence strategy for an entity.
type Mode int

const (
	// ModeRoot is the register entry itself: upsert by natural key.
	ModeRoot Mode = iota
	// ModeSection is a singleton per entry: upsert by the entry foreign key.
	ModeSection
	// ModeVersioned rows are upserted by natural key and never deleted; the
	// source is additive for them.
	ModeVersioned
	// ModeCollection rows are ordered children replaced wholesale whenever
	// their parent is re-ingested.
	ModeCollection
	// ModeChild is a singleton owned by a non-entry parent; it is rewritten
	// together with the parent's subtree.
	ModeChild
	// ModeShared rows are deduplicated reference entities created lazily by
	// get-or-create and never deleted by ingestion.
	ModeShared
)

// Column is one scalar attribute of an entity.
type Column struct {
	Name    string
	Kind    Kind
	NotNull bool
}

// RefColumn is a foreign key into a shared entity's table.
type RefColumn struct {
	Name   string
	Target string
}

// Entity describes one table of the normalized schema.
type Entity struct {
	Name       string
	Table      string
	Mode       Mode
	Parent     string // owning entity, "" for root and shared entities
	FK         string // foreign-key column to the parent
	Ordered    bool   // carries an ordinal column
	NaturalKey []string
	Columns    []Column
	Refs       []RefColumn
}

func col(name string, kind Kind) Column { return Column{Name: name, Kind: kind} }
func req(name string, kind Kind) Column { return Column{Name: name, Kind: kind, NotNull: true} }
func ref(name, target string) RefColumn { return RefColumn{Name: name, Target: target} }
func fingerprint() Column               { return Column{Name: "fingerprint", Kind: Text, NotNull: true} }

// Shared entity names used throughout the normalizer and resolver.
const (
	CodeLabel    = "code_label"
	CountryLabel = "country_label"
	Address      = "address"
	Contact      = "contact"
	Department   = "department"
	GovFunction  = "recent_government_function"
)

// RegisterEntry is the root entity name.
const RegisterEntry = "register_entry"

// Entities is the fixed catalog, parents before children so the generated DDL
// can be applied in order.
var Entities = []Entity{
	// Shared reference entities.
	{
		Name: CodeLabel, Table: "code_label", Mode: ModeShared,
		NaturalKey: []string{"domain", "code"},
		Columns: []Column{
			req("domain", Text), req("code", Text),
			col("de", Text), col("en", Text),
		},
	},
	{
		Name: CountryLabel, Table: "country_label", Mode: ModeShared,
		NaturalKey: []string{"code"},
		Columns: []Column{
			req("code", Text), col("de", Text), col("en", Text),
		},
	},
	{
		Name: Address, Table: "address", Mode: ModeShared,
		NaturalKey: []string{"fingerprint"},
		Columns: []Column{
			fingerprint(),
			col("kind", Text),
			col("national_additional1", Text), col("national_additional2", Text),
			col("international_additional1", Text), col("international_additional2", Text),
			col("street", Text), col("street_number", Text),
			col("zip_code", Text), col("city", Text), col("post_box", Text),
		},
		Refs: []RefColumn{ref("country_id", CountryLabel)},
	},
	{
		Name: Contact, Table: "contact", Mode: ModeShared,
		NaturalKey: []string{"fingerprint"},
		Columns:    []Column{fingerprint(), col("phone_number", Text)},
	},
	{
		Name: "contact_email", Table: "contact_email", Mode: ModeCollection,
		Parent: Contact, FK: "contact_id", Ordered: true,
		Columns: []Column{req("email", Text)},
	},
	{
		Name: "contact_website", Table: "contact_website", Mode: ModeCollection,
		Parent: Contact, FK: "contact_id", Ordered: true,
		Columns: []Column{req("website", Text)},
	},
	{
		Name: Department, Table: "department", Mode: ModeShared,
		NaturalKey: []string{"fingerprint"},
		Columns: []Column{
			fingerprint(),
			req("title", Text), col("short_title", Text),
			col("url", Text), col("election_period", Int),
		},
	},
	{
		Name: GovFunction, Table: "recent_government_function", Mode: ModeShared,
		NaturalKey: []string{"fingerprint"},
		Columns: []Column{
			fingerprint(),
			col("ended", Bool), col("end_year_month", YearMonth),
			col("house_function_position", Text),
			col("federal_admin_authority", Text),
			col("federal_admin_authority_short", Text),
			col("federal_admin_election_period", Int),
			col("federal_admin_function", Text),
		},
		Refs: []RefColumn{
			ref("type_label_id", CodeLabel),
			ref("house_function_label_id", CodeLabel),
			ref("federal_gov_function_label_id", CodeLabel),
			ref("federal_gov_department_id", Department),
		},
	},

	// Root and provenance.
	{
		Name: RegisterEntry, Table: "register_entry", Mode: ModeRoot,
		NaturalKey: []string{"register_number"},
		Columns: []Column{
			req("register_number", Text),
			col("schema_uri", Text), col("source", Text), col("source_url", Text),
			col("source_date", Timestamp), col("json_doc_url", Text),
			col("fetched_at", Timestamp),
		},
	},
	{
		Name: "entry_details", Table: "entry_details", Mode: ModeVersioned,
		Parent: RegisterEntry, FK: "entry_id",
		NaturalKey: []string{"entry_id", "legislation", "version"},
		Columns: []Column{
			req("legislation", Text), req("version", Int),
			col("register_entry_id_num", Int),
			col("details_page_url", Text), col("pdf_url", Text), col("json_detail_url", Text),
			col("valid_from", Timestamp), col("valid_until", Timestamp), col("active_until", Timestamp),
			col("active_lobbyist", Bool), col("refused_anything", Bool),
			col("annual_update_missing", Bool), col("last_annual_update", Timestamp),
			col("fiscal_update_missing", Bool), col("last_fiscal_year_update", Timestamp),
		},
	},

	// Account details.
	{
		Name: "account_details", Table: "account_details", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("active_lobbyist", Bool),
			col("inactive_start", Timestamp),
			col("first_published", Timestamp),
			col("last_updated", Timestamp),
			col("codex_violations_present", Bool),
		},
	},
	{
		Name: "account_active_range", Table: "account_active_range", Mode: ModeCollection,
		Parent: "account_details", FK: "account_id", Ordered: true,
		Columns: []Column{col("from_date", Timestamp), col("until_date", Timestamp)},
	},
	{
		Name: "account_inactive_range", Table: "account_inactive_range", Mode: ModeCollection,
		Parent: "account_details", FK: "account_id", Ordered: true,
		Columns: []Column{col("from_date", Timestamp), col("until_date", Timestamp)},
	},
	{
		Name: "codex_violation", Table: "codex_violation", Mode: ModeCollection,
		Parent: "account_details", FK: "account_id", Ordered: true,
		Columns: []Column{req("name", Text)},
	},

	// Identity.
	{
		Name: "identity", Table: "lobbyist_identity", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			req("kind", Text), // "person" or "organization"
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("first_name", Text), col("common_first_name", Text),
			col("artist_name", Text), col("company_name", Text), col("name", Text),
			col("legal_form_text", Text),
			col("recent_function_present", Bool),
			col("entrusted_persons_present", Bool),
			col("members_present", Bool), col("memberships_present", Bool),
			col("members_natural_persons", Int), col("members_organizations", Int),
			col("members_total", Int), col("members_date", Date),
		},
		Refs: []RefColumn{
			ref("person_type_label_id", CodeLabel),
			ref("legal_form_type_label_id", CodeLabel),
			ref("legal_form_label_id", CodeLabel),
			ref("address_id", Address),
			ref("contact_id", Contact),
			ref("recent_function_id", GovFunction),
			ref("capital_address_id", Address),
			ref("capital_contact_id", Contact),
		},
	},
	{
		Name: "entrusted_person", Table: "entrusted_person", Mode: ModeCollection,
		Parent: "identity", FK: "identity_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("first_name", Text), col("artist_name", Text),
			col("recent_function_present", Bool),
		},
		Refs: []RefColumn{ref("recent_function_id", GovFunction)},
	},
	{
		Name: "legal_representative", Table: "legal_representative", Mode: ModeCollection,
		Parent: "identity", FK: "identity_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("first_name", Text), col("common_first_name", Text),
			col("artist_name", Text), col("function", Text),
		},
		Refs: []RefColumn{
			ref("recent_function_id", GovFunction),
			ref("contact_id", Contact),
		},
	},
	{
		Name: "named_employee", Table: "named_employee", Mode: ModeCollection,
		Parent: "identity", FK: "identity_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("common_first_name", Text),
		},
	},
	{
		Name: "membership", Table: "membership", Mode: ModeCollection,
		Parent: "identity", FK: "identity_id", Ordered: true,
		Columns: []Column{col("name", Text)},
	},

	// Activities and interests.
	{
		Name: "activities", Table: "activities_interests", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("activity_text", Text), col("activity_legal_basis", Text),
			col("operation_type", Text), col("description", Text),
		},
		Refs: []RefColumn{ref("activity_label_id", CodeLabel)},
	},
	{
		Name: "activity_exercise", Table: "activity_exercise", Mode: ModeCollection,
		Parent: "activities", FK: "activities_id", Ordered: true,
		Refs:   []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "field_of_interest", Table: "field_of_interest", Mode: ModeCollection,
		Parent: "activities", FK: "activities_id", Ordered: true,
		Columns: []Column{col("field_text", Text)},
		Refs:    []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "legislative_project", Table: "legislative_project", Mode: ModeCollection,
		Parent: "activities", FK: "activities_id", Ordered: true,
		Columns: []Column{
			col("name", Text), col("printing_number", Text),
			col("document_title", Text), col("document_url", Text),
		},
	},

	// Clients.
	{
		Name: "client_identity", Table: "client_identity", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{col("clients_present", Bool), col("clients_count", Int)},
	},
	{
		Name: "client_organization", Table: "client_organization", Mode: ModeCollection,
		Parent: "client_identity", FK: "client_identity_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("name", Text), col("legal_form_text", Text),
		},
		Refs: []RefColumn{
			ref("legal_form_type_label_id", CodeLabel),
			ref("legal_form_label_id", CodeLabel),
			ref("address_id", Address),
			ref("contact_id", Contact),
		},
	},
	{
		Name: "client_org_representative", Table: "client_org_representative", Mode: ModeCollection,
		Parent: "client_organization", FK: "organization_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("common_first_name", Text), col("last_name", Text), col("function", Text),
		},
		Refs: []RefColumn{ref("contact_id", Contact)},
	},
	{
		Name: "client_person", Table: "client_person", Mode: ModeCollection,
		Parent: "client_identity", FK: "client_identity_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("common_first_name", Text),
		},
	},

	// Employees involved in lobbying.
	{
		Name: "employees_involved", Table: "employees_involved", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("employees_from", Int), col("employees_to", Int),
			col("employees_fte", Number),
		},
	},

	// Financial sections.
	{
		Name: "financial_expenses", Table: "financial_expenses", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("refused", Bool), col("refusal_reason", Text),
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("fiscal_year_completed", Bool),
			col("fiscal_start_month", YearMonth), col("fiscal_end_month", YearMonth),
			col("expenses_from_eur", Euro), col("expenses_to_eur", Euro),
		},
	},
	{
		Name: "main_funding_sources", Table: "main_funding_sources", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
		},
	},
	{
		Name: "funding_source", Table: "funding_source", Mode: ModeCollection,
		Parent: "main_funding_sources", FK: "sources_id", Ordered: true,
		Refs:   []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "public_allowances", Table: "public_allowances", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("refused", Bool), col("refusal_reason", Text),
			col("allowances_present", Bool),
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("fiscal_year_completed", Bool),
			col("fiscal_start_month", YearMonth), col("fiscal_end_month", YearMonth),
		},
	},
	{
		Name: "public_allowance", Table: "public_allowance", Mode: ModeCollection,
		Parent: "public_allowances", FK: "allowances_id", Ordered: true,
		Columns: []Column{
			col("name", Text), col("location", Text), col("description", Text),
			col("amount_from_eur", Euro), col("amount_to_eur", Euro),
		},
		Refs: []RefColumn{
			ref("type_label_id", CodeLabel),
			ref("country_id", CountryLabel),
		},
	},
	{
		Name: "donators", Table: "donators", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("refused", Bool), col("refusal_reason", Text),
			col("info_present", Bool),
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("fiscal_year_completed", Bool),
			col("fiscal_start_month", YearMonth), col("fiscal_end_month", YearMonth),
			col("total_from_eur", Euro), col("total_to_eur", Euro),
		},
	},
	{
		Name: "donation", Table: "donation", Mode: ModeCollection,
		Parent: "donators", FK: "donators_id", Ordered: true,
		Columns: []Column{
			col("name", Text), col("description", Text),
			col("amount_from_eur", Euro), col("amount_to_eur", Euro),
		},
	},
	{
		Name: "membership_fees", Table: "membership_fees", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("total_from_eur", Euro), col("total_to_eur", Euro),
			col("individual_contributors_present", Bool),
		},
	},
	{
		Name: "fee_contributor", Table: "fee_contributor", Mode: ModeCollection,
		Parent: "membership_fees", FK: "fees_id", Ordered: true,
		Columns: []Column{col("name", Text)},
	},
	{
		Name: "annual_reports", Table: "annual_reports", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{
			col("disclosure_required", Bool),
			col("refused", Bool), col("refusal_reason", Text),
			col("report_exists", Bool),
			col("last_fy_report_exists", Bool), col("previous_fy_report_exists", Bool),
			col("finished_fy_exists", Bool),
			col("last_fy_start", Date), col("last_fy_end", Date),
			col("previous_fy_start", Date), col("previous_fy_end", Date),
			col("pdf_url", Text), col("missing_reason", Text),
			col("published_elsewhere", Bool), col("publication_location", Text),
		},
	},

	// Regulatory projects.
	{
		Name: "regulatory_projects", Table: "regulatory_projects", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{col("projects_present", Bool), col("projects_count", Int)},
	},
	{
		Name: "regulatory_project", Table: "regulatory_project", Mode: ModeCollection,
		Parent: "regulatory_projects", FK: "projects_id", Ordered: true,
		Columns: []Column{
			col("number", Text), col("title", Text), col("description", Text),
			col("printed_matters_present", Bool), col("draft_bill_present", Bool),
		},
	},
	{
		Name: "printed_matter", Table: "printed_matter", Mode: ModeCollection,
		Parent: "regulatory_project", FK: "project_id", Ordered: true,
		Columns: []Column{
			col("title", Text), col("printing_number", Text), col("issuer", Text),
			col("document_url", Text), col("project_url", Text),
		},
	},
	{
		Name: "printed_matter_ministry", Table: "printed_matter_ministry", Mode: ModeCollection,
		Parent: "printed_matter", FK: "printed_matter_id", Ordered: true,
		Refs:   []RefColumn{ref("department_id", Department)},
	},
	{
		Name: "draft_bill", Table: "draft_bill", Mode: ModeChild,
		Parent: "regulatory_project", FK: "project_id",
		Columns: []Column{
			col("title", Text), col("publication_date", Date),
			col("custom_title", Text), col("custom_date", Date),
		},
	},
	{
		Name: "draft_bill_ministry", Table: "draft_bill_ministry", Mode: ModeCollection,
		Parent: "draft_bill", FK: "draft_bill_id", Ordered: true,
		Refs:   []RefColumn{ref("department_id", Department)},
	},
	{
		Name: "project_field_of_interest", Table: "project_field_of_interest", Mode: ModeCollection,
		Parent: "regulatory_project", FK: "project_id", Ordered: true,
		Refs:   []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "affected_law", Table: "affected_law", Mode: ModeCollection,
		Parent: "regulatory_project", FK: "project_id", Ordered: true,
		Columns: []Column{col("title", Text), col("short_title", Text), col("url", Text)},
	},

	// Statements.
	{
		Name: "statements", Table: "statements", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{col("statements_present", Bool), col("statements_count", Int)},
	},
	{
		Name: "statement", Table: "statement", Mode: ModeCollection,
		Parent: "statements", FK: "statements_id", Ordered: true,
		Columns: []Column{
			col("number", Text),
			col("project_number", Text), col("project_title", Text),
			col("pdf_url", Text), col("pdf_page_count", Int),
			col("copyright_note", Text), col("text_body", Text),
			col("sending_date", Date),
		},
	},
	{
		Name: "recipient_group", Table: "recipient_group", Mode: ModeCollection,
		Parent: "statement", FK: "statement_id", Ordered: true,
	},
	{
		Name: "parliament_recipient", Table: "parliament_recipient", Mode: ModeCollection,
		Parent: "recipient_group", FK: "group_id", Ordered: true,
		Refs:   []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "government_recipient", Table: "government_recipient", Mode: ModeCollection,
		Parent: "recipient_group", FK: "group_id", Ordered: true,
		Refs:   []RefColumn{ref("department_id", Department)},
	},

	// Contracts.
	{
		Name: "contracts", Table: "contracts", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{col("contracts_present", Bool), col("contracts_count", Int)},
	},
	{
		Name: "contract", Table: "contract", Mode: ModeCollection,
		Parent: "contracts", FK: "contracts_id", Ordered: true,
		Columns: []Column{
			col("description", Text),
			col("lobbying_by_lobbyist", Bool),
		},
	},
	{
		Name: "contract_field_of_interest", Table: "contract_field_of_interest", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{col("field_text", Text)},
		Refs:    []RefColumn{ref("label_id", CodeLabel)},
	},
	{
		Name: "contract_project_ref", Table: "contract_project_ref", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{col("number", Text), col("title", Text)},
	},
	{
		Name: "contract_client_org", Table: "contract_client_org", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("name", Text), col("legal_form_text", Text),
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("received_from_eur", Euro), col("received_to_eur", Euro),
		},
		Refs: []RefColumn{
			ref("legal_form_type_label_id", CodeLabel),
			ref("legal_form_label_id", CodeLabel),
			ref("address_id", Address),
			ref("contact_id", Contact),
		},
	},
	{
		Name: "contract_client_org_representative", Table: "contract_client_org_representative", Mode: ModeCollection,
		Parent: "contract_client_org", FK: "organization_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("first_name", Text), col("last_name", Text),
			col("artist_name", Text), col("function", Text),
		},
	},
	{
		Name: "contract_client_person", Table: "contract_client_person", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("first_name", Text),
			col("artist_name", Text), col("company_name", Text),
			col("fiscal_year_finished", Bool),
			col("fiscal_year_start", Date), col("fiscal_year_end", Date),
			col("received_from_eur", Euro), col("received_to_eur", Euro),
		},
	},
	{
		Name: "contract_entrusted_person", Table: "contract_entrusted_person", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("first_name", Text), col("last_name", Text),
			col("artist_name", Text), col("function", Text),
			col("recent_function_present", Bool),
		},
		Refs: []RefColumn{ref("recent_function_id", GovFunction)},
	},
	{
		Name: "contractor_org", Table: "contractor_org", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("name", Text), col("legal_form_text", Text),
		},
		Refs: []RefColumn{
			ref("legal_form_type_label_id", CodeLabel),
			ref("legal_form_label_id", CodeLabel),
			ref("address_id", Address),
			ref("contact_id", Contact),
			ref("capital_address_id", Address),
			ref("capital_contact_id", Contact),
		},
	},
	{
		Name: "contractor_org_representative", Table: "contractor_org_representative", Mode: ModeCollection,
		Parent: "contractor_org", FK: "organization_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("first_name", Text), col("last_name", Text),
			col("artist_name", Text), col("function", Text),
			col("recent_function_present", Bool),
		},
		Refs: []RefColumn{ref("recent_function_id", GovFunction)},
	},
	{
		Name: "contractor_assigned_person", Table: "contractor_assigned_person", Mode: ModeCollection,
		Parent: "contractor_org", FK: "organization_id", Ordered: true,
		Columns: []Column{
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("first_name", Text), col("last_name", Text), col("artist_name", Text),
			col("recent_function_present", Bool),
		},
		Refs: []RefColumn{ref("recent_function_id", GovFunction)},
	},
	{
		Name: "contractor_person", Table: "contractor_person", Mode: ModeCollection,
		Parent: "contract", FK: "contract_id", Ordered: true,
		Columns: []Column{
			col("reference_name", Text), col("reference_url", Text),
			col("academic_degree_before", Text), col("academic_degree_after", Text),
			col("last_name", Text), col("first_name", Text),
			col("artist_name", Text), col("company_name", Text),
			col("recent_function_present", Bool),
		},
		Refs: []RefColumn{ref("recent_function_id", GovFunction)},
	},

	// Code of conduct.
	{
		Name: "code_of_conduct", Table: "code_of_conduct", Mode: ModeSection,
		Parent: RegisterEntry, FK: "entry_id",
		Columns: []Column{col("own_code", Bool), col("pdf_url", Text)},
	},
}

var byName = func() map[string]*Entity {
	m := make(map[string]*Entity, len(Entities))
	for i := range Entities {
		m[Entities[i].Name] = &Entities[i]
	}
	return m
}()

// Lookup returns the entity definition for a logical name.
func Lookup(name string) (*Entity, bool) {
	e, ok := byName[name]
	return e, ok
}

// MustLookup is Lookup for names the code itself supplies; an unknown name is
// a programming error, not a data error.
func MustLookup(name string) *Entity {
	e, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown entity %q", name))
	}
	return e
}

// ColumnKind returns the kind of a scalar column of the entity.
func (e *Entity) ColumnKind(name string) (Kind, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// RefTarget returns the shared entity a reference column points at.
func (e *Entity) RefTarget(name string) (string, bool) {
	for _, r := range e.Refs {
		if r.Name == name {
			return r.Target, true
		}
	}
	return "", false
}

// ChildrenOf lists the entities directly owned by the named entity, in
// catalog order.
func ChildrenOf(name string) []*Entity {
	var out []*Entity
	for i := range Entities {
		if Entities[i].Parent == name {
			out = append(out, &Entities[i])
		}
	}
	return out
}
