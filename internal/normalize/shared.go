package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/document"
)

// fingerprint derives the natural key for shared entities the source repeats
// verbatim instead of identifying. Equal content collapses to one row.
func fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func part(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// codeLabel references a coded label {code, de, en} within a domain. The code
// is the key; a label-only fragment falls back to its text so distinct labels
// never collide on an empty code.
func (m *mapper) codeLabel(domain string, obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	code, _ := document.Value(obj, "code").(string)
	de, _ := document.Value(obj, "de").(string)
	en, _ := document.Value(obj, "en").(string)
	if code == "" {
		if de == "" && en == "" {
			return nil
		}
		code = de
		if code == "" {
			code = en
		}
	}
	ref := catalog.NewRef(catalog.CodeLabel, domain, code)
	ref.Fields["domain"] = domain
	ref.Fields["code"] = code
	if de != "" {
		ref.Fields["de"] = de
	}
	if en != "" {
		ref.Fields["en"] = en
	}
	return ref
}

func (m *mapper) countryLabel(obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	code, _ := document.Value(obj, "code").(string)
	de, _ := document.Value(obj, "de").(string)
	en, _ := document.Value(obj, "en").(string)
	if code == "" && de == "" && en == "" {
		return nil
	}
	ref := catalog.NewRef(catalog.CountryLabel, code)
	ref.Fields["code"] = code
	if de != "" {
		ref.Fields["de"] = de
	}
	if en != "" {
		ref.Fields["en"] = en
	}
	return ref
}

var addressFields = map[string]string{
	"kind":                      "type",
	"national_additional1":      "nationalAdditional1",
	"national_additional2":      "nationalAdditional2",
	"international_additional1": "internationalAdditional1",
	"international_additional2": "internationalAdditional2",
	"street":                    "street",
	"street_number":             "streetNumber",
	"zip_code":                  "zipCode",
	"city":                      "city",
	"post_box":                  "postBox",
}

var addressFingerprintOrder = []string{
	"kind", "national_additional1", "national_additional2",
	"international_additional1", "international_additional2",
	"street", "street_number", "zip_code", "city", "post_box",
}

func (m *mapper) address(path string, obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	ent := catalog.MustLookup(catalog.Address)
	fields := map[string]any{}
	parts := make([]string, 0, len(addressFingerprintOrder)+1)
	for _, col := range addressFingerprintOrder {
		raw := document.Value(obj, addressFields[col])
		kind, _ := ent.ColumnKind(col)
		v, err := catalog.Convert(kind, raw)
		if err != nil {
			m.fail(path+"."+addressFields[col], "%v", err)
			continue
		}
		if v != nil {
			fields[col] = v
		}
		parts = append(parts, part(v))
	}
	country := m.countryLabel(document.Obj(obj, "country"))
	if country != nil {
		parts = append(parts, country.Key[0])
	} else {
		parts = append(parts, "")
	}

	ref := catalog.NewRef(catalog.Address, fingerprint(parts...))
	ref.Fields = fields
	ref.Fields["fingerprint"] = ref.Key[0]
	ref.SetRef("country_id", country)
	return ref
}

// contact builds a contact reference. Emails and websites are written once
// as children when the contact row is first created.
func (m *mapper) contact(path string, obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	phone, _ := document.Value(obj, "phoneNumber").(string)
	if phone == "" {
		phone, _ = document.Value(obj, "phone").(string)
	}

	emails := stringItems(obj, "emails", "email")
	websites := stringItems(obj, "websites", "website")
	if phone == "" && len(emails) == 0 && len(websites) == 0 {
		return nil
	}

	parts := []string{phone, strings.Join(emails, "\x1e"), strings.Join(websites, "\x1e")}
	ref := catalog.NewRef(catalog.Contact, fingerprint(parts...))
	ref.Fields["fingerprint"] = ref.Key[0]
	if phone != "" {
		ref.Fields["phone_number"] = phone
	}
	for i, email := range emails {
		c := catalog.NewRecord("contact_email")
		c.Fields["ordinal"] = i
		c.Fields["email"] = email
		ref.Children = append(ref.Children, c)
	}
	for i, site := range websites {
		c := catalog.NewRecord("contact_website")
		c.Fields["ordinal"] = i
		c.Fields["website"] = site
		ref.Children = append(ref.Children, c)
	}
	return ref
}

// stringItems reads a list that appears both as [{"email": "x"}] and as a
// bare value, mirroring the loose shapes the register emits.
func stringItems(obj document.Raw, listKey, itemKey string) []string {
	var out []string
	raw := document.Value(obj, listKey)
	collect := func(el any) {
		switch t := el.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case document.Raw:
			if s, _ := t[itemKey].(string); s != "" {
				out = append(out, s)
			}
		}
	}
	if list, ok := raw.([]any); ok {
		for _, el := range list {
			collect(el)
		}
	} else if raw != nil {
		collect(raw)
	}
	return out
}

func (m *mapper) department(path string, obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	title, _ := document.Value(obj, "title").(string)
	if title == "" {
		return nil
	}
	short, _ := document.Value(obj, "shortTitle").(string)
	url, _ := document.Value(obj, "url").(string)
	period, err := catalog.Convert(catalog.Int, document.Value(obj, "electionPeriod"))
	if err != nil {
		m.fail(path+".electionPeriod", "%v", err)
		period = nil
	}

	ref := catalog.NewRef(catalog.Department, fingerprint(title, short, url, part(period)))
	ref.Fields["fingerprint"] = ref.Key[0]
	ref.Fields["title"] = title
	if short != "" {
		ref.Fields["short_title"] = short
	}
	if url != "" {
		ref.Fields["url"] = url
	}
	if period != nil {
		ref.Fields["election_period"] = period
	}
	return ref
}

// govFunction flattens a recent government function fragment, whichever of
// the house, federal government or federal administration branches it
// carries, into one shared row.
func (m *mapper) govFunction(path string, obj document.Raw) *catalog.Ref {
	if obj == nil {
		return nil
	}
	ended, err := catalog.Convert(catalog.Bool, document.Value(obj, "ended"))
	if err != nil {
		m.fail(path+".ended", "%v", err)
		ended = nil
	}
	endYM := yearMonth(document.Value(obj, "endDate"))

	typeRef := m.codeLabel("recent_gov_function_type", document.Obj(obj, "type"))

	var (
		houseRef      *catalog.Ref
		housePosition string
	)
	if house := document.Obj(obj, "houseOfRepresentatives"); house != nil {
		houseRef = m.codeLabel("house_reps_function", document.Obj(house, "function"))
		housePosition, _ = document.Value(house, "functionPosition").(string)
	}

	var (
		fedGovRef *catalog.Ref
		depRef    *catalog.Ref
	)
	if fedGov := document.Obj(obj, "federalGovernment"); fedGov != nil {
		fedGovRef = m.codeLabel("federal_gov_function", document.Obj(fedGov, "function"))
		depRef = m.department(path+".federalGovernment.department", document.Obj(fedGov, "department"))
	}

	var authority, authorityShort, adminFunction string
	var adminPeriod any
	if admin := document.Obj(obj, "federalAdministration"); admin != nil {
		authority, _ = document.Value(admin, "supremeFederalAuthority").(string)
		authorityShort, _ = document.Value(admin, "supremeFederalAuthorityShort").(string)
		adminFunction, _ = document.Value(admin, "function").(string)
		adminPeriod, err = catalog.Convert(catalog.Int, document.Value(admin, "supremeFederalAuthorityElectionPeriod"))
		if err != nil {
			m.fail(path+".federalAdministration.supremeFederalAuthorityElectionPeriod", "%v", err)
			adminPeriod = nil
		}
	}

	refKey := func(r *catalog.Ref) string {
		if r == nil {
			return ""
		}
		return strings.Join(r.Key, "\x1e")
	}
	ref := catalog.NewRef(catalog.GovFunction, fingerprint(
		part(ended), part(endYM), refKey(typeRef),
		refKey(houseRef), housePosition,
		refKey(fedGovRef), refKey(depRef),
		authority, authorityShort, part(adminPeriod), adminFunction,
	))
	ref.Fields["fingerprint"] = ref.Key[0]
	if ended != nil {
		ref.Fields["ended"] = ended
	}
	if endYM != nil {
		ref.Fields["end_year_month"] = endYM
	}
	if housePosition != "" {
		ref.Fields["house_function_position"] = housePosition
	}
	if authority != "" {
		ref.Fields["federal_admin_authority"] = authority
	}
	if authorityShort != "" {
		ref.Fields["federal_admin_authority_short"] = authorityShort
	}
	if adminPeriod != nil {
		ref.Fields["federal_admin_election_period"] = adminPeriod
	}
	if adminFunction != "" {
		ref.Fields["federal_admin_function"] = adminFunction
	}
	ref.SetRef("type_label_id", typeRef)
	ref.SetRef("house_function_label_id", houseRef)
	ref.SetRef("federal_gov_function_label_id", fedGovRef)
	ref.SetRef("federal_gov_department_id", depRef)
	return ref
}

// govFunctionIf follows the presence flag the source sets next to every
// recent government function fragment.
func (m *mapper) govFunctionIf(path string, obj document.Raw) *catalog.Ref {
	present, _ := document.Value(obj, "recentGovernmentFunctionPresent").(bool)
	if !present {
		return nil
	}
	return m.govFunction(path+".recentGovernmentFunction", document.Obj(obj, "recentGovernmentFunction"))
}

// yearMonth reduces a date-like value to YYYY-MM, nil when it cannot.
func yearMonth(raw any) any {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	if v, err := catalog.Convert(catalog.YearMonth, s); err == nil {
		return v
	}
	if t, err := catalog.Convert(catalog.Timestamp, s); err == nil {
		return t.(time.Time).Format("2006-01")
	}
	return nil
}
