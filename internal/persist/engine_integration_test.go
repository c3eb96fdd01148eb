//go:build integration

package persist_test

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/document"
	"lobbyreg/internal/normalize"
	"lobbyreg/internal/persist"
	"lobbyreg/internal/refstore"
	"lobbyreg/pkg/testutil/containers"
)

type EngineSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	engine   *persist.Engine
}

func TestEngineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	logger := log.New(io.Discard, "", 0)
	engine := persist.NewEngine(s.postgres.DB, refstore.New(refstore.NewPostgresStore(s.postgres.DB)), logger)
	s.Require().NoError(engine.InitSchema(context.Background()))
	s.engine = engine
}

func (s *EngineSuite) SetupTest() {
	tables := make([]string, 0, len(catalog.Entities))
	for _, e := range catalog.Entities {
		tables = append(tables, e.Table)
	}
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), tables...))

	// Resolver caches ids that truncation just invalidated.
	s.engine = persist.NewEngine(s.postgres.DB,
		refstore.New(refstore.NewPostgresStore(s.postgres.DB)),
		log.New(io.Discard, "", 0))
}

func (s *EngineSuite) commitDoc(raw string) {
	doc, err := document.Parse([]byte(raw))
	s.Require().NoError(err)
	rec, err := normalize.Normalize(doc, normalize.Provenance{}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.engine.Commit(context.Background(), rec))
}

func (s *EngineSuite) count(query string, args ...any) int {
	var n int
	s.Require().NoError(s.postgres.DB.QueryRow(query, args...).Scan(&n))
	return n
}

const baseDoc = `{
	"registerNumber": "R004228",
	"source": "Bundestag",
	"registerEntryDetails": {"legislation": "LobbyRG", "version": 2, "pdfUrl": "https://example.org/v2.pdf"},
	"lobbyistIdentity": {
		"identity": "ORGANIZATION",
		"name": "Beispielverband",
		"membershipsPresent": false,
		"contactDetails": {"emails": [{"email": "info@verband.example"}]}
	},
	"activitiesAndInterests": {
		"activity": {"code": "A01", "de": "Interessenvertretung"},
		"fieldsOfInterest": [
			{"code": "F10", "de": "Energie"},
			{"code": "F20", "de": "Verkehr"},
			{"code": "F30", "de": "Gesundheit"}
		]
	}
}`

func (s *EngineSuite) TestCommitAndReingestIsIdempotent() {
	s.commitDoc(baseDoc)
	s.commitDoc(baseDoc)

	s.Equal(1, s.count("SELECT count(*) FROM register_entry"))
	s.Equal(1, s.count("SELECT count(*) FROM lobbyist_identity"))
	s.Equal(1, s.count("SELECT count(*) FROM entry_details"))
	s.Equal(3, s.count("SELECT count(*) FROM field_of_interest"))
	s.Equal(3, s.count("SELECT count(*) FROM code_label WHERE domain = 'field_of_interest'"))
	s.Equal(1, s.count("SELECT count(*) FROM contact"))
	s.Equal(1, s.count("SELECT count(*) FROM contact_email"))
}

func (s *EngineSuite) TestReingestReplacesCollectionsWholesale() {
	s.commitDoc(baseDoc)

	// The register now lists fewer fields in a different order and a new
	// contact address.
	s.commitDoc(`{
		"registerNumber": "R004228",
		"lobbyistIdentity": {
			"identity": "ORGANIZATION",
			"name": "Beispielverband",
			"membershipsPresent": false,
			"contactDetails": {"emails": [{"email": "kontakt@verband.example"}]}
		},
		"activitiesAndInterests": {
			"activity": {"code": "A01"},
			"fieldsOfInterest": [
				{"code": "F20", "de": "Verkehr"},
				{"code": "F10", "de": "Energie"}
			]
		}
	}`)

	s.Equal(2, s.count("SELECT count(*) FROM field_of_interest"))
	var code string
	s.Require().NoError(s.postgres.DB.QueryRow(
		`SELECT l.code FROM field_of_interest f
		 JOIN code_label l ON l.id = f.label_id
		 WHERE f.ordinal = 0`).Scan(&code))
	s.Equal("F20", code)

	// Old shared rows survive; the identity points at the new contact.
	s.Equal(2, s.count("SELECT count(*) FROM contact"))
	s.Equal(1, s.count(
		`SELECT count(*) FROM lobbyist_identity i
		 JOIN contact c ON c.id = i.contact_id
		 JOIN contact_email e ON e.contact_id = c.id
		 WHERE e.email = 'kontakt@verband.example'`))
	// F30 stays in the label table even though no row references it.
	s.Equal(3, s.count("SELECT count(*) FROM code_label WHERE domain = 'field_of_interest'"))
}

func (s *EngineSuite) TestEntryVersionsAreAdditive() {
	s.commitDoc(baseDoc)
	s.commitDoc(`{
		"registerNumber": "R004228",
		"registerEntryDetails": {"legislation": "LobbyRG", "version": 3},
		"accountDetails": {
			"registerEntryVersions": [
				{"legislation": "LobbyRG", "version": 2},
				{"legislation": "LobbyRG", "version": 3}
			]
		}
	}`)

	s.Equal(2, s.count("SELECT count(*) FROM entry_details"))
	// Version 2 keeps the pdf url learned earlier even though the new
	// document's history row does not repeat it.
	var pdf string
	s.Require().NoError(s.postgres.DB.QueryRow(
		"SELECT pdf_url FROM entry_details WHERE version = 2").Scan(&pdf))
	s.Equal("https://example.org/v2.pdf", pdf)
}

func (s *EngineSuite) TestDroppedSectionIsPruned() {
	s.commitDoc(baseDoc)
	s.Equal(1, s.count("SELECT count(*) FROM activities_interests"))

	s.commitDoc(`{
		"registerNumber": "R004228",
		"lobbyistIdentity": {"identity": "ORGANIZATION", "name": "Beispielverband", "membershipsPresent": false}
	}`)

	s.Equal(0, s.count("SELECT count(*) FROM activities_interests"))
	s.Equal(0, s.count("SELECT count(*) FROM field_of_interest"))
	s.Equal(1, s.count("SELECT count(*) FROM lobbyist_identity"))
}

func (s *EngineSuite) TestLabelBackfill() {
	s.commitDoc(`{
		"registerNumber": "R000001",
		"activitiesAndInterests": {"fieldsOfInterest": [{"code": "F10"}]}
	}`)
	s.commitDoc(`{
		"registerNumber": "R000002",
		"activitiesAndInterests": {"fieldsOfInterest": [{"code": "F10", "de": "Energie", "en": "Energy"}]}
	}`)

	s.Equal(1, s.count("SELECT count(*) FROM code_label WHERE domain = 'field_of_interest'"))
	var de, en string
	s.Require().NoError(s.postgres.DB.QueryRow(
		"SELECT de, en FROM code_label WHERE domain = 'field_of_interest' AND code = 'F10'").Scan(&de, &en))
	s.Equal("Energie", de)
	s.Equal("Energy", en)
}

func (s *EngineSuite) TestConcurrentDocumentsShareReferences() {
	docs := []string{
		`{"registerNumber": "R000010", "lobbyistIdentity": {"identity": "ORGANIZATION", "name": "A", "membershipsPresent": false, "address": {"type": "NATIONAL", "city": "Berlin", "country": {"code": "DE", "de": "Deutschland"}}}}`,
		`{"registerNumber": "R000011", "lobbyistIdentity": {"identity": "ORGANIZATION", "name": "B", "membershipsPresent": false, "address": {"type": "NATIONAL", "city": "Berlin", "country": {"code": "DE", "de": "Deutschland"}}}}`,
		`{"registerNumber": "R000012", "lobbyistIdentity": {"identity": "ORGANIZATION", "name": "C", "membershipsPresent": false, "address": {"type": "NATIONAL", "city": "Berlin", "country": {"code": "DE", "de": "Deutschland"}}}}`,
		`{"registerNumber": "R000013", "lobbyistIdentity": {"identity": "ORGANIZATION", "name": "D", "membershipsPresent": false, "address": {"type": "NATIONAL", "city": "Berlin", "country": {"code": "DE", "de": "Deutschland"}}}}`,
	}

	var wg sync.WaitGroup
	for _, raw := range docs {
		wg.Add(1)
		go func(raw string) {
			defer wg.Done()
			doc, err := document.Parse([]byte(raw))
			if !s.NoError(err) {
				return
			}
			rec, err := normalize.Normalize(doc, normalize.Provenance{}, time.Now())
			if !s.NoError(err) {
				return
			}
			s.NoError(s.engine.Commit(context.Background(), rec))
		}(raw)
	}
	wg.Wait()

	s.Equal(4, s.count("SELECT count(*) FROM register_entry"))
	s.Equal(1, s.count("SELECT count(*) FROM address"))
	s.Equal(1, s.count("SELECT count(*) FROM country_label"))
	s.Equal(4, s.count("SELECT count(*) FROM lobbyist_identity WHERE address_id IS NOT NULL"))
}
