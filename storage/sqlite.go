package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/henboffman/ontology-builder-sub002/model"
)

// sqliteSchema creates the ontology tables. Examples are stored as a
// JSON array; they are semantically a list, never one opaque string.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ontologies (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	namespace   TEXT NOT NULL,
	version     TEXT NOT NULL,
	uses_bfo    INTEGER NOT NULL DEFAULT 0,
	uses_prov_o INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL,
	modified_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS concepts (
	id                 TEXT PRIMARY KEY,
	ontology_id        TEXT NOT NULL REFERENCES ontologies(id),
	name               TEXT NOT NULL,
	category           TEXT,
	definition         TEXT,
	simple_explanation TEXT,
	examples           TEXT,
	color              TEXT,
	source_ontology    TEXT
);
CREATE INDEX IF NOT EXISTS idx_concepts_ontology ON concepts(ontology_id);

CREATE TABLE IF NOT EXISTS concept_properties (
	id               TEXT PRIMARY KEY,
	concept_id       TEXT NOT NULL REFERENCES concepts(id),
	name             TEXT NOT NULL,
	uri              TEXT,
	kind             TEXT NOT NULL,
	data_type        TEXT,
	range_concept_id TEXT,
	required         INTEGER NOT NULL DEFAULT 0,
	functional       INTEGER NOT NULL DEFAULT 0,
	description      TEXT
);
CREATE INDEX IF NOT EXISTS idx_properties_concept ON concept_properties(concept_id);

CREATE TABLE IF NOT EXISTS relationships (
	id                TEXT PRIMARY KEY,
	ontology_id       TEXT NOT NULL REFERENCES ontologies(id),
	source_concept_id TEXT NOT NULL REFERENCES concepts(id),
	target_concept_id TEXT NOT NULL REFERENCES concepts(id),
	relation_type     TEXT NOT NULL,
	label             TEXT,
	description       TEXT
);
CREATE INDEX IF NOT EXISTS idx_relationships_ontology ON relationships(ontology_id);
`

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given DSN
// and ensures the schema exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single open
	// connection serialises writes and avoids SQLITE_BUSY; WAL mode
	// lets readers proceed without blocking the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateOntology(ctx context.Context, o *model.Ontology) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ontologies (id, name, namespace, version, uses_bfo, uses_prov_o, created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Namespace, o.Version, o.UsesBFO, o.UsesProvO, o.CreatedAt, o.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert ontology: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetOntology(ctx context.Context, id string) (*model.Ontology, error) {
	o := &model.Ontology{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, namespace, version, uses_bfo, uses_prov_o, created_at, modified_at
		 FROM ontologies WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.Namespace, &o.Version, &o.UsesBFO, &o.UsesProvO, &o.CreatedAt, &o.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ontology: %w", err)
	}

	if err := s.loadConcepts(ctx, o); err != nil {
		return nil, err
	}
	if err := s.loadRelationships(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *SQLiteStore) loadConcepts(ctx context.Context, o *model.Ontology) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ontology_id, name, COALESCE(category,''), COALESCE(definition,''),
		        COALESCE(simple_explanation,''), COALESCE(examples,''), COALESCE(color,''),
		        COALESCE(source_ontology,'')
		 FROM concepts WHERE ontology_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("select concepts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Concept{}
		var examples string
		if err := rows.Scan(&c.ID, &c.OntologyID, &c.Name, &c.Category, &c.Definition,
			&c.SimpleExplanation, &examples, &c.Color, &c.SourceOntology); err != nil {
			return fmt.Errorf("scan concept: %w", err)
		}
		if examples != "" {
			if err := json.Unmarshal([]byte(examples), &c.Examples); err != nil {
				return fmt.Errorf("decode examples for concept %s: %w", c.ID, err)
			}
		}
		o.Concepts = append(o.Concepts, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate concepts: %w", err)
	}

	for _, c := range o.Concepts {
		if err := s.loadProperties(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadProperties(ctx context.Context, c *model.Concept) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, concept_id, name, COALESCE(uri,''), kind, COALESCE(data_type,''),
		        COALESCE(range_concept_id,''), required, functional, COALESCE(description,'')
		 FROM concept_properties WHERE concept_id = ? ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("select properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &model.ConceptProperty{}
		if err := rows.Scan(&p.ID, &p.ConceptID, &p.Name, &p.URI, &p.Kind, &p.DataType,
			&p.RangeConceptID, &p.Required, &p.Functional, &p.Description); err != nil {
			return fmt.Errorf("scan property: %w", err)
		}
		c.Properties = append(c.Properties, p)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadRelationships(ctx context.Context, o *model.Ontology) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ontology_id, source_concept_id, target_concept_id, relation_type,
		        COALESCE(label,''), COALESCE(description,'')
		 FROM relationships WHERE ontology_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("select relationships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := &model.Relationship{}
		if err := rows.Scan(&r.ID, &r.OntologyID, &r.SourceConceptID, &r.TargetConceptID,
			&r.RelationType, &r.Label, &r.Description); err != nil {
			return fmt.Errorf("scan relationship: %w", err)
		}
		o.Relationships = append(o.Relationships, r)
	}
	return rows.Err()
}

func (s *SQLiteStore) ListOntologies(ctx context.Context) ([]*model.Ontology, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, namespace, version, uses_bfo, uses_prov_o, created_at, modified_at
		 FROM ontologies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select ontologies: %w", err)
	}
	defer rows.Close()

	var out []*model.Ontology
	for rows.Next() {
		o := &model.Ontology{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Namespace, &o.Version, &o.UsesBFO, &o.UsesProvO,
			&o.CreatedAt, &o.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan ontology: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateOntology(ctx context.Context, o *model.Ontology) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ontologies SET name = ?, namespace = ?, version = ?, uses_bfo = ?, uses_prov_o = ?, modified_at = ?
		 WHERE id = ?`,
		o.Name, o.Namespace, o.Version, o.UsesBFO, o.UsesProvO, o.ModifiedAt, o.ID)
	if err != nil {
		return fmt.Errorf("update ontology: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateConcept(ctx context.Context, c *model.Concept) error {
	examples, err := json.Marshal(c.Examples)
	if err != nil {
		return fmt.Errorf("encode examples: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO concepts (id, ontology_id, name, category, definition, simple_explanation, examples, color, source_ontology)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OntologyID, c.Name, c.Category, c.Definition, c.SimpleExplanation,
		string(examples), c.Color, c.SourceOntology)
	if err != nil {
		return fmt.Errorf("insert concept: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateRelationship(ctx context.Context, r *model.Relationship) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relationships (id, ontology_id, source_concept_id, target_concept_id, relation_type, label, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OntologyID, r.SourceConceptID, r.TargetConceptID, r.RelationType, r.Label, r.Description)
	if err != nil {
		return fmt.Errorf("insert relationship: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateProperty(ctx context.Context, p *model.ConceptProperty) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO concept_properties (id, concept_id, name, uri, kind, data_type, range_concept_id, required, functional, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ConceptID, p.Name, p.URI, p.Kind, p.DataType, p.RangeConceptID,
		p.Required, p.Functional, p.Description)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}
