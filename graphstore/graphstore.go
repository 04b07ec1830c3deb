// Package graphstore mirrors the ontology-annotated knowledge graph into a
// Neo4j instance for Cypher-based exploration. The SQLite store remains the
// source of truth; the mirror is rebuilt from it and can be dropped and
// resynced at any time.
package graphstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ontograph-ai/ontograph/store"
)

// Config holds the Neo4j connection settings.
type Config struct {
	URI      string `json:"uri" yaml:"uri"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
}

// Mirror maintains the Neo4j copy of the knowledge graph.
type Mirror struct {
	driver   neo4j.DriverWithContext
	database string
}

// New connects to Neo4j and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Mirror, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphstore: creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("graphstore: verifying neo4j connectivity: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	return &Mirror{driver: driver, database: database}, nil
}

// Close releases the underlying driver.
func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// Ping verifies the connection is still alive.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.driver.VerifyConnectivity(ctx)
}

// entityBatchSize caps UNWIND batch sizes during sync.
const entityBatchSize = 500

// SyncGraph replaces the mirrored graph with the given entities and
// relationships. Nodes carry the entity type and DOLCE category as
// properties so Cypher queries can filter by ontological kind.
func (m *Mirror) SyncGraph(ctx context.Context, entities []store.Entity, rels []store.Relationship) error {
	start := time.Now()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: m.database})
	defer session.Close(ctx)

	// Wipe the previous mirror; the SQLite store is authoritative.
	if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MATCH (n:Entity) DETACH DELETE n", nil)
		return nil, err
	}); err != nil {
		return fmt.Errorf("graphstore: clearing mirror: %w", err)
	}

	for startIdx := 0; startIdx < len(entities); startIdx += entityBatchSize {
		end := startIdx + entityBatchSize
		if end > len(entities) {
			end = len(entities)
		}
		batch := make([]map[string]any, 0, end-startIdx)
		for _, e := range entities[startIdx:end] {
			batch = append(batch, map[string]any{
				"id":             e.ID,
				"name":           e.Name,
				"entity_type":    e.EntityType,
				"dolce_category": e.DolceCategory,
				"description":    e.Description,
			})
		}

		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			query := `
				UNWIND $batch AS row
				MERGE (n:Entity {id: row.id})
				SET n.name = row.name,
				    n.entity_type = row.entity_type,
				    n.dolce_category = row.dolce_category,
				    n.description = row.description
			`
			_, err := tx.Run(ctx, query, map[string]any{"batch": batch})
			return nil, err
		}); err != nil {
			return fmt.Errorf("graphstore: upserting entities: %w", err)
		}
	}

	for startIdx := 0; startIdx < len(rels); startIdx += entityBatchSize {
		end := startIdx + entityBatchSize
		if end > len(rels) {
			end = len(rels)
		}
		batch := make([]map[string]any, 0, end-startIdx)
		for _, r := range rels[startIdx:end] {
			batch = append(batch, map[string]any{
				"source_id":      r.SourceEntityID,
				"target_id":      r.TargetEntityID,
				"relation_type":  r.RelationType,
				"dolce_relation": r.DolceRelation,
				"weight":         r.Weight,
				"description":    r.Description,
			})
		}

		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			query := `
				UNWIND $batch AS row
				MATCH (a:Entity {id: row.source_id})
				MATCH (b:Entity {id: row.target_id})
				MERGE (a)-[r:RELATES_TO {relation_type: row.relation_type}]->(b)
				SET r.dolce_relation = row.dolce_relation,
				    r.weight = row.weight,
				    r.description = row.description
			`
			_, err := tx.Run(ctx, query, map[string]any{"batch": batch})
			return nil, err
		}); err != nil {
			return fmt.Errorf("graphstore: upserting relationships: %w", err)
		}
	}

	slog.Info("graphstore: mirror synced",
		"entities", len(entities), "relationships", len(rels),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Neighbor is an entity reached during a neighborhood expansion.
type Neighbor struct {
	Name          string  `json:"name"`
	EntityType    string  `json:"entity_type"`
	DolceCategory string  `json:"dolce_category"`
	RelationType  string  `json:"relation_type"`
	Weight        float64 `json:"weight"`
}

// Neighborhood returns the entities directly connected to the named
// entity, following relationships in both directions.
func (m *Mirror) Neighborhood(ctx context.Context, name string, limit int) ([]Neighbor, error) {
	if limit <= 0 {
		limit = 50
	}

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: m.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:Entity {name: $name})-[r:RELATES_TO]-(b:Entity)
			RETURN b.name AS name, b.entity_type AS entity_type,
			       b.dolce_category AS dolce_category,
			       r.relation_type AS relation_type, r.weight AS weight
			ORDER BY r.weight DESC
			LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name, "limit": limit})
		if err != nil {
			return nil, err
		}

		var neighbors []Neighbor
		for res.Next(ctx) {
			rec := res.Record()
			n := Neighbor{}
			if v, ok := rec.Get("name"); ok && v != nil {
				n.Name, _ = v.(string)
			}
			if v, ok := rec.Get("entity_type"); ok && v != nil {
				n.EntityType, _ = v.(string)
			}
			if v, ok := rec.Get("dolce_category"); ok && v != nil {
				n.DolceCategory, _ = v.(string)
			}
			if v, ok := rec.Get("relation_type"); ok && v != nil {
				n.RelationType, _ = v.(string)
			}
			if v, ok := rec.Get("weight"); ok && v != nil {
				n.Weight, _ = v.(float64)
			}
			neighbors = append(neighbors, n)
		}
		return neighbors, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("graphstore: neighborhood query: %w", err)
	}

	return result.([]Neighbor), nil
}

// CategoryCount is one row of the mirror's per-category node count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CountByCategory groups mirrored entities by their DOLCE category.
func (m *Mirror) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	session := m.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: m.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (n:Entity)
			RETURN n.dolce_category AS category, count(n) AS count
			ORDER BY count DESC
		`
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var counts []CategoryCount
		for res.Next(ctx) {
			rec := res.Record()
			c := CategoryCount{}
			if v, ok := rec.Get("category"); ok && v != nil {
				c.Category, _ = v.(string)
			}
			if v, ok := rec.Get("count"); ok && v != nil {
				c.Count, _ = v.(int64)
			}
			counts = append(counts, c)
		}
		return counts, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("graphstore: category count query: %w", err)
	}

	return result.([]CategoryCount), nil
}
