package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSourceConfig describes how to read a graph out of PostgreSQL.
//
// NodesQuery must return one text column of node labels; EdgesQuery must
// return two text columns (from, to) and one nullable float8 weight
// column. Both queries should carry an ORDER BY so repeated loads index
// nodes identically.
type PGSourceConfig struct {
	NodesQuery string
	EdgesQuery string
	// WeightAttr names the edge attribute the weight column is stored
	// under. Empty means edges are loaded without attributes.
	WeightAttr string
	Directed   bool
}

// PGSource loads graphs from a PostgreSQL database. It is a loader rather
// than a live Source: Load materializes an in-memory Graph so that node and
// edge iteration never needs a round trip.
type PGSource struct {
	pool *pgxpool.Pool
	cfg  PGSourceConfig
}

// NewPGSource opens a connection pool and verifies connectivity.
func NewPGSource(ctx context.Context, databaseURL string, cfg PGSourceConfig) (*PGSource, error) {
	if cfg.NodesQuery == "" || cfg.EdgesQuery == "" {
		return nil, fmt.Errorf("graph: both NodesQuery and EdgesQuery are required")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PGSource{pool: pool, cfg: cfg}, nil
}

// Load runs the node and edge queries and assembles an in-memory Graph.
func (s *PGSource) Load(ctx context.Context) (*Graph, error) {
	var g *Graph
	if s.cfg.Directed {
		g = NewDiGraph()
	} else {
		g = NewGraph()
	}

	rows, err := s.pool.Query(ctx, s.cfg.NodesQuery)
	if err != nil {
		return nil, fmt.Errorf("node query failed: %w", err)
	}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("node scan failed: %w", err)
		}
		g.AddNode(label)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("node query failed: %w", err)
	}

	rows, err = s.pool.Query(ctx, s.cfg.EdgesQuery)
	if err != nil {
		return nil, fmt.Errorf("edge query failed: %w", err)
	}
	for rows.Next() {
		var from, to string
		var weight *float64
		if err := rows.Scan(&from, &to, &weight); err != nil {
			rows.Close()
			return nil, fmt.Errorf("edge scan failed: %w", err)
		}
		var attrs map[string]float64
		if s.cfg.WeightAttr != "" && weight != nil {
			attrs = map[string]float64{s.cfg.WeightAttr: *weight}
		}
		g.AddEdge(from, to, attrs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("edge query failed: %w", err)
	}

	return g, nil
}

// Ping checks database connectivity.
func (s *PGSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PGSource) Close() {
	s.pool.Close()
}
