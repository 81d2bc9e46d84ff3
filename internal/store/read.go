package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// RelationInfo describes a saved relation without its tuples.
type RelationInfo struct {
	Schema     table.Schema `json:"schema"`
	SnapshotID string       `json:"snapshot_id"`
	Tuples     int          `json:"tuples"`
}

// Load reconstructs the table saved under name, rebuilding its index.
// opts are applied to the restored table (namer, logger).
//
// Returns an error wrapping ErrNotFound when nothing is saved under name,
// ErrCorruptFormat when the stored schema or tuples cannot form a valid
// table, and ErrIO when the database cannot be read.
func (s *Store) Load(ctx context.Context, name string, opts ...table.Option) (*table.Table, error) {
	info, err := s.Info(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	tuples, err := s.readTuples(ctx, name, info.Schema.Domains)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if len(tuples) != info.Tuples {
		return nil, fmt.Errorf("load: %w", corruptError(name,
			fmt.Sprintf("expected %d tuples, found %d", info.Tuples, len(tuples)), nil))
	}

	t, err := table.Restore(info.Schema, tuples, opts...)
	if err != nil {
		return nil, fmt.Errorf("load: %w", corruptError(name, "restore", err))
	}

	s.log().Debug("loaded relation", "name", name, "snapshot", info.SnapshotID, "tuples", len(tuples))
	return t, nil
}

// Info returns the metadata of the relation saved under name.
func (s *Store) Info(ctx context.Context, name string) (RelationInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, attributes, domains, key_attributes, snapshot_id, tuple_count
		FROM relations
		WHERE name = ?
	`, name)
	info, err := scanRelation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RelationInfo{}, fmt.Errorf("relation %s: %w", name, ErrNotFound)
	}
	return info, err
}

// Snapshot returns the metadata of the relation whose current snapshot id
// is id. Replaced snapshots are not found.
func (s *Store) Snapshot(ctx context.Context, id string) (RelationInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, attributes, domains, key_attributes, snapshot_id, tuple_count
		FROM relations
		WHERE snapshot_id = ?
	`, id)
	info, err := scanRelation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RelationInfo{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return info, err
}

// List returns every saved relation ordered by name.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) List(ctx context.Context) ([]RelationInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, attributes, domains, key_attributes, snapshot_id, tuple_count
		FROM relations
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, ioError("query relations", err)
	}
	defer rows.Close()

	infos := []RelationInfo{}
	for rows.Next() {
		info, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate relations", err)
	}
	return infos, nil
}

// readTuples returns the tuples of name in store order, decoded against
// domains.
func (s *Store) readTuples(ctx context.Context, name string, domains []value.Domain) ([]value.Tuple, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, data
		FROM tuples
		WHERE relation = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return nil, ioError("query tuples of "+name, err)
	}
	defer rows.Close()

	var tuples []value.Tuple
	for rows.Next() {
		var (
			seq  int64
			data string
		)
		if err := rows.Scan(&seq, &data); err != nil {
			return nil, ioError("scan tuple of "+name, err)
		}
		if seq != int64(len(tuples)) {
			return nil, corruptError(name, fmt.Sprintf("tuple sequence gap at %d", seq), nil)
		}
		tup, err := value.UnmarshalTuple([]byte(data), domains)
		if err != nil {
			return nil, corruptError(name, fmt.Sprintf("tuple %d", seq), err)
		}
		tuples = append(tuples, tup)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate tuples of "+name, err)
	}
	return tuples, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRelation scans one relations row. sql.ErrNoRows is returned as is so
// callers can map it to ErrNotFound.
func scanRelation(row rowScanner) (RelationInfo, error) {
	var (
		name, attrsJSON, domainsJSON, keyJSON, snapshotID string
		count                                             int
	)
	err := row.Scan(&name, &attrsJSON, &domainsJSON, &keyJSON, &snapshotID, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return RelationInfo{}, err
	}
	if err != nil {
		return RelationInfo{}, ioError("scan relation", err)
	}

	attrs, err := unmarshalNames(attrsJSON)
	if err != nil {
		return RelationInfo{}, corruptError(name, "attributes", err)
	}
	domains, err := unmarshalDomains(domainsJSON)
	if err != nil {
		return RelationInfo{}, corruptError(name, "domains", err)
	}
	key, err := unmarshalNames(keyJSON)
	if err != nil {
		return RelationInfo{}, corruptError(name, "key", err)
	}
	if len(attrs) != len(domains) {
		return RelationInfo{}, corruptError(name,
			fmt.Sprintf("%d attributes but %d domains", len(attrs), len(domains)), nil)
	}

	return RelationInfo{
		Schema: table.Schema{
			Name:       name,
			Attributes: attrs,
			Domains:    domains,
			Key:        key,
		},
		SnapshotID: snapshotID,
		Tuples:     count,
	}, nil
}
