package store

import (
	"context"
	"fmt"

	"github.com/roach88/relalg/internal/table"
)

// Save stores t under its name, replacing any relation already saved with
// that name, and returns the new snapshot id.
//
// The relation row and every tuple are written in one transaction: a failed
// save leaves the previous snapshot in place.
func (s *Store) Save(ctx context.Context, t *table.Table) (string, error) {
	sch := t.Schema()
	attrs, err := marshalNames(sch.Attributes)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", sch.Name, err)
	}
	domains, err := marshalDomains(sch.Domains)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", sch.Name, err)
	}
	key, err := marshalNames(sch.Key)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", sch.Name, err)
	}

	tuples := t.Tuples()
	encoded := make([]string, len(tuples))
	for i, tup := range tuples {
		if encoded[i], err = marshalTuple(tup); err != nil {
			return "", fmt.Errorf("save %s: tuple %d: %w", sch.Name, i, err)
		}
	}

	snapshotID := s.ids.Generate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", ioError("save "+sch.Name+": begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	// ON DELETE CASCADE drops the previous snapshot's tuples.
	if _, err := tx.ExecContext(ctx, `DELETE FROM relations WHERE name = ?`, sch.Name); err != nil {
		return "", ioError("save "+sch.Name+": delete previous", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO relations
		(name, attributes, domains, key_attributes, snapshot_id, tuple_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		sch.Name,
		attrs,
		domains,
		key,
		snapshotID,
		len(encoded),
	)
	if err != nil {
		return "", ioError("save "+sch.Name+": insert relation", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tuples (relation, seq, data) VALUES (?, ?, ?)`)
	if err != nil {
		return "", ioError("save "+sch.Name+": prepare", err)
	}
	defer stmt.Close()

	for i, data := range encoded {
		if _, err := stmt.ExecContext(ctx, sch.Name, i, data); err != nil {
			return "", ioError(fmt.Sprintf("save %s: insert tuple %d", sch.Name, i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", ioError("save "+sch.Name+": commit", err)
	}

	s.log().Debug("saved relation", "name", sch.Name, "snapshot", snapshotID, "tuples", len(encoded))
	return snapshotID, nil
}

// Delete removes the relation saved under name and its tuples.
// Returns ErrNotFound if nothing is saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM relations WHERE name = ?`, name)
	if err != nil {
		return ioError("delete "+name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return ioError("delete "+name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", name, ErrNotFound)
	}

	s.log().Debug("deleted relation", "name", name)
	return nil
}
