package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/schema"
)

// result describes one migrated file.
type result struct {
	From    schema.Version
	Changed bool
	Backup  string
}

type migrator struct {
	dryRun    bool
	backupExt string
	indent    string
}

// migrate rewrites a subsystem file of any generation in the current
// layout. Files already in the current namespace are left alone. The
// original is copied to path+backupExt before it is replaced.
func (m *migrator) migrate(path string) (result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return result{}, err
	}
	doc, err := codec.ParseBytes(data)
	if err != nil {
		return result{}, err
	}
	res := result{From: doc.Version}
	if doc.Version == schema.Current {
		return res, nil
	}

	out, err := codec.NewWriter(codec.WithIndent(m.indent)).Marshal(doc.Tree)
	if err != nil {
		return res, err
	}
	res.Changed = !bytes.Equal(out, data)
	if !res.Changed || m.dryRun {
		return res, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return res, err
	}
	if m.backupExt != "" {
		res.Backup = path + m.backupExt
		if err := os.WriteFile(res.Backup, data, 0o600); err != nil {
			return res, fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, info.Mode().Perm()); err != nil {
		return res, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return res, err
	}
	return res, nil
}
