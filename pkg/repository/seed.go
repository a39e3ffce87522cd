package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

const (
	seedExt          = ".yaml"
	personFilePrefix = "person_"
)

// LoadSeed builds a memory repository from a directory of YAML records.
// A case lives in <id>.yaml and a person in person_<id>.yaml; the id field must match the file name.
func LoadSeed(ctx context.Context, dir string) (*Memory, error) {
	logger := ctxlog.From(ctx)

	if dir == "" {
		return nil, goerr.New("seed directory is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed directory", goerr.V("dir", dir))
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != seedExt {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	repo := NewMemory()
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
		}

		stem := strings.TrimSuffix(name, seedExt)
		if strings.HasPrefix(name, personFilePrefix) {
			if err := loadPerson(ctx, repo, data, strings.TrimPrefix(stem, personFilePrefix)); err != nil {
				return nil, goerr.Wrap(err, "invalid person seed", goerr.V("path", path))
			}
			continue
		}

		c, err := loadCase(ctx, repo, data, stem)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid case seed", goerr.V("path", path))
		}
		if !c.Severity.InScale() {
			logger.Warn("Case severity is outside the declared scale",
				"path", path,
				"id", c.ID,
				"severity", c.Severity.Int(),
			)
		}
	}

	logger.Info("Seed data loaded",
		"dir", dir,
		"cases", len(repo.cases),
		"persons", len(repo.persons),
	)

	return repo, nil
}

func loadCase(ctx context.Context, repo *Memory, data []byte, fileID string) (*model.CaseDetail, error) {
	var c model.CaseDetail
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.ID.String() != fileID {
		return nil, goerr.New("case ID does not match file name", goerr.V("id", c.ID), goerr.V("file_id", fileID))
	}
	c.Normalize()

	if err := repo.PutCase(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadPerson(ctx context.Context, repo *Memory, data []byte, fileID string) error {
	var p model.Person
	if err := yaml.Unmarshal(data, &p); err != nil {
		return goerr.Wrap(err, "failed to parse YAML")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if p.ID.String() != fileID {
		return goerr.New("person ID does not match file name", goerr.V("id", p.ID), goerr.V("file_id", fileID))
	}
	return repo.PutPerson(ctx, &p)
}
