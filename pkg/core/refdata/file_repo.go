package refdata

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// FileRepo serves reference data from a single YAML document, for local
// runs without a database. Layout:
//
//	hefa:
//	  used_cooking_oil:
//	    us:
//	      ref_capital_cost: 400
//	      ref_capacity: 500000
//	      ...
//
// The file is parsed once on first use and held immutably after that.
type FileRepo struct {
	path string

	loadOnce sync.Once
	loadErr  error
	records  map[Key]*Record
}

// NewFileRepo creates a repo backed by the given YAML file. The file is
// not read until the first Get.
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.loadErr = fmt.Errorf("failed to read reference data file: %w", err)
		return
	}

	var doc map[string]map[string]map[string]*Record
	if err := yaml.Unmarshal(data, &doc); err != nil {
		r.loadErr = fmt.Errorf("failed to parse reference data file: %w", err)
		return
	}

	r.records = make(map[Key]*Record)
	for process, byFeedstock := range doc {
		for feedstock, byCountry := range byFeedstock {
			for country, rec := range byCountry {
				k := Key{Process: process, Feedstock: feedstock, Country: country}.normalized()
				r.records[k] = rec
			}
		}
	}
}

func (r *FileRepo) Get(ctx context.Context, key Key) (*Record, error) {
	r.loadOnce.Do(r.load)
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	rec, ok := r.records[key.normalized()]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, key)
	}
	return rec, nil
}
