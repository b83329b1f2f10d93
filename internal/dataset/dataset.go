// Package dataset loads key/value records from YAML or JSON files, checks them
// against the embedded records schema and feeds them into an index.
package dataset

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bstindex/pkg/index"
)

// ErrSchemaViolation indicates a dataset that does not match the records schema.
var ErrSchemaViolation = errors.New("dataset does not match schema")

// recordsSchema is the JSON schema every dataset must satisfy.
//
//go:embed records-schema.json
var recordsSchema []byte

// Record is one key/value pair with the key already coerced.
type Record struct {
	Key   any
	Value any
}

type document struct {
	Records []rawRecord `yaml:"records"`
}

type rawRecord struct {
	Key   any `yaml:"key"`
	Value any `yaml:"value"`
}

// Load reads and decodes the dataset file at path.
func Load(path string, kt KeyType) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	records, err := Decode(data, kt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Decode parses YAML or JSON data, validates it against the records schema
// and coerces every key to kt.
func Decode(data []byte, kt KeyType) ([]Record, error) {
	var generic any

	err := yaml.Unmarshal(data, &generic)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	err = validate(generic)
	if err != nil {
		return nil, err
	}

	var doc document

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	records := make([]Record, 0, len(doc.Records))

	for pos, raw := range doc.Records {
		key, coerceErr := Coerce(kt, raw.Key)
		if coerceErr != nil {
			return nil, fmt.Errorf("record %d: %w", pos, coerceErr)
		}

		records = append(records, Record{Key: key, Value: raw.Value})
	}

	return records, nil
}

func validate(doc any) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrSchemaViolation)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(recordsSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := lo.Map(result.Errors(), func(resErr gojsonschema.ResultError, _ int) string {
		return resErr.Field() + ": " + resErr.Description()
	})

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
}

// Build inserts every record into idx in file order. It stops at the first
// failed insert, which on a unique index means a duplicate key.
func Build(ctx context.Context, records []Record, idx *index.Index[any, any]) error {
	for pos, rec := range records {
		err := idx.Insert(ctx, rec.Key, rec.Value)
		if err != nil {
			return fmt.Errorf("record %d: %w", pos, err)
		}
	}

	return nil
}
