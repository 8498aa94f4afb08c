package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/g4spectra/internal/model"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError describes one field that violates the schema.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the list of schema violations of one value.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		if e.Field == "" {
			parts[i] = e.Message
			continue
		}
		parts[i] = e.Field + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (v ValidationErrors) Unwrap() error {
	return ErrInvalid
}

// schema is compiled once per process; cue.Context is not safe for
// concurrent use, so every validation holds the lock.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	val  cue.Value
	err  error
}

func compiledSchema() (*cue.Context, cue.Value, error) {
	schema.once.Do(func() {
		schema.ctx = cuecontext.New()
		schema.val = schema.ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		schema.err = schema.val.Err()
	})
	return schema.ctx, schema.val, schema.err
}

// validate checks v, rendered as JSON, against the named schema definition.
func validate(definition string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s for validation: %w", definition, err)
	}

	schema.mu.Lock()
	defer schema.mu.Unlock()

	ctx, val, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	def := val.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("config schema has no %s", definition)
	}

	doc := ctx.CompileBytes(data, cue.Filename("config.json"))
	if err := doc.Err(); err != nil {
		return fmt.Errorf("compiling %s value: %w", definition, err)
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// toValidationErrors reports one entry per field. Definition names are
// dropped from paths, and the alternatives of a failed disjunction are
// joined into a single message.
func toValidationErrors(err error) ValidationErrors {
	var fields []string
	msgs := map[string][]string{}
	headers := map[string]string{}
	for _, e := range cueerrors.Errors(err) {
		field := fieldPath(e.Path())
		format, args := e.Msg()
		msg := strings.TrimSpace(fmt.Sprintf(format, args...))
		if _, ok := msgs[field]; !ok {
			if _, ok := headers[field]; !ok {
				fields = append(fields, field)
			}
		}
		if msg == "" {
			continue
		}
		if strings.HasSuffix(msg, ":") {
			if _, ok := headers[field]; !ok {
				headers[field] = strings.TrimSuffix(msg, ":")
			}
			continue
		}
		if !slices.Contains(msgs[field], msg) {
			msgs[field] = append(msgs[field], msg)
		}
	}

	var out ValidationErrors
	for _, field := range fields {
		msg := strings.Join(msgs[field], "; ")
		if msg == "" {
			msg = headers[field]
		}
		if msg == "" {
			continue
		}
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}

func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// Validate checks the whole configuration against the schema.
func (c *Config) Validate() error {
	return validate("#Config", c)
}

// ValidateGrid checks a generator grid.
func ValidateGrid(g model.Grid) error {
	return validate("#Grid", g)
}

// ValidateKuznetsov checks Kuznetsov generator parameters.
func ValidateKuznetsov(p model.KuznetsovParams) error {
	return validate("#Kuznetsov", p)
}

// ValidateFlux checks flux command settings.
func ValidateFlux(f FluxConfig) error {
	return validate("#Flux", f)
}

// ValidatePlot checks plot-spectra settings.
func ValidatePlot(p PlotConfig) error {
	return validate("#Plot", p)
}
