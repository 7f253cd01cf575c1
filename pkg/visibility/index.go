package visibility

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Index records which fields reference which others in their conditions so a
// value change only re-evaluates its direct dependents.
type Index struct {
	dependents map[string][]string
}

// NewIndex builds the dependency index for a field list.
func NewIndex(fields []model.FieldConfig) *Index {
	idx := &Index{dependents: make(map[string][]string)}
	for _, field := range fields {
		if field.Condition == nil {
			continue
		}
		ref := strings.TrimSpace(field.Condition.Field)
		if ref == "" {
			continue
		}
		idx.dependents[ref] = append(idx.dependents[ref], field.Name)
	}
	return idx
}

// Dependents returns the names of fields whose condition references name, in
// declaration order.
func (i *Index) Dependents(name string) []string {
	if i == nil {
		return nil
	}
	return i.dependents[name]
}
