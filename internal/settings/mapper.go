package settings

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MapInbound maps flat form fields to override rows via the scope's field
// table. Unmapped fields are dropped silently; combined pages submit fields
// that belong to other sections and that is expected, so the drop is logged
// at debug level only. Sensitive fields carrying the mask sentinel are
// skipped, which is the guard that keeps a resubmitted form from erasing a
// real secret. A mapped value that does not encode per its declared type
// fails the whole batch: writes are rejected visibly, never trimmed silently.
func (e *Engine) MapInbound(scope Scope, fields map[string]string) ([]Override, error) {
	reg, ok := e.registries[scope]
	if !ok {
		return nil, ErrUnknownScope
	}

	rows := make([]Override, 0, len(fields))

	for field, raw := range fields {
		def, mapped := reg.ByField(field)
		if !mapped {
			log.Debug().
				Str("scope", string(scope)).
				Str("field", field).
				Msg("dropping unmapped settings field")

			continue
		}

		if ShouldSkipWrite(def, raw) {
			continue
		}

		encoded, err := Encode(raw, def.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", field)
		}

		rows = append(rows, Override{
			Category: def.Category,
			Key:      def.Key,
			Value:    encoded,
			Type:     def.Type,
		})
	}

	// map iteration order is random; keep the batch deterministic
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}

		return rows[i].Key < rows[j].Key
	})

	return rows, nil
}

// Save maps inbound form fields and hands the batch to the store in one bulk
// upsert. An empty batch (all fields unmapped or skipped) is a no-op, not an
// error. Store failures propagate to the caller unchanged in outcome: a write
// either lands or fails loudly.
func (e *Engine) Save(scope Scope, ownerID uint64, fields map[string]string) error {
	rows, err := e.MapInbound(scope, fields)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	return errors.Wrap(e.store.BulkUpsert(scope, ownerID, rows), "settings were not saved")
}
