// Package migration rewrites month records from one locale's category labels
// to another's.
package migration

import (
	"errors"
	"fmt"

	"fire-server/src/categories"
	"fire-server/src/format"
	"fire-server/src/models"
)

// ErrMixedLocales is returned when the records do not agree on one locale's
// asset labels.
var ErrMixedLocales = errors.New("records use mixed category locales")

// NeedsMigration reports whether records labeled for from must be rewritten
// for to. Only the first record's assets are inspected.
func NeedsMigration(records []models.MonthRecord, from, to categories.Locale) bool {
	if from == to || len(records) == 0 {
		return false
	}
	return !categories.HasAssetKeys(records[0], to)
}

// SequenceLocale returns the locale whose asset labels the records use.
// Records without any known asset label do not count. ok is false when no
// record carries one.
func SequenceLocale(records []models.MonthRecord) (categories.Locale, bool, error) {
	var (
		found categories.Locale
		first models.Month
	)
	for _, r := range records {
		for _, l := range categories.Locales {
			if !categories.HasAssetKeys(r, l) {
				continue
			}
			if found == "" {
				found, first = l, r.ID
				continue
			}
			if l != found {
				return "", false, fmt.Errorf("%w: month %s uses %s labels, month %s uses %s", ErrMixedLocales, first, found, r.ID, l)
			}
		}
	}
	return found, found != "", nil
}

// Migrate returns records relabeled for to. Values move from each old label
// to its counterpart; labels the catalog does not know are carried over as
// they are. Already migrated input comes back unchanged.
func Migrate(records []models.MonthRecord, from, to categories.Locale) ([]models.MonthRecord, error) {
	if _, _, err := SequenceLocale(records); err != nil {
		return nil, err
	}
	if !NeedsMigration(records, from, to) {
		return models.CloneRecords(records), nil
	}

	schema := categories.ForLocale(to)
	out := make([]models.MonthRecord, len(records))
	for i, r := range records {
		m := models.MonthRecord{
			ID:                 r.ID,
			MonthLabel:         format.MonthLabel(r.ID, to),
			CollaboratesInDebt: r.CollaboratesInDebt,
		}
		for _, t := range models.CategoryTypes {
			*m.Field(t) = remap(r.Values(t), t, schema.Keys(t), from, to)
		}
		out[i] = m
	}
	return out, nil
}

func remap(src models.Amounts, t models.CategoryType, keys []string, from, to categories.Locale) models.Amounts {
	out := make(models.Amounts, len(keys))
	for _, key := range keys {
		if old, ok := categories.Translate(t, key, to, from); ok {
			if v, ok := src[old]; ok {
				out[key] = v
				continue
			}
		}
		out[key] = src[key]
	}
	for key, v := range src {
		if _, known := categories.Translate(t, key, from, to); known {
			continue
		}
		if _, ok := out[key]; !ok {
			out[key] = v
		}
	}
	return out
}

// Normalize detects the records' locale and migrates them to active when
// they differ. The boolean reports whether anything was rewritten.
func Normalize(records []models.MonthRecord, active categories.Locale) ([]models.MonthRecord, bool, error) {
	from, ok, err := SequenceLocale(records)
	if err != nil {
		return nil, false, err
	}
	if !ok || from == active || !NeedsMigration(records, from, active) {
		return records, false, nil
	}
	out, err := Migrate(records, from, active)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
