package validation

import "innovation-admin/internal/validation/models"

// AggregateResults folds raw results from multi-context operations into one
// result per rule name. A rule evaluated once per organisational context
// (e.g. once per accessor role a user holds) reports invalid if any instance
// is invalid; meta from every instance is unioned so the caller can show
// which contexts failed.
//
// The fold is commutative and associative over the per-rule instances, so
// role enumeration order never changes the outcome. First-seen rule order is
// preserved for stable output.
func AggregateResults(results []models.ValidationResult) []models.ValidationResult {
	grouped := make(map[models.ValidationRule]*models.ValidationResult, len(results))
	order := make([]models.ValidationRule, 0, len(results))

	for _, r := range results {
		existing, ok := grouped[r.Rule]
		if !ok {
			copied := r
			copied.Meta = cloneMeta(r.Meta)
			grouped[r.Rule] = &copied
			order = append(order, r.Rule)
			continue
		}
		existing.Valid = existing.Valid && r.Valid
		existing.Meta = mergeMeta(existing.Meta, r.Meta)
	}

	out := make([]models.ValidationResult, 0, len(order))
	for _, rule := range order {
		out = append(out, *grouped[rule])
	}
	return out
}

func cloneMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

// mergeMeta unions two meta maps. Innovation lists concatenate; scalar
// values collect into a list once a second distinct value appears.
func mergeMeta(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		return cloneMeta(src)
	}
	for k, v := range src {
		existing, ok := dst[k]
		if !ok {
			dst[k] = v
			continue
		}
		dst[k] = mergeValues(existing, v)
	}
	return dst
}

func mergeValues(a, b any) any {
	if as, ok := a.([]models.InnovationSummary); ok {
		if bs, ok := b.([]models.InnovationSummary); ok {
			merged := make([]models.InnovationSummary, 0, len(as)+len(bs))
			merged = append(merged, as...)
			merged = append(merged, bs...)
			return merged
		}
	}
	if as, ok := a.([]any); ok {
		return append(as, b)
	}
	if a == b {
		return a
	}
	return []any{a, b}
}
