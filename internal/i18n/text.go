package i18n

import "strings"

// Text carries one field's four locale columns (title_tr, title_en, ...).
type Text struct {
	TR string `json:"tr"`
	EN string `json:"en"`
	RU string `json:"ru"`
	AR string `json:"ar"`
}

func (t Text) Get(locale string) string {
	switch locale {
	case TR:
		return t.TR
	case EN:
		return t.EN
	case RU:
		return t.RU
	case AR:
		return t.AR
	}
	return ""
}

func (t *Text) Set(locale, v string) {
	switch locale {
	case TR:
		t.TR = v
	case EN:
		t.EN = v
	case RU:
		t.RU = v
	case AR:
		t.AR = v
	}
}

// In resolves t for locale, falling back to Default.
func (t Text) In(locale string) string {
	return Resolve(t.Map("v"), "v", locale, Default)
}

func (t Text) Empty() bool {
	return strings.TrimSpace(t.TR+t.EN+t.RU+t.AR) == ""
}

// Map flattens t into {field}_{locale} keys.
func (t Text) Map(field string) map[string]string {
	return map[string]string{
		field + "_" + TR: t.TR,
		field + "_" + EN: t.EN,
		field + "_" + RU: t.RU,
		field + "_" + AR: t.AR,
	}
}

// Resolve returns values["{field}_{locale}"] when non-blank, else
// values["{field}_{fallback}"], else "".
func Resolve(values map[string]string, field, locale, fallback string) string {
	if v := strings.TrimSpace(values[field+"_"+locale]); v != "" {
		return values[field+"_"+locale]
	}
	if fallback == "" {
		fallback = Default
	}
	if v := strings.TrimSpace(values[field+"_"+fallback]); v != "" {
		return values[field+"_"+fallback]
	}
	return ""
}

// Or is the joined-table rule: the localized value when present, else the base column.
func Or(localized *string, base string) string {
	if localized != nil && strings.TrimSpace(*localized) != "" {
		return *localized
	}
	return base
}
