// internal/features/features.go
package features

import (
	"fmt"
	"strconv"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
)

// FeatureSet is the canonical snapshot sent to the scoring API. The json
// tags are the exact field names the API expects; note "default" here
// against the "default_status" column in storage.
type FeatureSet struct {
	Age          int     `json:"age"`
	Job          string  `json:"job"`
	Marital      string  `json:"marital"`
	Education    string  `json:"education"`
	Default      string  `json:"default"`
	Housing      string  `json:"housing"`
	Loan         string  `json:"loan"`
	Contact      string  `json:"contact"`
	Month        string  `json:"month"`
	DayOfWeek    string  `json:"day_of_week"`
	Campaign     int     `json:"campaign"`
	EmpVarRate   float64 `json:"emp_var_rate"`
	ConsPriceIdx float64 `json:"cons_price_idx"`
	ConsConfIdx  float64 `json:"cons_conf_idx"`
	Euribor3m    float64 `json:"euribor3m"`
	NrEmployed   float64 `json:"nr_employed"`
}

// The five economic indicators arrive with either a dotted or an
// underscored spelling. This table maps the dotted aliases to the
// canonical underscored names; it is consulted only at the input boundary.
var economicAliases = map[string]string{
	"emp.var.rate":   "emp_var_rate",
	"cons.price.idx": "cons_price_idx",
	"cons.conf.idx":  "cons_conf_idx",
	"nr.employed":    "nr_employed",
}

// CreateDefaults is the single table of fallback values used when an
// optional feature is absent from a create payload. It is applied exactly
// once, in ForCreate; no other call site re-derives a default.
var CreateDefaults = map[string]any{
	"default_status": "no",
	"housing":        "no",
	"loan":           "no",
	"contact":        "cellular",
	"month":          "may",
	"day_of_week":    "mon",
	"campaign":       1,
	"emp_var_rate":   1.1,
	"cons_price_idx": 93.994,
	"cons_conf_idx":  -36.4,
	"euribor3m":      4.857,
	"nr_employed":    5191.0,
}

// Normalize rewrites dotted economic spellings to their canonical
// underscored names. When both spellings are present the dotted value
// wins. All other keys pass through untouched.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, dotted := economicAliases[k]; dotted {
			continue
		}
		out[k] = v
	}
	for dotted, canonical := range economicAliases {
		if v, ok := raw[dotted]; ok {
			out[canonical] = v
		}
	}
	return out
}

// ForCreate builds the feature set for the create flow from a normalized
// payload, filling absent optional fields from CreateDefaults. The
// payload carries the storage spelling default_status.
func ForCreate(norm map[string]any) FeatureSet {
	merged := make(map[string]any, len(norm)+len(CreateDefaults))
	for k, v := range norm {
		merged[k] = v
	}
	for k, v := range CreateDefaults {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return build(merged, "default_status")
}

// FromCanonical builds the feature set for the prediction passthrough,
// where the payload already uses the scoring API spelling "default".
func FromCanonical(norm map[string]any) FeatureSet {
	return build(norm, "default")
}

func build(m map[string]any, defaultKey string) FeatureSet {
	fs := FeatureSet{
		Job:       toString(m["job"]),
		Marital:   toString(m["marital"]),
		Education: toString(m["education"]),
		Default:   toString(m[defaultKey]),
		Housing:   toString(m["housing"]),
		Loan:      toString(m["loan"]),
		Contact:   toString(m["contact"]),
		Month:     toString(m["month"]),
		DayOfWeek: toString(m["day_of_week"]),
	}
	fs.Age, _ = toInt(m["age"])
	fs.Campaign, _ = toInt(m["campaign"])
	fs.EmpVarRate, _ = toFloat(m["emp_var_rate"])
	fs.ConsPriceIdx, _ = toFloat(m["cons_price_idx"])
	fs.ConsConfIdx, _ = toFloat(m["cons_conf_idx"])
	fs.Euribor3m, _ = toFloat(m["euribor3m"])
	fs.NrEmployed, _ = toFloat(m["nr_employed"])
	return fs
}

var validCategories = map[string][]string{
	"job": {"admin.", "blue-collar", "entrepreneur", "housemaid", "management",
		"retired", "self-employed", "services", "student", "technician",
		"unemployed", "unknown"},
	"marital": {"divorced", "married", "single", "unknown"},
	"education": {"basic.4y", "basic.6y", "basic.9y", "high.school",
		"illiterate", "professional.course", "university.degree", "unknown"},
	"default": {"no", "yes", "unknown"},
	"housing": {"no", "yes", "unknown"},
	"loan":    {"no", "yes", "unknown"},
	"contact": {"cellular", "telephone"},
	"month": {"jan", "feb", "mar", "apr", "may", "jun", "jul",
		"aug", "sep", "oct", "nov", "dec"},
	"day_of_week": {"mon", "tue", "wed", "thu", "fri"},
}

// Ordered so missing-field reports come out stable.
var categoricalOrder = []string{"job", "marital", "education", "default",
	"housing", "loan", "contact", "month", "day_of_week"}

var requiredPredictionFields = []string{"age", "job", "marital", "education",
	"default", "housing", "loan", "contact", "month", "day_of_week", "campaign"}

// Each economic field is satisfied by either spelling; after Normalize the
// check reduces to the canonical name, which is also the name reported
// when the field is missing.
var economicFields = []string{"emp_var_rate", "cons_price_idx",
	"cons_conf_idx", "euribor3m", "nr_employed"}

// ValidatePrediction checks a normalized prediction payload: all required
// identity and categorical fields present, categoricals inside their
// closed sets, age within [18,100] and campaign >= 1.
func ValidatePrediction(norm map[string]any) error {
	missing := []string{}
	for _, field := range requiredPredictionFields {
		if _, ok := norm[field]; !ok {
			missing = append(missing, field)
		}
	}
	for _, field := range economicFields {
		if _, ok := norm[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return appErrors.NewValidation("Missing required fields", missing)
	}

	details := []string{}
	if age, ok := toInt(norm["age"]); !ok || age < 18 || age > 100 {
		details = append(details, "Age must be between 18 and 100")
	}
	if campaign, ok := toInt(norm["campaign"]); !ok || campaign < 1 {
		details = append(details, "Campaign must be >= 1")
	}
	for _, field := range categoricalOrder {
		value := toString(norm[field])
		if !contains(validCategories[field], value) {
			details = append(details, fmt.Sprintf("Invalid %s value: %q", field, value))
		}
	}
	if len(details) > 0 {
		return appErrors.NewValidation("Validation failed", details)
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// JSON numbers decode as float64; accept those plus ints and numeric
// strings, rejecting fractional values.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
