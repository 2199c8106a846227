package inference

import (
	"fmt"
	"strings"
)

// Category identifies one of the supported analysis types. The wire token
// is the canonical form persisted and accepted over the API.
type Category string

const (
	GeneralDescription      Category = "General_Description"
	AnomalyDetection        Category = "Anomaly_Detection"
	Segmentation            Category = "Segmentation"
	ConditionIdentification Category = "Condition_Identification"
)

var prompts = map[Category]string{
	GeneralDescription:      "Provide a detailed description of this MRI image.",
	AnomalyDetection:        "Identify potential anomalies in this MRI image.",
	Segmentation:            "Describe the different segments visible in this MRI image.",
	ConditionIdentification: "Identify potential medical conditions present in this MRI image.",
}

// Categories returns the supported categories in presentation order.
func Categories() []Category {
	return []Category{
		GeneralDescription,
		AnomalyDetection,
		Segmentation,
		ConditionIdentification,
	}
}

// ParseCategory resolves a wire token to a Category, case-insensitively.
func ParseCategory(token string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(token, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, token)
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	_, ok := prompts[c]
	return ok
}

// Prompt returns the model prompt associated with the category.
func (c Category) Prompt() string {
	return prompts[c]
}

func (c Category) String() string {
	return string(c)
}
