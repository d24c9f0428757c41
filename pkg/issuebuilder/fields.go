package issuebuilder

import (
	"strconv"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/pkg/errors"
)

// inferKind picks the field kind from the create screen schema.
func inferKind(spec *core.FieldSpec) core.FieldKind {
	custom := strings.ToLower(spec.Custom)
	switch spec.SchemaType {
	case "option":
		return core.FieldKindSelect
	case "user":
		return core.FieldKindUser
	case "number":
		return core.FieldKindNumber
	case "array":
		switch spec.Items {
		case "option":
			return core.FieldKindMultiSelect
		case "string":
			return core.FieldKindLabels
		}
	case "string":
		if strings.HasSuffix(custom, ":select") || strings.HasSuffix(custom, ":radiobuttons") {
			return core.FieldKindSelect
		}
		if strings.HasSuffix(custom, ":textarea") {
			return core.FieldKindText
		}
	}
	if spec.ID == "labels" {
		return core.FieldKindLabels
	}
	return core.FieldKindString
}

// shape converts an expanded value into the json shape Jira expects for the kind.
// Unknown kinds are sent as plain strings.
func shape(kind core.FieldKind, value string) (interface{}, error) {
	switch kind {
	case core.FieldKindSelect:
		return map[string]string{"value": strings.TrimSpace(value)}, nil
	case core.FieldKindMultiSelect:
		options := []map[string]string{}
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				options = append(options, map[string]string{"value": v})
			}
		}
		return options, nil
	case core.FieldKindUser:
		return map[string]string{"name": strings.TrimSpace(value)}, nil
	case core.FieldKindLabels:
		// labels cannot contain spaces
		return strings.Fields(value), nil
	case core.FieldKindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %q is not a number", value)
		}
		return n, nil
	default:
		return value, nil
	}
}
