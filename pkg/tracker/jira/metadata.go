package jira

import (
	"sort"
	"strconv"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	jira "github.com/andygrunwald/go-jira"
	"github.com/pkg/errors"
)

// fieldMeta is one entry of the createmeta fields map.
type fieldMeta struct {
	Required bool   `json:"required"`
	Name     string `json:"name"`
	Schema   struct {
		Type   string `json:"type"`
		Items  string `json:"items"`
		Custom string `json:"custom"`
	} `json:"schema"`
	AllowedValues []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"allowedValues"`
}

func toCacheEntry(meta *jira.CreateMetaInfo, projectKey string, issueType int64) (*core.CacheEntry, error) {
	var project *jira.MetaProject
	for _, p := range meta.Projects {
		if strings.EqualFold(p.Key, projectKey) {
			project = p
			break
		}
	}
	if project == nil {
		return nil, errors.Wrapf(errs.ErrNotFound, "project %s", projectKey)
	}
	typeID := strconv.FormatInt(issueType, 10)
	var it *jira.MetaIssueType
	for _, t := range project.IssueTypes {
		if t.Id == typeID {
			it = t
			break
		}
	}
	if it == nil {
		return nil, errors.Wrapf(errs.ErrNotFound, "issue type %d in project %s", issueType, projectKey)
	}

	entry := &core.CacheEntry{
		ProjectKey:    projectKey,
		IssueType:     issueType,
		IssueTypeName: it.Name,
		Fields:        make([]*core.FieldSpec, 0, len(it.Fields)),
	}
	for id, raw := range it.Fields {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "encode field %s", id)
		}
		var fm fieldMeta
		if err := json.Unmarshal(encoded, &fm); err != nil {
			return nil, errors.Wrapf(err, "decode field %s", id)
		}
		spec := &core.FieldSpec{
			ID:         id,
			Name:       fm.Name,
			Required:   fm.Required,
			SchemaType: fm.Schema.Type,
			Items:      fm.Schema.Items,
			Custom:     fm.Schema.Custom,
		}
		for _, v := range fm.AllowedValues {
			switch {
			case v.Value != "":
				spec.AllowedValues = append(spec.AllowedValues, v.Value)
			case v.Name != "":
				spec.AllowedValues = append(spec.AllowedValues, v.Name)
			default:
				spec.AllowedValues = append(spec.AllowedValues, v.ID)
			}
		}
		entry.Fields = append(entry.Fields, spec)
	}
	sort.Slice(entry.Fields, func(i, j int) bool { return entry.Fields[i].ID < entry.Fields[j].ID })
	return entry, nil
}
