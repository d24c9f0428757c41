package jira

import (
	"io"
	"sort"

	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	jira "github.com/andygrunwald/go-jira"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBody = 64 << 10

// errorBody is the error payload of the Jira REST api.
type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// classify turns a go-jira failure into a RemoteError. The response body may
// already have been drained by go-jira, in which case only the status is kept.
func classify(resp *jira.Response, err error) *errs.RemoteError {
	remote := &errs.RemoteError{Err: err}
	if resp == nil || resp.Response == nil {
		return remote
	}
	remote.StatusCode = resp.StatusCode
	if resp.Body == nil {
		return remote
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil || len(raw) == 0 {
		return remote
	}
	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		return remote
	}
	remote.Messages = append(remote.Messages, body.ErrorMessages...)
	fields := make([]string, 0, len(body.Errors))
	for field := range body.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		remote.Messages = append(remote.Messages, field+": "+body.Errors[field])
	}
	return remote
}
